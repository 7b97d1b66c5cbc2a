package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/seed"
)

var seedForce bool

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite an existing document")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the built-in seed document to the configured store",
	Long: `Write the built-in seed document (five roles, ten permissions, five
users) to the store selected by STORE_BACKEND.

An existing document is left alone unless --force is given.

Examples:
  rbac-api seed
  STORE_FILE=/tmp/db.json rbac-api seed --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer b.Close(context.Background())
		return writeSeed(cmd.Context(), b.docs, seedForce, cmd.OutOrStdout())
	},
}

func writeSeed(ctx context.Context, docs ports.DocumentStore, force bool, out io.Writer) error {
	if !force {
		_, err := docs.Load(ctx)
		if err == nil {
			return errors.New("store already holds a document, use --force to overwrite it")
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	doc, err := seed.Document()
	if err != nil {
		return err
	}
	if err := docs.Save(ctx, doc); err != nil {
		return fmt.Errorf("save seed: %w", err)
	}
	fmt.Fprintf(out, "Seeded %d users, %d roles, %d permissions\n", len(doc.Users), len(doc.Roles), len(doc.Permissions))
	return nil
}
