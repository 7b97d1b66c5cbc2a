package cmd

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/config"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/db/file"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/db/memory"
	mongodb "github.com/rbac-admin/rbac-api/internal/infrastructure/db/mongo"
	redisdb "github.com/rbac-admin/rbac-api/internal/infrastructure/db/redis"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/queue"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/token"
	"github.com/rbac-admin/rbac-api/internal/seed"
)

// backend is the document store selected by STORE_BACKEND plus whatever
// connections it holds open.
type backend struct {
	docs ports.DocumentStore
	// file is set for the file backend so serve can watch it.
	file *file.DocumentStore
	// db is set for the mongo backend; the audit trail shares it.
	db *mongo.Database

	closers []func(context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	b := &backend{}
	switch cfg.Store.Backend {
	case config.BackendFile:
		b.file = file.NewDocumentStore(cfg.Store.File)
		b.docs = b.file
		log.Info().Str("path", cfg.Store.File).Msg("using file document store")
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		b.db = db
		b.docs = mongodb.NewDocumentStore(db)
		b.closers = append(b.closers, client.Disconnect)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo document store")
	case config.BackendMemory:
		doc, err := seed.Document()
		if err != nil {
			return nil, err
		}
		b.docs = memory.NewDocumentStore(doc)
		log.Warn().Msg("using in-memory document store, changes are lost on exit")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return b, nil
}

func (b *backend) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

// seedIfEmpty writes the embedded seed when the backend holds no document.
// It reports whether it wrote anything.
func seedIfEmpty(ctx context.Context, docs ports.DocumentStore) (bool, error) {
	_, err := docs.Load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	doc, err := seed.Document()
	if err != nil {
		return false, err
	}
	if err := docs.Save(ctx, doc); err != nil {
		return false, fmt.Errorf("save seed: %w", err)
	}
	return true, nil
}

func newTokenManager(cfg *config.Config) (ports.TokenManager, error) {
	switch cfg.Token.Scheme {
	case config.SchemeJWT:
		j, err := token.NewJWT(cfg.Token.Secret, cfg.Token.TTL)
		if err != nil {
			return nil, err
		}
		return j, nil
	default:
		return token.NewOpaque(cfg.Token.StrictBinding), nil
	}
}

// revocationList is the revoker plus its readiness probe, which is nil for
// the in-memory list.
type revocationList struct {
	ports.TokenRevoker
	pinger ports.Pinger
	client *goredis.Client
}

func openRevocations(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*revocationList, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, token revocations kept in memory")
		return &revocationList{TokenRevoker: memory.NewRevocations(0, cfg.Token.TTL)}, nil
	}
	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	revs := redisdb.NewRevocations(client)
	return &revocationList{TokenRevoker: revs, pinger: revs, client: client}, nil
}

func (r *revocationList) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}

// newAuditSink writes to Mongo when the document lives there and to the
// log otherwise.
func newAuditSink(ctx context.Context, b *backend, log zerolog.Logger) (ports.AuditSink, error) {
	if b.db == nil {
		return queue.NewLogSink(log), nil
	}
	repo := mongodb.NewAuditRepository(b.db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
