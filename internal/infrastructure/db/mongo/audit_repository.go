package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const collectionAuditEvents = "audit_events"

// AuditRepository appends audit events. Event ids are generated by the
// caller, so a retried insert of the same event is reported as a duplicate
// and ignored.
type AuditRepository struct {
	col *mongo.Collection
}

var _ ports.AuditSink = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditEvents)}
}

// EnsureIndexes creates the lookup index on actor and time.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("actor_at"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

func (r *AuditRepository) Write(ctx context.Context, event domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
