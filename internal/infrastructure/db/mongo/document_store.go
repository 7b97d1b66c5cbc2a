package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const (
	collectionDocuments = "rbac_documents"
	documentID          = "rbac"
)

// DocumentStore keeps the whole RBAC document as a single Mongo document and
// replaces it wholesale on every save.
type DocumentStore struct {
	col *mongo.Collection
}

var (
	_ ports.DocumentStore = (*DocumentStore)(nil)
	_ ports.Pinger        = (*DocumentStore)(nil)
)

type storedDocument struct {
	ID              string    `bson:"_id"`
	domain.Document `bson:",inline"`
	SavedAt         time.Time `bson:"saved_at"`
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{col: db.Collection(collectionDocuments)}
}

// Load returns domain.ErrNotFound when the collection has never been written.
func (s *DocumentStore) Load(ctx context.Context) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stored storedDocument
	err := s.col.FindOne(ctx, bson.M{"_id": documentID}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("load document: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc := stored.Document
	return &doc, nil
}

func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := storedDocument{ID: documentID, Document: *doc, SavedAt: time.Now().UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": documentID}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}
