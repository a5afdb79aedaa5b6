package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/jsongraph/pkg/cache"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// MongoCollection is the collection holding documents.
const MongoCollection = "documents"

// mongoRecord is the stored form of one document.
type mongoRecord struct {
	Name       string    `bson:"_id"`
	Text       string    `bson:"text"`
	Revision   string    `bson:"revision"`
	HasChanges bool      `bson:"has_changes"`
	Source     string    `bson:"source,omitempty"`
	SavedAt    time.Time `bson:"saved_at"`
}

func (r mongoRecord) meta() Meta {
	return Meta{Revision: r.Revision, HasChanges: r.HasChanges, Source: r.Source, SavedAt: r.SavedAt}
}

// MongoStore keeps a named document in MongoDB, one record per name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
}

// NewMongoStore connects to uri and returns a store for the named document
// in the given database.
func NewMongoStore(ctx context.Context, uri, database, name string) (*MongoStore, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("ping mongo: %w", err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		name:   name,
	}, nil
}

func (s *MongoStore) find(ctx context.Context) (mongoRecord, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, errs.New(errs.ErrCodeNotFound, "document %q not found in mongo", s.name)
	}
	if err != nil {
		return rec, fmt.Errorf("find document: %w", err)
	}
	return rec, nil
}

// Text returns the stored text.
func (s *MongoStore) Text(ctx context.Context) (string, error) {
	rec, err := s.find(ctx)
	if err != nil {
		return "", err
	}
	return rec.Text, nil
}

// SetText upserts the record for this document.
func (s *MongoStore) SetText(ctx context.Context, text string, meta Meta) error {
	rec := mongoRecord{
		Name:       s.name,
		Text:       text,
		Revision:   meta.Revision,
		HasChanges: meta.HasChanges,
		Source:     meta.Source,
		SavedAt:    meta.SavedAt,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Meta returns the metadata stored with the document.
func (s *MongoStore) Meta(ctx context.Context) (Meta, error) {
	rec, err := s.find(ctx)
	if err != nil {
		return Meta{}, err
	}
	return rec.meta(), nil
}

// Backend returns "mongo".
func (s *MongoStore) Backend() string { return "mongo" }

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var (
	_ Store     = (*MongoStore)(nil)
	_ MetaStore = (*MongoStore)(nil)
)
