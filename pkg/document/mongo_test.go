package document

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

func TestMongoRecordFields(t *testing.T) {
	rec := mongoRecord{Name: "fruits", Text: "{}", Revision: "r1", SavedAt: time.Unix(0, 0).UTC()}

	data, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["_id"] != "fruits" {
		t.Errorf("_id = %v, want fruits", raw["_id"])
	}
	if _, ok := raw["source"]; ok {
		t.Error("empty source should be omitted")
	}
	if got := rec.meta(); got.Revision != "r1" || !got.SavedAt.Equal(rec.SavedAt) {
		t.Errorf("meta() = %+v", got)
	}
}

// TestMongoStore runs against a real server when JSONGRAPH_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("JSONGRAPH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("JSONGRAPH_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "jsongraph_test", "fruits-"+time.Now().Format("150405"))
	if err != nil {
		t.Fatalf("NewMongoStore() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Text(ctx); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Text() before write error = %v", err)
	}
	roundTrip(t, s)
	defer s.coll.Drop(ctx)
}
