package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/jsongraph/pkg/cache"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// RedisKeyPrefix prefixes every key written by [RedisStore].
const RedisKeyPrefix = "jsongraph:doc:"

// RedisStore keeps a named document in Redis: the text under
// "jsongraph:doc:<name>" and its metadata in the hash "jsongraph:doc:<name>:meta".
type RedisStore struct {
	client *redis.Client
	name   string
}

// NewRedisStore connects to url and returns a store for the named document.
func NewRedisStore(ctx context.Context, url, name string) (*RedisStore, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return cache.Retryable(fmt.Errorf("connect to redis: %w", err))
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client, name: name}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client, name string) (*RedisStore, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, name: name}, nil
}

func (s *RedisStore) key() string     { return RedisKeyPrefix + s.name }
func (s *RedisStore) metaKey() string { return s.key() + ":meta" }

// Text returns the stored text.
func (s *RedisStore) Text(ctx context.Context) (string, error) {
	text, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.New(errs.ErrCodeNotFound, "document %q not found in redis", s.name)
	}
	if err != nil {
		return "", fmt.Errorf("get document: %w", err)
	}
	return text, nil
}

// SetText writes the text and its metadata in one transaction.
func (s *RedisStore) SetText(ctx context.Context, text string, meta Meta) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(), text, 0)
		pipe.HSet(ctx, s.metaKey(),
			"revision", meta.Revision,
			"hasChanges", strconv.FormatBool(meta.HasChanges),
			"source", meta.Source,
			"savedAt", meta.SavedAt.UTC().Format(time.RFC3339Nano),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Meta returns the metadata of the last write. A document without metadata
// yields the zero Meta.
func (s *RedisStore) Meta(ctx context.Context) (Meta, error) {
	fields, err := s.client.HGetAll(ctx, s.metaKey()).Result()
	if err != nil {
		return Meta{}, fmt.Errorf("get document meta: %w", err)
	}
	meta := Meta{
		Revision: fields["revision"],
		Source:   fields["source"],
	}
	meta.HasChanges, _ = strconv.ParseBool(fields["hasChanges"])
	if at := fields["savedAt"]; at != "" {
		meta.SavedAt, _ = time.Parse(time.RFC3339Nano, at)
	}
	return meta, nil
}

// Backend returns "redis".
func (s *RedisStore) Backend() string { return "redis" }

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var (
	_ Store     = (*RedisStore)(nil)
	_ MetaStore = (*RedisStore)(nil)
)
