// Package redis stores configurator drafts in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("redis")

// DraftStore implements port.DraftStore. Each draft lives under
// draft:<id> and expires after ttl of inactivity.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient creates a Redis client.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     50,
		MinIdleConns: 5,
	})
}

// NewDraftStore creates a draft store on an existing client.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

// Ping checks connectivity, used by /readyz.
func (s *DraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *DraftStore) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func (s *DraftStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	ctx, span := tracer.Start(ctx, "Redis.GetDraft")
	defer span.End()
	span.SetAttributes(attribute.String("draft.id", id))

	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "redis/drafts", Err: fmt.Errorf("get draft: %w", err)}
	}

	var draft domain.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *DraftStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	ctx, span := tracer.Start(ctx, "Redis.SaveDraft")
	defer span.End()
	span.SetAttributes(attribute.String("draft.id", draft.ID))

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return &domain.ErrExternalService{Service: "redis/drafts", Err: fmt.Errorf("set draft: %w", err)}
	}
	return nil
}

func (s *DraftStore) DeleteDraft(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Redis.DeleteDraft")
	defer span.End()

	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return &domain.ErrExternalService{Service: "redis/drafts", Err: fmt.Errorf("delete draft: %w", err)}
	}
	return nil
}

func draftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}
