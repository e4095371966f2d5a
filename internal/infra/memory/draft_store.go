package memory

import (
	"context"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/infra/cache"
)

// DraftStore keeps configurator drafts in a TTL cache.
type DraftStore struct {
	cache *cache.InMemory[domain.Draft]
}

// NewDraftStore creates a draft store whose entries expire after ttl.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{cache: cache.New[domain.Draft](ttl)}
}

func (s *DraftStore) GetDraft(_ context.Context, id string) (*domain.Draft, error) {
	d, ok := s.cache.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	return &d, nil
}

func (s *DraftStore) SaveDraft(_ context.Context, draft *domain.Draft) error {
	s.cache.Set(draft.ID, *draft)
	return nil
}

func (s *DraftStore) DeleteDraft(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Close stops the expiry goroutine.
func (s *DraftStore) Close() {
	s.cache.Close()
}
