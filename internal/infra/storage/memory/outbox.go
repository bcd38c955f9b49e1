package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "innstay/internal/app/outbox"
	infraoutbox "innstay/internal/infra/outbox"
)

// OutboxStore keeps outbox records in memory. It backs the relay worker in
// tests and local runs.
type OutboxStore struct {
	mu   sync.Mutex
	docs map[string]*infraoutbox.EventDocument
	ids  []string
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{docs: make(map[string]*infraoutbox.EventDocument)}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.docs[record.ID] = &infraoutbox.EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		State:       infraoutbox.StateNew,
		NextAttempt: now,
	}
	s.ids = append(s.ids, record.ID)
	return nil
}

func (s *OutboxStore) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range s.ids {
		doc := s.docs[id]
		if doc.State != infraoutbox.StateNew && doc.State != infraoutbox.StateFailed {
			continue
		}
		if doc.NextAttempt.After(now) {
			continue
		}
		doc.State = infraoutbox.StateClaimed
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		copyDoc := *doc
		return &copyDoc, nil
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[id]; ok {
		doc.State = infraoutbox.StateSent
		doc.SentAt = time.Now().UTC()
	}
	return nil
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[id]; ok {
		doc.State = infraoutbox.StateFailed
		doc.NextAttempt = next
		doc.LastError = errMsg
		doc.Attempts++
	}
	return nil
}

// Records returns a snapshot of all stored documents in insertion order.
func (s *OutboxStore) Records() []infraoutbox.EventDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]infraoutbox.EventDocument, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, *s.docs[id])
	}
	return out
}

var (
	_ appoutbox.Outbox  = (*OutboxStore)(nil)
	_ infraoutbox.Store = (*OutboxStore)(nil)
)
