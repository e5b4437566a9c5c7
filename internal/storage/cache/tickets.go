// Package cache keeps short-lived upload state in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-board-api/internal/storage"

	"github.com/redis/go-redis/v9"
)

const ticketKeyPrefix = "upload_ticket:"

// TicketStore implements storage.UploadTicketStore on redis. Each ticket is one key
// with a TTL; redeeming it is a GETDEL, so a ticket can be used only once even when
// two uploads race for it.
type TicketStore struct {
	rdb redis.Cmdable
}

// NewTicketStore creates a TicketStore.
func NewTicketStore(rdb redis.Cmdable) *TicketStore {
	return &TicketStore{rdb: rdb}
}

var _ storage.UploadTicketStore = (*TicketStore)(nil)

// Issue stores the ticket until ttl passes.
func (s *TicketStore) Issue(ctx context.Context, ticket *storage.UploadTicket, ttl time.Duration) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("encode upload ticket: %w", err)
	}
	if err := s.rdb.Set(ctx, ticketKeyPrefix+ticket.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store upload ticket: %w", err)
	}
	return nil
}

// Consume redeems the ticket. Unknown, expired and already used tickets yield storage.ErrNotFound.
func (s *TicketStore) Consume(ctx context.Context, token string) (*storage.UploadTicket, error) {
	payload, err := s.rdb.GetDel(ctx, ticketKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("upload ticket: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("redeem upload ticket: %w", err)
	}

	var ticket storage.UploadTicket
	if err := json.Unmarshal(payload, &ticket); err != nil {
		return nil, fmt.Errorf("decode upload ticket: %w", err)
	}
	return &ticket, nil
}
