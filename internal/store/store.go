// Package store is the gateway between the card service and the persistent
// card collection. Every failure it reports wraps ErrStoreUnavailable.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"card-bookmark-api/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrStoreUnavailable covers connection, query, write and timeout failures.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound is returned by deleteByID when no card matched. Callers
	// outside this package never see it.
	ErrNotFound = errors.New("card not found")
	// ErrMissingID is returned by Insert for a card without an id. It is a
	// caller bug, not a store failure, so it does not wrap ErrStoreUnavailable.
	ErrMissingID = errors.New("card id is required")
)

// DefaultTimeout bounds a single store call when none is configured.
const DefaultTimeout = 5 * time.Second

// Gateway is the set of store calls the card service depends on.
type Gateway interface {
	FindAll(ctx context.Context) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) error
	DeleteByID(ctx context.Context, id string) error
}

// CardStore implements Gateway on top of gorm. It is safe for concurrent use;
// the underlying *gorm.DB owns a shared connection pool.
type CardStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewCardStore wraps db. A non-positive timeout falls back to DefaultTimeout.
func NewCardStore(db *gorm.DB, timeout time.Duration) *CardStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CardStore{db: db, timeout: timeout}
}

// FindAll returns every persisted card in insertion order.
func (s *CardStore) FindAll(ctx context.Context) ([]models.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cards := make([]models.Card, 0)
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&cards).Error; err != nil {
		return nil, unavailable("find cards", err)
	}
	return cards, nil
}

// Insert persists card as-is; the id must already be assigned.
func (s *CardStore) Insert(ctx context.Context, card models.Card) error {
	if card.ID == "" {
		return fmt.Errorf("insert card: %w", ErrMissingID)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		return unavailable("insert card", err)
	}
	return nil
}

// DeleteByID removes the card with the given id. A missing id is not an error.
func (s *CardStore) DeleteByID(ctx context.Context, id string) error {
	err := s.deleteByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (s *CardStore) deleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Card{})
	if result.Error != nil {
		return unavailable("delete card", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// Ensure CardStore implements Gateway at compile time.
var _ Gateway = (*CardStore)(nil)
