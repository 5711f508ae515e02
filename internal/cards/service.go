package cards

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"card-bookmark-api/internal/cache"
	"card-bookmark-api/internal/models"
	"card-bookmark-api/internal/store"

	"github.com/google/uuid"
)

// NewCard is the client-supplied part of a card; the id is assigned on Add.
type NewCard struct {
	URL         string
	Title       string
	Description string
}

// Notifier is told about every rebuild that changed the cached collection.
type Notifier interface {
	CardsChanged(count int, version uint64)
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Notifier Notifier
	Logger   *slog.Logger
	// NewID generates card ids; defaults to random UUIDs.
	NewID func() string
}

// Service serves card reads from the cache and applies writes to the store.
type Service struct {
	store    store.Gateway
	cache    cache.Cache[models.Card]
	notifier Notifier
	logger   *slog.Logger
	newID    func() string

	rebuildMu sync.Mutex
}

// NewService wires a Service around a store gateway and a card cache.
func NewService(gw store.Gateway, c cache.Cache[models.Card], opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{
		store:    gw,
		cache:    c,
		notifier: opts.Notifier,
		logger:   logger.With(slog.String("component", "cards")),
		newID:    newID,
	}
}

// List returns the cached cards. It never touches the store.
func (s *Service) List() []models.Card {
	return s.cache.Load()
}

// Len returns the number of cached cards.
func (s *Service) Len() int {
	return s.cache.Len()
}

// Version returns the cache generation, bumped on every rebuild.
func (s *Service) Version() uint64 {
	return s.cache.Version()
}

// Rebuild reloads every card from the store and replaces the cache with the
// result. On failure the cache keeps its previous content.
func (s *Service) Rebuild(ctx context.Context) error {
	changed, count, version, err := s.rebuild(ctx)
	if err != nil {
		return err
	}
	if changed && s.notifier != nil {
		s.notifier.CardsChanged(count, version)
	}
	return nil
}

func (s *Service) rebuild(ctx context.Context) (changed bool, count int, version uint64, err error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	cards, err := s.store.FindAll(ctx)
	if err != nil {
		return false, 0, 0, fmt.Errorf("rebuild cache: %w", err)
	}
	previous := s.cache.Load()
	s.cache.Replace(cards)
	return !sameCards(previous, cards), len(cards), s.cache.Version(), nil
}

// Add stores a new card under a freshly generated id and rebuilds the cache
// before returning that id.
func (s *Service) Add(ctx context.Context, in NewCard) (string, error) {
	card := models.Card{
		ID:          s.newID(),
		URL:         in.URL,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.store.Insert(ctx, card); err != nil {
		s.logger.Error("add card failed", slog.String("error", err.Error()))
		return "", err
	}
	if err := s.Rebuild(ctx); err != nil {
		s.logger.Error("rebuild after add failed",
			slog.String("card_id", card.ID),
			slog.String("error", err.Error()))
		return "", err
	}
	s.logger.Info("card added", slog.String("card_id", card.ID))
	return card.ID, nil
}

// Delete removes the card with the given id, if any, and rebuilds the cache.
// Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		s.logger.Error("delete card failed",
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return err
	}
	if err := s.Rebuild(ctx); err != nil {
		s.logger.Error("rebuild after delete failed",
			slog.String("card_id", id),
			slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("card deleted", slog.String("card_id", id))
	return nil
}

// PlaceholderCard is inserted by Seed into an empty store.
var PlaceholderCard = NewCard{
	URL:         "https://example.com",
	Title:       "Example",
	Description: "An example card",
}

// Seed inserts PlaceholderCard when the store holds no cards. It is
// best-effort: errors are logged and returned, and a non-empty store is left
// alone so restarts never seed twice.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.store.FindAll(ctx)
	if err != nil {
		s.logger.Warn("seed skipped", slog.String("error", err.Error()))
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Debug("seed not needed", slog.Int("cards", len(existing)))
		return nil
	}

	card := models.Card{
		ID:          s.newID(),
		URL:         PlaceholderCard.URL,
		Title:       PlaceholderCard.Title,
		Description: PlaceholderCard.Description,
	}
	if err := s.store.Insert(ctx, card); err != nil {
		s.logger.Warn("seed insert failed", slog.String("error", err.Error()))
		return fmt.Errorf("seed: %w", err)
	}
	s.logger.Info("seeded placeholder card", slog.String("card_id", card.ID))

	if err := s.Rebuild(ctx); err != nil {
		s.logger.Warn("rebuild after seed failed", slog.String("error", err.Error()))
	}
	return nil
}

// RunRefresher rebuilds the cache immediately and then once per interval
// until ctx is cancelled. Failed rebuilds are logged and the stale snapshot
// keeps being served.
func (s *Service) RunRefresher(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("refresher: interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

func (s *Service) refreshOnce(ctx context.Context) {
	if err := s.Rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("cache refresh failed, serving stale cards",
			slog.Int("cached", s.cache.Len()),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("cache refreshed", slog.Int("cards", s.cache.Len()))
}

func sameCards(a, b []models.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameContent(b[i]) {
			return false
		}
	}
	return true
}
