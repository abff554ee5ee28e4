package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/glabrego/pokedex-cli/internal/catalog"
	"github.com/glabrego/pokedex-cli/internal/config"
	"github.com/glabrego/pokedex-cli/internal/derive"
	"github.com/glabrego/pokedex-cli/internal/navigation"
	"github.com/glabrego/pokedex-cli/internal/pokeapi"
	"github.com/glabrego/pokedex-cli/internal/storage"
)

const DefaultFallbackLimit = 300

type CatalogClient interface {
	ListReferences(ctx context.Context, limit int) ([]catalog.Reference, error)
	GetDetail(ctx context.Context, idOrName string) (catalog.Detail, error)
	ListCategories(ctx context.Context) ([]string, error)
	FetchDetails(ctx context.Context, keys []string) catalog.BatchResult
}

type SequenceStore interface {
	Publish(ctx context.Context, seq []string) error
	Read(ctx context.Context) ([]string, bool)
}

// SequenceSource says where a resolved visible sequence came from.
type SequenceSource string

const (
	SourcePublished SequenceSource = "published"
	SourceFallback  SequenceSource = "fallback"
)

// Service is the per-session object the views talk to. It owns the cache and
// the navigation slot; Close tears both down.
type Service struct {
	catalog       CatalogClient
	nav           SequenceStore
	logger        *zap.Logger
	fallbackLimit int
	closers       []func() error

	// mu guards the staged sequence. Versions only grow.
	mu      sync.Mutex
	version uint64
	staged  []string

	// persistMu serialises writes to nav; persisted is the newest version written.
	persistMu sync.Mutex
	persisted uint64
}

func NewService(cat CatalogClient, nav SequenceStore, logger *zap.Logger, fallbackLimit int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallbackLimit < 1 {
		fallbackLimit = DefaultFallbackLimit
	}
	return &Service{catalog: cat, nav: nav, logger: logger, fallbackLimit: fallbackLimit}
}

// Open wires a full session from cfg: HTTP client, memoizing catalog, and a
// fresh session store.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := storage.OpenSession(ctx, cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	logger.Info("session opened", zap.String("session", store.ID()))

	client := pokeapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	cat := catalog.New(client,
		catalog.WithLogger(logger.Named("catalog")),
		catalog.WithConcurrency(cfg.FetchConcurrency),
		catalog.WithFetchTimeout(cfg.HTTPTimeout))
	nav := navigation.NewStore(store, logger.Named("navigation"))

	svc := NewService(cat, nav, logger, cfg.FallbackLimit)
	svc.closers = append(svc.closers, store.Close)
	return svc, nil
}

func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	s.logger.Info("session closed")
	return errors.Join(errs...)
}

func (s *Service) ListReferences(ctx context.Context, limit int) ([]catalog.Reference, error) {
	return s.catalog.ListReferences(ctx, limit)
}

func (s *Service) GetDetail(ctx context.Context, idOrName string) (catalog.Detail, error) {
	d, err := s.catalog.GetDetail(ctx, idOrName)
	if err != nil {
		s.logger.Warn("detail load failed", zap.String("key", idOrName), zap.Error(err))
		return catalog.Detail{}, err
	}
	return d, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *Service) FetchDetails(ctx context.Context, keys []string) catalog.BatchResult {
	return s.catalog.FetchDetails(ctx, keys)
}

// PublishSequence stages names and persists them before returning.
func (s *Service) PublishSequence(ctx context.Context, names []string) error {
	return s.PersistSequence(ctx, s.StageSequence(names))
}

// StageSequence makes names the visible sequence immediately and returns its
// version. ResolveSequence sees it without waiting for PersistSequence.
func (s *Service) StageSequence(names []string) uint64 {
	seq := append([]string{}, names...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.staged = seq
	return s.version
}

// PersistSequence writes the staged sequence to the session store. A version
// that has been superseded is skipped, so the store never moves backwards.
func (s *Service) PersistSequence(ctx context.Context, version uint64) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	latest, seq := s.version, s.staged
	s.mu.Unlock()
	if version != latest || latest <= s.persisted {
		s.logger.Debug("skipping superseded sequence write",
			zap.Uint64("version", version), zap.Uint64("latest", latest))
		return nil
	}
	if err := s.nav.Publish(ctx, seq); err != nil {
		return err
	}
	s.persisted = latest
	return nil
}

// ResolveSequence returns the last published visible sequence, or derives one
// from the default listing when nothing usable was published. An empty
// sequence counts as nothing published.
func (s *Service) ResolveSequence(ctx context.Context) ([]string, SequenceSource, error) {
	s.mu.Lock()
	version, staged := s.version, s.staged
	s.mu.Unlock()
	if version > 0 {
		if len(staged) > 0 {
			return append([]string(nil), staged...), SourcePublished, nil
		}
	} else if seq, ok := s.nav.Read(ctx); ok && len(seq) > 0 {
		return seq, SourcePublished, nil
	}
	refs, err := s.catalog.ListReferences(ctx, s.fallbackLimit)
	if err != nil {
		return nil, SourceFallback, fmt.Errorf("load fallback sequence: %w", err)
	}
	seq := make([]string, 0, len(refs))
	for _, r := range refs {
		seq = append(seq, r.Name)
	}
	return seq, SourceFallback, nil
}

// Neighbor resolves the sequence and returns the name delta steps from
// current, wrapping around. ok is false when current is not in the sequence.
func (s *Service) Neighbor(ctx context.Context, current string, delta int) (string, bool, error) {
	seq, _, err := s.ResolveSequence(ctx)
	if err != nil {
		return "", false, err
	}
	i, ok := navigation.Locate(current, seq)
	if !ok {
		return "", false, nil
	}
	return navigation.Offset(seq, i, delta), true, nil
}

// ItemsFromReferences converts listing rows into derivation items. Rows whose
// locator has no numeric id get id 0.
func ItemsFromReferences(refs []catalog.Reference) []derive.Item {
	items := make([]derive.Item, 0, len(refs))
	for _, r := range refs {
		id, _ := r.ID()
		items = append(items, derive.Item{ID: id, Name: r.Name})
	}
	return items
}
