package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/glabrego/pokedex-cli/internal/pokeapi"
)

const (
	DefaultConcurrency  = 8
	DefaultFetchTimeout = 15 * time.Second
)

const categoriesKey = "types"

// Fetcher is the upstream surface the catalog memoizes.
type Fetcher interface {
	ListPokemon(ctx context.Context, limit int) ([]pokeapi.NamedResource, error)
	GetPokemon(ctx context.Context, idOrName string) (pokeapi.Pokemon, error)
	ListTypes(ctx context.Context) ([]pokeapi.NamedResource, error)
}

type Stats struct {
	Hits    int
	Misses  int
	Fetches int
}

// Catalog memoizes every successful upstream response for the lifetime of
// the value. A key is fetched at most once, concurrent lookups included.
// Failures are not stored.
type Catalog struct {
	fetcher     Fetcher
	logger      *zap.Logger
	concurrency int
	timeout     time.Duration
	group       singleflight.Group

	mu         sync.Mutex
	lists      map[string][]Reference
	details    map[string]Detail
	categories []string
	hasTypes   bool
	stats      Stats
}

type Option func(*Catalog)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency sets the fan-out used by FetchDetails.
func WithConcurrency(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithFetchTimeout bounds one shared upstream fetch. It applies on top of
// whatever deadline the HTTP client itself enforces.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Catalog {
	c := &Catalog{
		fetcher:     fetcher,
		logger:      zap.NewNop(),
		concurrency: DefaultConcurrency,
		timeout:     DefaultFetchTimeout,
		lists:       make(map[string][]Reference),
		details:     make(map[string]Detail),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func ListKey(limit int) string {
	return "list-" + strconv.Itoa(limit)
}

func DetailKey(idOrName string) string {
	return strings.ToLower(strings.TrimSpace(idOrName))
}

func (c *Catalog) ListReferences(ctx context.Context, limit int) ([]Reference, error) {
	if limit < 1 {
		return nil, fmt.Errorf("list references: limit must be positive, got %d", limit)
	}
	key := ListKey(limit)
	refs, err := load(ctx, c, key,
		func() ([]Reference, bool) {
			refs, ok := c.lists[key]
			return refs, ok
		},
		func(ctx context.Context) ([]Reference, error) {
			resources, err := c.fetcher.ListPokemon(ctx, limit)
			if err != nil {
				return nil, err
			}
			refs := referencesFromResources(resources)
			c.mu.Lock()
			c.lists[key] = refs
			c.mu.Unlock()
			return refs, nil
		})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	return refs, nil
}

func (c *Catalog) GetDetail(ctx context.Context, idOrName string) (Detail, error) {
	key := DetailKey(idOrName)
	if key == "" {
		return Detail{}, fmt.Errorf("get detail: empty key")
	}
	d, err := load(ctx, c, "detail:"+key,
		func() (Detail, bool) {
			d, ok := c.details[key]
			return d, ok
		},
		func(ctx context.Context) (Detail, error) {
			p, err := c.fetcher.GetPokemon(ctx, key)
			if err != nil {
				return Detail{}, err
			}
			d := detailFromPokemon(p)
			c.mu.Lock()
			c.details[key] = d
			if name := DetailKey(d.Name); name != "" {
				c.details[name] = d
			}
			if d.ID > 0 {
				c.details[strconv.Itoa(d.ID)] = d
			}
			c.mu.Unlock()
			return d, nil
		})
	if err != nil {
		return Detail{}, fmt.Errorf("get detail %q: %w", key, err)
	}
	return d, nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]string, error) {
	labels, err := load(ctx, c, categoriesKey,
		func() ([]string, bool) {
			return c.categories, c.hasTypes
		},
		func(ctx context.Context) ([]string, error) {
			resources, err := c.fetcher.ListTypes(ctx)
			if err != nil {
				return nil, err
			}
			labels := make([]string, 0, len(resources))
			for _, r := range resources {
				labels = append(labels, r.Name)
			}
			c.mu.Lock()
			c.categories = labels
			c.hasTypes = true
			c.mu.Unlock()
			return labels, nil
		})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return labels, nil
}

// CachedDetail returns a previously fetched detail without touching the network.
func (c *Catalog) CachedDetail(idOrName string) (Detail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.details[DetailKey(idOrName)]
	return d, ok
}

func (c *Catalog) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// BatchResult holds the successes of FetchDetails in request order plus the
// keys that failed.
type BatchResult struct {
	Details []Detail
	Failed  []string
}

// FetchDetails loads many details through a bounded worker pool. A failing
// key is logged and skipped; the rest of the batch still runs.
func (c *Catalog) FetchDetails(ctx context.Context, keys []string) BatchResult {
	slots := make([]*Detail, len(keys))
	failed := make([]bool, len(keys))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failed[i] = true
				return nil
			}
			d, err := c.GetDetail(ctx, key)
			if err != nil {
				c.logger.Warn("detail fetch failed", zap.String("key", key), zap.Error(err))
				failed[i] = true
				return nil
			}
			slots[i] = &d
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Details: make([]Detail, 0, len(keys))}
	for i, d := range slots {
		if failed[i] {
			out.Failed = append(out.Failed, keys[i])
			continue
		}
		out.Details = append(out.Details, *d)
	}
	if len(out.Failed) > 0 {
		c.logger.Info("detail batch finished with failures",
			zap.Int("requested", len(keys)),
			zap.Int("failed", len(out.Failed)))
	}
	return out
}

// load is the shared memoization path: cache lookup, then a singleflight
// fetch that re-checks the cache before calling fetch. The shared fetch is
// detached from the caller that started it and bounded by the catalog
// timeout instead, so one caller giving up does not fail the others. Each
// caller still stops waiting when its own ctx is done.
func load[V any](ctx context.Context, c *Catalog, flightKey string, get func() (V, bool), fetch func(context.Context) (V, error)) (V, error) {
	var zero V
	c.mu.Lock()
	v, ok := get()
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		c.mu.Lock()
		v, ok := get()
		if !ok {
			c.stats.Fetches++
		}
		c.mu.Unlock()
		if ok {
			return v, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		c.logger.Debug("upstream fetch", zap.String("key", flightKey))
		return fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
