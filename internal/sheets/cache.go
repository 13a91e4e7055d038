package sheets

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/BladMendez/asistencia-mec-nica/internal/metrics"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Default cache lifetimes.
const (
	DefaultTableTTL  = 30 * time.Second
	DefaultTitlesTTL = 5 * time.Minute
)

// Cache holds read results. Implementations own their expiry.
type Cache interface {
	Table(ctx context.Context, key string) (*types.Table, bool)
	SetTable(ctx context.Context, key string, t *types.Table)
	Titles(ctx context.Context, key string) ([]string, bool)
	SetTitles(ctx context.Context, key string, titles []string)
}

// MemoryCache is an in-process Cache backed by go-cache.
type MemoryCache struct {
	tables *cache.Cache
	titles *cache.Cache
}

func NewMemoryCache(tableTTL, titlesTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		tables: cache.New(tableTTL, 2*tableTTL),
		titles: cache.New(titlesTTL, 2*titlesTTL),
	}
}

func (c *MemoryCache) Table(_ context.Context, key string) (*types.Table, bool) {
	v, ok := c.tables.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*types.Table).Clone(), true
}

func (c *MemoryCache) SetTable(_ context.Context, key string, t *types.Table) {
	c.tables.SetDefault(key, t.Clone())
}

func (c *MemoryCache) Titles(_ context.Context, key string) ([]string, bool) {
	v, ok := c.titles.Get(key)
	if !ok {
		return nil, false
	}
	return append([]string(nil), v.([]string)...), true
}

func (c *MemoryCache) SetTitles(_ context.Context, key string, titles []string) {
	c.titles.SetDefault(key, append([]string(nil), titles...))
}

// Cached serves ListWorksheets and ReadTable from a Cache, keyed by store
// handle and worksheet. Writes go straight to the wrapped store and do not
// invalidate: a mark just written may read stale until the entry expires.
// Paths that must observe their own writes read from the wrapped store.
type Cached struct {
	next  Store
	cache Cache
}

func NewCached(next Store, c Cache) *Cached {
	return &Cached{next: next, cache: c}
}

func (c *Cached) tableKey(worksheet string) string {
	return c.next.Handle() + "|" + worksheet
}

func lookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(kind, result).Inc()
}

func (c *Cached) Handle() string {
	return c.next.Handle()
}

func (c *Cached) ListWorksheets(ctx context.Context) ([]string, error) {
	key := c.next.Handle()
	if titles, ok := c.cache.Titles(ctx, key); ok {
		lookup("titles", true)
		return titles, nil
	}
	lookup("titles", false)

	titles, err := c.next.ListWorksheets(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetTitles(ctx, key, titles)
	return titles, nil
}

func (c *Cached) ReadTable(ctx context.Context, worksheet string) (*types.Table, error) {
	key := c.tableKey(worksheet)
	if t, ok := c.cache.Table(ctx, key); ok {
		lookup("table", true)
		return t, nil
	}
	lookup("table", false)

	t, err := c.next.ReadTable(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	c.cache.SetTable(ctx, key, t)
	return t, nil
}

func (c *Cached) WriteHeaderCell(ctx context.Context, worksheet string, col int, header string) error {
	return c.next.WriteHeaderCell(ctx, worksheet, col, header)
}

func (c *Cached) WriteCell(ctx context.Context, worksheet string, cell types.Cell) error {
	return c.next.WriteCell(ctx, worksheet, cell)
}

func (c *Cached) WriteCells(ctx context.Context, worksheet string, cells []types.Cell) error {
	return c.next.WriteCells(ctx, worksheet, cells)
}

func (c *Cached) ReplaceWorksheet(ctx context.Context, worksheet string, table *types.Table) error {
	return c.next.ReplaceWorksheet(ctx, worksheet, table)
}
