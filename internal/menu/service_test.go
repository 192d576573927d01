package menu

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	"github.com/chopnowhq/chopnow-backend/pkg/redis"
)

type stubCatalog struct {
	items      []models.MenuItem
	total      int64
	categories []models.Category
	listCalls  int
}

func (s *stubCatalog) ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, int64, error) {
	s.listCalls++
	return s.items, s.total, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

type memoryCache struct {
	entries map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.entries[key] = value.(string)
	return nil
}

func (m *memoryCache) CacheKey(parts ...string) string {
	key := "cn:cache"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func testCacheConfig() config.Cache {
	return config.Cache{MenuTTL: 5 * time.Minute, CategoryTTL: 30 * time.Minute}
}

func TestListItemsPopulatesCache(t *testing.T) {
	repo := &stubCatalog{
		items: []models.MenuItem{{ID: uuid.New(), Name: "Jollof Rice", Price: decimal.NewFromInt(2500)}},
		total: 1,
	}
	cache := newMemoryCache()
	svc, err := NewService(repo, cache, testCacheConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	first, err := svc.ListItems(context.Background(), ItemFilter{Page: 1})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(first.Items) != 1 || first.Total != 1 {
		t.Fatalf("unexpected result: %+v", first)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repo call, got %d", repo.listCalls)
	}

	second, err := svc.ListItems(context.Background(), ItemFilter{Page: 1})
	if err != nil {
		t.Fatalf("ListItems (cached): %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected cache hit, repo calls = %d", repo.listCalls)
	}
	if second.Items[0].Name != "Jollof Rice" {
		t.Fatalf("cached item mismatch: %s", second.Items[0].Name)
	}
}

func TestListItemsCacheKeyVariesByFilter(t *testing.T) {
	repo := &stubCatalog{total: 0}
	cache := newMemoryCache()
	svc, err := NewService(repo, cache, testCacheConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	categoryID := uuid.New()
	popular := true
	if _, err := svc.ListItems(context.Background(), ItemFilter{Page: 1}); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if _, err := svc.ListItems(context.Background(), ItemFilter{Page: 1, CategoryID: &categoryID, Popular: &popular, Search: "rice"}); err != nil {
		t.Fatalf("ListItems (filtered): %v", err)
	}

	if repo.listCalls != 2 {
		t.Fatalf("different filters must not share a cache entry, repo calls = %d", repo.listCalls)
	}
	if len(cache.entries) != 2 {
		t.Fatalf("expected two cache entries, got %d", len(cache.entries))
	}
}

func TestListItemsWithoutCache(t *testing.T) {
	repo := &stubCatalog{total: 0}
	svc, err := NewService(repo, nil, testCacheConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.ListItems(context.Background(), ItemFilter{Page: 0})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Items == nil {
		t.Fatal("items must be an empty slice, not nil")
	}
	if result.Page != 1 {
		t.Fatalf("page must be clamped to 1, got %d", result.Page)
	}
}

func TestListCategoriesCached(t *testing.T) {
	repo := &stubCatalog{categories: []models.Category{{ID: uuid.New(), Name: "Mains"}}}
	cache := newMemoryCache()
	svc, err := NewService(repo, cache, testCacheConfig(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	categories, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected one category, got %d", len(categories))
	}

	raw, ok := cache.entries[cache.CacheKey("menu", "categories")]
	if !ok {
		t.Fatal("expected categories cache entry")
	}
	var cached []models.Category
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cached payload not valid json: %v", err)
	}
}
