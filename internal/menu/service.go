package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
	pkgerrors "github.com/chopnowhq/chopnow-backend/pkg/errors"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
	"github.com/chopnowhq/chopnow-backend/pkg/redis"
)

// ItemListResult is one page of the menu.
type ItemListResult struct {
	Items      []models.MenuItem `json:"items"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// Service exposes cached catalog browsing.
type Service interface {
	ListItems(ctx context.Context, filter ItemFilter) (*ItemListResult, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type catalogReader interface {
	ListItems(ctx context.Context, filter ItemFilter) ([]models.MenuItem, int64, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo  catalogReader
	cache redis.CacheStore
	cfg   config.Cache
	logg  *logger.Logger
}

// NewService constructs a menu service. The cache is optional; without it
// every read goes to the database.
func NewService(repo catalogReader, cache redis.CacheStore, cfg config.Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo, cache: cache, cfg: cfg, logg: logg}, nil
}

func (s *service) ListItems(ctx context.Context, filter ItemFilter) (*ItemListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("menu", "items", itemCacheSuffix(filter))
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var result ItemListResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		} else if err != redis.Nil && s.logg != nil {
			s.logg.Warn(ctx, "menu cache read failed: "+err.Error())
		}
	}

	items, total, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu items")
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	result := &ItemListResult{
		Items:      items,
		Page:       filter.Page,
		PerPage:    PerPage,
		Total:      total,
		TotalPages: int((total + PerPage - 1) / PerPage),
	}

	s.cacheResult(ctx, key, result, s.cfg.MenuTTL)
	return result, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("menu", "categories")
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var categories []models.Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		} else if err != redis.Nil && s.logg != nil {
			s.logg.Warn(ctx, "category cache read failed: "+err.Error())
		}
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	if categories == nil {
		categories = []models.Category{}
	}

	s.cacheResult(ctx, key, categories, s.cfg.CategoryTTL)
	return categories, nil
}

func (s *service) cacheResult(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil || key == "" || ttl <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), ttl); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "menu cache write failed: "+err.Error())
	}
}

func itemCacheSuffix(filter ItemFilter) string {
	category := "all"
	if filter.CategoryID != nil {
		category = filter.CategoryID.String()
	}
	popular := "any"
	if filter.Popular != nil {
		popular = strconv.FormatBool(*filter.Popular)
	}
	search := filter.Search
	if search == "" {
		search = "-"
	}
	return category + ":" + popular + ":" + search + ":" + strconv.Itoa(filter.Page)
}
