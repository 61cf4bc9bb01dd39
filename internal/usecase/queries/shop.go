package queries

import (
	"context"
	"errors"
	"strconv"

	"flashsale-service/internal/infra"
	"flashsale-service/internal/infra/cache"
	"flashsale-service/internal/pkg/config"
	"flashsale-service/internal/pkg/errs"
)

var ErrShopNotFound = errs.New("shop not found")

const (
	shopKeyPrefix = "cache:shop:"

	StrategyMutex   = "mutex"
	StrategyLogical = "logical"
)

type ShopReadStore interface {
	FindByID(ctx context.Context, id int64) (*ShopView, error)
}

// ShopQueries reads shops through the cache. The rebuild strategy for
// the shop key-space is fixed per deployment: either mutex-guarded
// synchronous rebuild or logical expiry with asynchronous rebuild,
// never both at once.
type ShopQueries interface {
	// GetByID returns the shop and whether the value was served stale.
	// stale is always false under the mutex strategy.
	GetByID(ctx context.Context, id int64) (*ShopView, bool, error)

	// Warm pre-seeds the logical-expiry entry for a shop. Under that
	// strategy a cold key is a miss, not a rebuild trigger, so hot
	// shops must be warmed before traffic arrives.
	Warm(ctx context.Context, id int64) error
}

type shopQueriesImpl struct {
	store ShopReadStore
	cache *cache.Client
	cfg   config.CacheConfig
}

func NewShopQueries(store ShopReadStore, cacheClient *cache.Client, cfg config.Config) ShopQueries {
	return &shopQueriesImpl{
		store: store,
		cache: cacheClient,
		cfg:   cfg.Cache,
	}
}

func (s *shopQueriesImpl) loader() cache.Loader[ShopView] {
	return func(ctx context.Context, id int64) (ShopView, error) {
		view, err := s.store.FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ShopView{}, cache.ErrNotFound
			}
			return ShopView{}, err
		}
		return *view, nil
	}
}

func (s *shopQueriesImpl) GetByID(ctx context.Context, id int64) (*ShopView, bool, error) {
	if s.cfg.ShopStrategy == StrategyLogical {
		view, stale, err := cache.QueryWithLogicalExpire(ctx, s.cache, shopKeyPrefix, id, s.cfg.ShopTTL, s.loader())
		if err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				return nil, false, errs.Mark(err, ErrShopNotFound)
			}
			return nil, false, err
		}
		return &view, stale, nil
	}

	view, err := cache.QueryWithMutex(ctx, s.cache, shopKeyPrefix, id, s.cfg.ShopTTL, s.loader())
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, false, errs.Mark(err, ErrShopNotFound)
		}
		return nil, false, err
	}
	return &view, false, nil
}

func (s *shopQueriesImpl) Warm(ctx context.Context, id int64) error {
	view, err := s.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrShopNotFound)
		}
		return err
	}
	return s.cache.SetWithLogicalExpire(ctx, entryKeyForShop(id), *view, s.cfg.ShopTTL)
}

func entryKeyForShop(id int64) string {
	return shopKeyPrefix + strconv.FormatInt(id, 10)
}
