package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/logger"
	"github.com/dogjoy/miniapp/internal/metrics"
)

const DefaultCatalogTTL = 5 * time.Minute

const (
	catalogServices = "services"
	catalogTariffs  = "tariffs"
)

// CatalogService reads services and tariffs. Lists never fail: a backend
// error or an empty list is replaced by the built-in catalog.
type CatalogService struct {
	api      *api.Client
	services *expirable.LRU[string, []api.Service]
	tariffs  *expirable.LRU[string, []api.Tariff]
}

// NewCatalogService caches successful lists for ttl. A non-positive ttl
// disables caching.
func NewCatalogService(client *api.Client, ttl time.Duration) *CatalogService {
	s := &CatalogService{api: client}
	if ttl > 0 {
		s.services = expirable.NewLRU[string, []api.Service](1, nil, ttl)
		s.tariffs = expirable.NewLRU[string, []api.Tariff](1, nil, ttl)
	}
	return s
}

// Services returns the service catalog and whether it is the built-in one.
func (s *CatalogService) Services(ctx context.Context, sess auth.Session) ([]api.Service, bool) {
	if s.services != nil {
		if cached, ok := s.services.Get(catalogServices); ok {
			metrics.CatalogCacheHits.WithLabelValues(catalogServices).Inc()
			return slices.Clone(cached), false
		}
	}

	list, err := s.api.GetServices(ctx, sess.AuthToken)
	if err != nil || len(list) == 0 {
		logFallback(catalogServices, err)
		return FallbackServices(), true
	}
	if s.services != nil {
		s.services.Add(catalogServices, list)
	}
	return slices.Clone(list), false
}

// Tariffs returns the tariff catalog and whether it is the built-in one.
func (s *CatalogService) Tariffs(ctx context.Context, sess auth.Session) ([]api.Tariff, bool) {
	if s.tariffs != nil {
		if cached, ok := s.tariffs.Get(catalogTariffs); ok {
			metrics.CatalogCacheHits.WithLabelValues(catalogTariffs).Inc()
			return cloneTariffs(cached), false
		}
	}

	list, err := s.api.GetTariffs(ctx, sess.AuthToken)
	if err != nil || len(list) == 0 {
		logFallback(catalogTariffs, err)
		return FallbackTariffs(), true
	}
	if s.tariffs != nil {
		s.tariffs.Add(catalogTariffs, list)
	}
	return cloneTariffs(list), false
}

// Service fetches one service, falling back to a lookup in the catalog list.
func (s *CatalogService) Service(ctx context.Context, sess auth.Session, id string) (*api.Service, error) {
	svc, err := s.api.GetService(ctx, sess.AuthToken, id)
	if err == nil {
		return svc, nil
	}
	list, _ := s.Services(ctx, sess)
	for i := range list {
		if list[i].ID.String() == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("get service %s: %w", id, err)
}

// Tariff fetches one tariff, falling back to a lookup in the catalog list.
func (s *CatalogService) Tariff(ctx context.Context, sess auth.Session, id string) (*api.Tariff, error) {
	t, err := s.api.GetTariff(ctx, sess.AuthToken, id)
	if err == nil {
		return t, nil
	}
	list, _ := s.Tariffs(ctx, sess)
	for i := range list {
		if list[i].ID.String() == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("get tariff %s: %w", id, err)
}

// Invalidate drops cached lists.
func (s *CatalogService) Invalidate() {
	if s.services != nil {
		s.services.Purge()
	}
	if s.tariffs != nil {
		s.tariffs.Purge()
	}
}

func logFallback(catalog string, err error) {
	metrics.CatalogFallbacks.WithLabelValues(catalog).Inc()
	if err != nil {
		logger.Warnf("load %s: %v, using built-in list", catalog, err)
		return
	}
	logger.Debugf("backend returned no %s, using built-in list", catalog)
}
