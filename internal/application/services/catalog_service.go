package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/providers"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/repositories"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/observability"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
)

// catalogCacheTTLSeconds bounds how long a catalog lives in the shared cache
// backend. The in-process copy lives for the service lifetime regardless.
const catalogCacheTTLSeconds = 600

// CatalogService is the lazily-populated store of reference vocabularies.
// Every catalog is fetched at most once per service lifetime (floors at most
// once per building) and never invalidated mid-session. Fetch failures degrade
// to an empty list with a CATALOG_UNAVAILABLE error the caller may ignore; a
// failed fetch is not cached, so the next call tries again.
type CatalogService struct {
	repo    repositories.CatalogRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics

	mu                sync.Mutex
	buildings         []entities.CatalogItem
	buildingsLoaded   bool
	days              []entities.CatalogItem
	daysLoaded        bool
	offices           []entities.Office
	officesLoaded     bool
	specialties       []string
	specialtiesLoaded bool
	floors            map[string][]entities.CatalogItem
}

// NewCatalogService creates a new catalog service. cache may be nil; it is a
// shared read-through layer in front of the hospital API, not a correctness
// requirement.
func NewCatalogService(repo repositories.CatalogRepository, cache providers.CacheProvider, metrics *observability.Metrics) *CatalogService {
	return &CatalogService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		floors:  make(map[string][]entities.CatalogItem),
	}
}

// Buildings returns the building catalog.
func (s *CatalogService) Buildings(ctx context.Context) ([]entities.CatalogItem, error) {
	s.mu.Lock()
	if s.buildingsLoaded {
		items := s.buildings
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	var items []entities.CatalogItem
	if s.cacheGet(ctx, "catalog:edificios", &items) {
		s.storeBuildings(items)
		return items, nil
	}

	items, err := s.repo.Buildings(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(string(entities.CatalogBuildings), err)
	}
	s.cacheSet(ctx, "catalog:edificios", items)
	s.storeBuildings(items)
	return items, nil
}

// Days returns the day-of-week catalog.
func (s *CatalogService) Days(ctx context.Context) ([]entities.CatalogItem, error) {
	s.mu.Lock()
	if s.daysLoaded {
		items := s.days
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	var items []entities.CatalogItem
	if s.cacheGet(ctx, "catalog:dias", &items) {
		s.mu.Lock()
		s.days, s.daysLoaded = items, true
		s.mu.Unlock()
		return items, nil
	}

	items, err := s.repo.Days(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(string(entities.CatalogDays), err)
	}
	s.cacheSet(ctx, "catalog:dias", items)
	s.mu.Lock()
	s.days, s.daysLoaded = items, true
	s.mu.Unlock()
	return items, nil
}

// Offices returns the full office catalog.
func (s *CatalogService) Offices(ctx context.Context) ([]entities.Office, error) {
	s.mu.Lock()
	if s.officesLoaded {
		offices := s.offices
		s.mu.Unlock()
		return offices, nil
	}
	s.mu.Unlock()

	var offices []entities.Office
	if s.cacheGet(ctx, "catalog:consultorios", &offices) {
		s.mu.Lock()
		s.offices, s.officesLoaded = offices, true
		s.mu.Unlock()
		return offices, nil
	}

	offices, err := s.repo.Offices(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(string(entities.CatalogOffices), err)
	}
	s.cacheSet(ctx, "catalog:consultorios", offices)
	s.mu.Lock()
	s.offices, s.officesLoaded = offices, true
	s.mu.Unlock()
	return offices, nil
}

// Specialties returns the known specialty labels. Callers degrade to labels
// derived from already-visible doctors when this fails.
func (s *CatalogService) Specialties(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.specialtiesLoaded {
		labels := s.specialties
		s.mu.Unlock()
		return labels, nil
	}
	s.mu.Unlock()

	var labels []string
	if s.cacheGet(ctx, "catalog:especialidades", &labels) {
		s.mu.Lock()
		s.specialties, s.specialtiesLoaded = labels, true
		s.mu.Unlock()
		return labels, nil
	}

	labels, err := s.repo.Specialties(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(string(entities.CatalogSpecialties), err)
	}
	s.cacheSet(ctx, "catalog:especialidades", labels)
	s.mu.Lock()
	s.specialties, s.specialtiesLoaded = labels, true
	s.mu.Unlock()
	return labels, nil
}

// Floors returns the floor catalog of one building. Keyed and idempotent: a
// list already cached for a building is never re-fetched or overwritten.
func (s *CatalogService) Floors(ctx context.Context, buildingCode string) ([]entities.CatalogItem, error) {
	if buildingCode == "" {
		return nil, nil
	}

	s.mu.Lock()
	if floors, ok := s.floors[buildingCode]; ok {
		s.mu.Unlock()
		return floors, nil
	}
	s.mu.Unlock()

	var floors []entities.CatalogItem
	if s.cacheGet(ctx, "catalog:pisos:"+buildingCode, &floors) {
		s.storeFloors(buildingCode, floors)
		return s.floorsFor(buildingCode), nil
	}

	floors, err := s.repo.Floors(ctx, buildingCode)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(string(entities.CatalogFloors), err)
	}
	s.cacheSet(ctx, "catalog:pisos:"+buildingCode, floors)
	s.storeFloors(buildingCode, floors)
	return s.floorsFor(buildingCode), nil
}

// Snapshot assembles the resolver read model, ensuring the base catalogs plus
// the floor lists of the named buildings are loaded. Catalogs that cannot be
// fetched appear empty in the snapshot; the first failure is returned so
// callers can surface it, but the snapshot stays usable.
func (s *CatalogService) Snapshot(ctx context.Context, buildingCodes ...string) (entities.CatalogSnapshot, error) {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	buildings, err := s.Buildings(ctx)
	keep(err)
	offices, err := s.Offices(ctx)
	keep(err)
	days, err := s.Days(ctx)
	keep(err)
	for _, code := range buildingCodes {
		_, err := s.Floors(ctx, code)
		keep(err)
	}

	s.mu.Lock()
	floorsByBuilding := make(map[string][]entities.CatalogItem, len(s.floors))
	for building, floors := range s.floors {
		floorsByBuilding[building] = floors
	}
	s.mu.Unlock()

	return entities.CatalogSnapshot{
		Buildings:        buildings,
		FloorsByBuilding: floorsByBuilding,
		Offices:          offices,
		Days:             days,
	}, firstErr
}

func (s *CatalogService) storeBuildings(items []entities.CatalogItem) {
	s.mu.Lock()
	s.buildings, s.buildingsLoaded = items, true
	s.mu.Unlock()
}

func (s *CatalogService) storeFloors(buildingCode string, floors []entities.CatalogItem) {
	s.mu.Lock()
	if _, exists := s.floors[buildingCode]; !exists {
		s.floors[buildingCode] = floors
	}
	s.mu.Unlock()
}

func (s *CatalogService) floorsFor(buildingCode string) []entities.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.floors[buildingCode]
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CacheMissCount.Add(ctx, 1)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	if s.metrics != nil {
		s.metrics.CacheHitCount.Add(ctx, 1)
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	// Best effort; a cache write failure never surfaces.
	_ = s.cache.Set(ctx, key, data, catalogCacheTTLSeconds)
}
