package services_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
)

// Shared testify mocks for the repository ports.

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Buildings(ctx context.Context) ([]entities.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) Floors(ctx context.Context, buildingCode string) ([]entities.CatalogItem, error) {
	args := m.Called(ctx, buildingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) Offices(ctx context.Context) ([]entities.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Office), args.Error(1)
}

func (m *MockCatalogRepository) Days(ctx context.Context) ([]entities.CatalogItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepository) Specialties(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockDoctorDirectory struct {
	mock.Mock
}

func (m *MockDoctorDirectory) ListAll(ctx context.Context) ([]entities.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Doctor), args.Error(1)
}

func (m *MockDoctorDirectory) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	args := m.Called(ctx, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Doctor), args.Error(1)
}

func (m *MockDoctorDirectory) SearchByName(ctx context.Context, nameSubstring string) ([]entities.Doctor, error) {
	args := m.Called(ctx, nameSubstring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Doctor), args.Error(1)
}

func (m *MockDoctorDirectory) GetByItemCode(ctx context.Context, itemCode string) (*entities.Doctor, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

type MockAgendaRepository struct {
	mock.Mock
}

func (m *MockAgendaRepository) ListByDoctor(ctx context.Context, doctorID string) ([]entities.Agenda, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) UpdateField(ctx context.Context, agendaID, storageField string, value any) (*entities.Agenda, error) {
	args := m.Called(ctx, agendaID, storageField, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) Create(ctx context.Context, input entities.AgendaCreateInput) (*entities.Agenda, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Agenda), args.Error(1)
}

// stubCache is a minimal in-memory CacheProvider for cache read-through tests.
type stubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	value, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return value, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}
