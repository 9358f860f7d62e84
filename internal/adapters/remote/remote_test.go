package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hvqdigital/agenda-console/backend/internal/adapters/remote"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
	"github.com/hvqdigital/agenda-console/backend/pkg/utils"
)

// Mocks

type MockHospitalClient struct {
	mock.Mock
}

func (m *MockHospitalClient) ListDoctors(ctx context.Context) ([]utils.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListDoctorsBySpecialty(ctx context.Context, specialty string) ([]utils.RawRecord, error) {
	args := m.Called(ctx, specialty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListDoctorsByName(ctx context.Context, name string) ([]utils.RawRecord, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) GetDoctorByItem(ctx context.Context, itemCode string) (utils.RawRecord, error) {
	args := m.Called(ctx, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListDays(ctx context.Context) ([]utils.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListBuildings(ctx context.Context) ([]utils.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListFloors(ctx context.Context, buildingCode string) ([]utils.RawRecord, error) {
	args := m.Called(ctx, buildingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListOffices(ctx context.Context) ([]utils.RawRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) ListSpecialties(ctx context.Context) ([]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

func (m *MockHospitalClient) ListAgendas(ctx context.Context, doctorID string) ([]utils.RawRecord, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) PatchAgendaField(ctx context.Context, agendaID, storageField string, value any) (utils.RawRecord, error) {
	args := m.Called(ctx, agendaID, storageField, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) CreateAgenda(ctx context.Context, payload map[string]any) (utils.RawRecord, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(utils.RawRecord), args.Error(1)
}

func (m *MockHospitalClient) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Tests

func TestCatalogAdapter_Buildings(t *testing.T) {
	t.Run("probes alias keys and falls back to the code as label", func(t *testing.T) {
		// Arrange: three upstream views of the same catalog.
		client := new(MockHospitalClient)
		client.On("ListBuildings", mock.Anything).Return([]utils.RawRecord{
			{"codigo_edificio": "B1", "descripcion_edificio": "Torre Norte"},
			{"codigo": float64(2), "descripcion": "Torre Sur"},
			{"id": "B3"},
		}, nil)
		adapter := remote.NewCatalogAdapter(client, nil)

		// Act
		items, err := adapter.Buildings(context.Background())

		// Assert
		assert.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, "B1", items[0].Code)
		assert.Equal(t, "Torre Norte", items[0].Label)
		assert.Equal(t, "2", items[1].Code)
		assert.Equal(t, "B3", items[2].Label)
	})

	t.Run("skips rows without a code and deduplicates", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListBuildings", mock.Anything).Return([]utils.RawRecord{
			{"codigo_edificio": "B1"},
			{"codigo_edificio": "B1", "descripcion_edificio": "duplicate"},
			{"descripcion_edificio": "no code"},
		}, nil)
		adapter := remote.NewCatalogAdapter(client, nil)

		items, err := adapter.Buildings(context.Background())

		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestCatalogAdapter_Offices(t *testing.T) {
	t.Run("carries building and floor back-references", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListOffices", mock.Anything).Return([]utils.RawRecord{
			{
				"codigo_consultorio":      "O1",
				"descripcion_consultorio": "Consultorio 101",
				"codigo_edificio":         "B1",
				"codigo_piso":             "F1",
			},
			{"codigo": "O2", "edificio": "B2", "piso": float64(3)},
		}, nil)
		adapter := remote.NewCatalogAdapter(client, nil)

		offices, err := adapter.Offices(context.Background())

		assert.NoError(t, err)
		assert.Len(t, offices, 2)
		assert.Equal(t, "B1", offices[0].BuildingCode)
		assert.Equal(t, "F1", offices[0].FloorCode)
		assert.Equal(t, "B2", offices[1].BuildingCode)
		assert.Equal(t, "3", offices[1].FloorCode)
	})
}

func TestCatalogAdapter_Specialties(t *testing.T) {
	t.Run("accepts bare labels and records alike", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListSpecialties", mock.Anything).Return([]any{
			"Cardiología",
			map[string]any{"descripcion_item": "Pediatría"},
			"Cardiología",
			"",
		}, nil)
		adapter := remote.NewCatalogAdapter(client, nil)

		labels, err := adapter.Specialties(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"Cardiología", "Pediatría"}, labels)
	})
}

func TestDoctorAdapter_ListAll(t *testing.T) {
	t.Run("normalizes records and defaults unknown activity to true", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListDoctors", mock.Anything).Return([]utils.RawRecord{
			{"codigo_prestador": "1", "nombre_prestador": "María Pérez", "descripcion_item": "Cardiología", "activo": false},
			{"id": float64(2), "name": "Juan Gómez", "specialty": "Pediatría"},
			{"nombre_prestador": "sin código"},
		}, nil)
		adapter := remote.NewDoctorAdapter(client, nil)

		doctors, err := adapter.ListAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, doctors, 2)
		assert.False(t, doctors[0].IsActive)
		assert.Equal(t, "2", doctors[1].ID)
		assert.True(t, doctors[1].IsActive)
	})
}

func TestAgendaAdapter_ListByDoctor(t *testing.T) {
	t.Run("normalizes day arrays and legacy keys", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListAgendas", mock.Anything, "d1").Return([]utils.RawRecord{
			{"id": "a1", "codigo_prestador": "d1", "codigo_dia": []any{float64(3)}, "hora_inicio": "2024-03-01 08:00"},
			{"id": "a2", "codigo_prestador": "d1", "weekDays": []any{"5"}},
		}, nil)
		adapter := remote.NewAgendaAdapter(client, nil)

		agendas, err := adapter.ListByDoctor(context.Background(), "d1")

		assert.NoError(t, err)
		assert.Len(t, agendas, 2)
		assert.Equal(t, "3", agendas[0].DayCode)
		assert.Equal(t, "2024-03-01 08:00", agendas[0].StartTime)
		assert.Equal(t, "5", agendas[1].DayCode)
	})

	t.Run("drops records belonging to another doctor", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("ListAgendas", mock.Anything, "d1").Return([]utils.RawRecord{
			{"id": "a1", "codigo_prestador": "d1"},
			{"id": "a2", "codigo_prestador": "d9"},
			{"id": "a3"},
		}, nil)
		adapter := remote.NewAgendaAdapter(client, nil)

		agendas, err := adapter.ListByDoctor(context.Background(), "d1")

		// A record with no doctor key at all is kept; only a conflicting
		// doctor id disqualifies.
		assert.NoError(t, err)
		assert.Len(t, agendas, 2)
		assert.Equal(t, "a1", agendas[0].ID)
		assert.Equal(t, "a3", agendas[1].ID)
	})
}

func TestAgendaAdapter_UpdateField(t *testing.T) {
	t.Run("patches a single storage field", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("PatchAgendaField", mock.Anything, "a1", "hora_inicio", "2024-03-01 09:30").
			Return(utils.RawRecord{"id": "a1", "hora_inicio": "2024-03-01 09:30"}, nil)
		adapter := remote.NewAgendaAdapter(client, nil)

		agenda, err := adapter.UpdateField(context.Background(), "a1", "hora_inicio", "2024-03-01 09:30")

		assert.NoError(t, err)
		assert.Equal(t, "2024-03-01 09:30", agenda.StartTime)
		client.AssertExpectations(t)
	})

	t.Run("treats an unreadable response record as a failed save", func(t *testing.T) {
		client := new(MockHospitalClient)
		client.On("PatchAgendaField", mock.Anything, "a1", "codigo_dia", "3").
			Return(utils.RawRecord{"status": "ok"}, nil)
		adapter := remote.NewAgendaAdapter(client, nil)

		agenda, err := adapter.UpdateField(context.Background(), "a1", "codigo_dia", "3")

		assert.Nil(t, agenda)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
		assert.Contains(t, err.Error(), "unreadable record")
	})
}
