package remote

import (
	"context"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/repositories"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/clients/hospitalapi"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/observability"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
	"github.com/hvqdigital/agenda-console/backend/pkg/retry"
	"github.com/hvqdigital/agenda-console/backend/pkg/utils"
)

// AgendaAdapter implements repositories.AgendaRepository against the remote
// agenda store. Reads retry; the per-field write never does.
type AgendaAdapter struct {
	client hospitalapi.Client
	instrumentation
}

// NewAgendaAdapter creates a new agenda adapter
func NewAgendaAdapter(client hospitalapi.Client, metrics *observability.Metrics) *AgendaAdapter {
	return &AgendaAdapter{
		client:          client,
		instrumentation: instrumentation{metrics: metrics},
	}
}

// ListByDoctor returns the agendas of one doctor. The server filters by doctor
// id; the result is re-filtered here in case it over-returns.
func (a *AgendaAdapter) ListByDoctor(ctx context.Context, doctorID string) ([]entities.Agenda, error) {
	var records []utils.RawRecord
	err := a.observe(ctx, "agendas.by_doctor", func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			records, fetchErr = a.client.ListAgendas(ctx, doctorID)
			return fetchErr
		})
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch agendas", err)
	}

	agendas := make([]entities.Agenda, 0, len(records))
	for _, record := range records {
		agenda, ok := normalizeAgenda(record)
		if !ok {
			continue
		}
		if agenda.DoctorID != "" && agenda.DoctorID != doctorID {
			continue
		}
		agendas = append(agendas, agenda)
	}
	return agendas, nil
}

// UpdateField performs a partial update of a single storage field. A response
// body that cannot be read back as an agenda record is treated as a failed
// save: the caller must not assume the write took effect.
func (a *AgendaAdapter) UpdateField(ctx context.Context, agendaID, storageField string, value any) (*entities.Agenda, error) {
	var record utils.RawRecord
	err := a.observe(ctx, "agendas.update_field", func(ctx context.Context) error {
		var callErr error
		record, callErr = a.client.PatchAgendaField(ctx, agendaID, storageField, value)
		return callErr
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to update agenda field", err)
	}

	agenda, ok := normalizeAgenda(record)
	if !ok {
		return nil, apperrors.NewExternalError("agenda update returned an unreadable record", nil)
	}
	return &agenda, nil
}

// Create persists a new agenda.
func (a *AgendaAdapter) Create(ctx context.Context, input entities.AgendaCreateInput) (*entities.Agenda, error) {
	payload := map[string]any{
		"codigo_prestador":   input.DoctorID,
		"especialidad":       input.Specialty,
		"codigo_edificio":    input.BuildingCode,
		"codigo_piso":        input.FloorCode,
		"codigo_consultorio": input.OfficeCode,
		"codigo_dia":         input.DayCode,
		"hora_inicio":        input.StartTime,
		"hora_fin":           input.EndTime,
		"disponible":         true,
	}

	var record utils.RawRecord
	err := a.observe(ctx, "agendas.create", func(ctx context.Context) error {
		var callErr error
		record, callErr = a.client.CreateAgenda(ctx, payload)
		return callErr
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to create agenda", err)
	}

	agenda, ok := normalizeAgenda(record)
	if !ok {
		return nil, apperrors.NewExternalError("agenda create returned an unreadable record", nil)
	}
	return &agenda, nil
}

func normalizeAgenda(record utils.RawRecord) (entities.Agenda, bool) {
	id := utils.FirstString(record, agendaIDKeys...)
	if id == "" {
		return entities.Agenda{}, false
	}
	available, known := utils.FirstBool(record, agendaAvailableKeys...)
	if !known {
		available = true
	}
	return entities.Agenda{
		ID:           id,
		DoctorID:     utils.FirstString(record, agendaDoctorKeys...),
		DoctorName:   utils.FirstString(record, agendaDoctorNameKeys...),
		Specialty:    utils.FirstString(record, agendaSpecialtyKeys...),
		BuildingCode: utils.FirstString(record, agendaBuildingKeys...),
		FloorCode:    utils.FirstString(record, agendaFloorKeys...),
		OfficeCode:   utils.FirstString(record, agendaOfficeKeys...),
		DayCode:      normalizeDayCode(record),
		StartTime:    utils.FirstString(record, agendaStartKeys...),
		EndTime:      utils.FirstString(record, agendaEndKeys...),
		IsAvailable:  available,
	}, true
}

// normalizeDayCode collapses the legacy array-of-one day representation to the
// canonical single code.
func normalizeDayCode(record utils.RawRecord) string {
	for _, key := range agendaDayKeys {
		value, ok := record[key]
		if !ok || value == nil {
			continue
		}
		if list, isList := value.([]any); isList {
			if len(list) == 0 {
				continue
			}
			value = list[0]
		}
		if s := utils.Stringify(value); s != "" {
			return s
		}
	}
	// Legacy clients persisted the day under weekDays as an array.
	if value, ok := record["weekDays"]; ok {
		if list, isList := value.([]any); isList && len(list) > 0 {
			return utils.Stringify(list[0])
		}
		return utils.Stringify(value)
	}
	return ""
}

var _ repositories.AgendaRepository = (*AgendaAdapter)(nil)
