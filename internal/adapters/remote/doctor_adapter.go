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

// DoctorAdapter implements repositories.DoctorDirectory against the hospital API.
type DoctorAdapter struct {
	client hospitalapi.Client
	instrumentation
}

// NewDoctorAdapter creates a new doctor directory adapter
func NewDoctorAdapter(client hospitalapi.Client, metrics *observability.Metrics) *DoctorAdapter {
	return &DoctorAdapter{
		client:          client,
		instrumentation: instrumentation{metrics: metrics},
	}
}

// ListAll returns every known doctor.
func (a *DoctorAdapter) ListAll(ctx context.Context) ([]entities.Doctor, error) {
	return a.fetchDoctors(ctx, "doctors.list", a.client.ListDoctors)
}

// ListBySpecialty returns the doctors holding the given specialty label.
func (a *DoctorAdapter) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	return a.fetchDoctors(ctx, "doctors.by_specialty", func(ctx context.Context) ([]utils.RawRecord, error) {
		return a.client.ListDoctorsBySpecialty(ctx, specialty)
	})
}

// SearchByName returns the doctors whose name contains the substring.
func (a *DoctorAdapter) SearchByName(ctx context.Context, nameSubstring string) ([]entities.Doctor, error) {
	return a.fetchDoctors(ctx, "doctors.by_name", func(ctx context.Context) ([]utils.RawRecord, error) {
		return a.client.ListDoctorsByName(ctx, nameSubstring)
	})
}

// GetByItemCode returns the doctor registered under an item code.
func (a *DoctorAdapter) GetByItemCode(ctx context.Context, itemCode string) (*entities.Doctor, error) {
	var record utils.RawRecord
	err := a.observe(ctx, "doctors.by_item", func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			record, fetchErr = a.client.GetDoctorByItem(ctx, itemCode)
			return fetchErr
		})
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch doctor by item", err)
	}

	doctor, ok := normalizeDoctor(record)
	if !ok {
		return nil, apperrors.NewNotFoundError("doctor not found for item " + itemCode)
	}
	return &doctor, nil
}

func (a *DoctorAdapter) fetchDoctors(ctx context.Context, operation string, fetch func(context.Context) ([]utils.RawRecord, error)) ([]entities.Doctor, error) {
	var records []utils.RawRecord
	err := a.observe(ctx, operation, func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			records, fetchErr = fetch(ctx)
			return fetchErr
		})
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch doctors", err)
	}

	doctors := make([]entities.Doctor, 0, len(records))
	for _, record := range records {
		if doctor, ok := normalizeDoctor(record); ok {
			doctors = append(doctors, doctor)
		}
	}
	return doctors, nil
}

func normalizeDoctor(record utils.RawRecord) (entities.Doctor, bool) {
	id := utils.FirstString(record, doctorIDKeys...)
	if id == "" {
		return entities.Doctor{}, false
	}
	active, known := utils.FirstBool(record, doctorActiveKeys...)
	if !known {
		active = true
	}
	return entities.Doctor{
		ID:        id,
		Name:      utils.FirstString(record, doctorNameKeys...),
		Specialty: utils.FirstString(record, doctorSpecialtyKeys...),
		Email:     utils.FirstString(record, doctorEmailKeys...),
		Phone:     utils.FirstString(record, doctorPhoneKeys...),
		IsActive:  active,
	}, true
}

var _ repositories.DoctorDirectory = (*DoctorAdapter)(nil)
