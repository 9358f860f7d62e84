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

// CatalogAdapter implements repositories.CatalogRepository against the
// hospital API, normalizing each row through the priority key tables.
type CatalogAdapter struct {
	client hospitalapi.Client
	instrumentation
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client hospitalapi.Client, metrics *observability.Metrics) *CatalogAdapter {
	return &CatalogAdapter{
		client:          client,
		instrumentation: instrumentation{metrics: metrics},
	}
}

// Buildings returns the building catalog.
func (a *CatalogAdapter) Buildings(ctx context.Context) ([]entities.CatalogItem, error) {
	records, err := a.fetchList(ctx, "catalog.buildings", a.client.ListBuildings)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch building catalog", err)
	}
	return normalizeItems(records, buildingCodeKeys, buildingLabelKeys), nil
}

// Floors returns the floor catalog of one building.
func (a *CatalogAdapter) Floors(ctx context.Context, buildingCode string) ([]entities.CatalogItem, error) {
	var records []utils.RawRecord
	err := a.observe(ctx, "catalog.floors", func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			records, fetchErr = a.client.ListFloors(ctx, buildingCode)
			return fetchErr
		})
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch floor catalog", err)
	}
	return normalizeItems(records, floorCodeKeys, floorLabelKeys), nil
}

// Offices returns the full office catalog with back-references.
func (a *CatalogAdapter) Offices(ctx context.Context) ([]entities.Office, error) {
	records, err := a.fetchList(ctx, "catalog.offices", a.client.ListOffices)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch office catalog", err)
	}

	offices := make([]entities.Office, 0, len(records))
	for _, record := range records {
		code := utils.FirstString(record, officeCodeKeys...)
		if code == "" {
			continue
		}
		label := utils.FirstString(record, officeLabelKeys...)
		if label == "" {
			label = code
		}
		offices = append(offices, entities.Office{
			Code:         code,
			Label:        label,
			BuildingCode: utils.FirstString(record, officeBuildingKeys...),
			FloorCode:    utils.FirstString(record, officeFloorKeys...),
		})
	}
	return offices, nil
}

// Days returns the day-of-week catalog.
func (a *CatalogAdapter) Days(ctx context.Context) ([]entities.CatalogItem, error) {
	records, err := a.fetchList(ctx, "catalog.days", a.client.ListDays)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch day catalog", err)
	}
	return normalizeItems(records, dayCodeKeys, dayLabelKeys), nil
}

// Specialties returns the known specialty labels.
func (a *CatalogAdapter) Specialties(ctx context.Context) ([]string, error) {
	var items []any
	err := a.observe(ctx, "catalog.specialties", func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			items, fetchErr = a.client.ListSpecialties(ctx)
			return fetchErr
		})
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to fetch specialty catalog", err)
	}

	labels := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		var label string
		switch v := item.(type) {
		case map[string]any:
			label = utils.FirstString(v, specialtyLabelKeys...)
		default:
			label = utils.Stringify(v)
		}
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels, nil
}

func (a *CatalogAdapter) fetchList(ctx context.Context, operation string, fetch func(context.Context) ([]utils.RawRecord, error)) ([]utils.RawRecord, error) {
	var records []utils.RawRecord
	err := a.observe(ctx, operation, func(ctx context.Context) error {
		return retry.Do(ctx, readRetryConfig, func() error {
			var fetchErr error
			records, fetchErr = fetch(ctx)
			return fetchErr
		})
	})
	return records, err
}

func normalizeItems(records []utils.RawRecord, codeKeys, labelKeys []string) []entities.CatalogItem {
	items := make([]entities.CatalogItem, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		code := utils.FirstString(record, codeKeys...)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		label := utils.FirstString(record, labelKeys...)
		if label == "" {
			label = code
		}
		items = append(items, entities.CatalogItem{Code: code, Label: label})
	}
	return items
}

var _ repositories.CatalogRepository = (*CatalogAdapter)(nil)
