package repositories

import (
	"context"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
)

// CatalogRepository reads the reference vocabularies from the hospital
// master-data API. All reads return the full list; there is no pagination on
// these catalogs.
type CatalogRepository interface {
	// Buildings returns the building catalog.
	Buildings(ctx context.Context) ([]entities.CatalogItem, error)

	// Floors returns the floor catalog of one building.
	Floors(ctx context.Context, buildingCode string) ([]entities.CatalogItem, error)

	// Offices returns the full office catalog with its building/floor
	// back-references.
	Offices(ctx context.Context) ([]entities.Office, error)

	// Days returns the day-of-week catalog.
	Days(ctx context.Context) ([]entities.CatalogItem, error)

	// Specialties returns the known specialty labels.
	Specialties(ctx context.Context) ([]string, error)
}
