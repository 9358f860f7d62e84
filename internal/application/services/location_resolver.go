package services

import (
	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
)

// LocationChange is the set of dependent fields a location edit forces. A nil
// pointer means the field is untouched; a pointer to "" means it was cleared.
type LocationChange struct {
	BuildingCode *string
	FloorCode    *string
	OfficeCode   *string
}

// IsEmpty reports whether the change touches nothing.
func (c LocationChange) IsEmpty() bool {
	return c.BuildingCode == nil && c.FloorCode == nil && c.OfficeCode == nil
}

// ResolveAfterBuildingChange repairs floor and office after the building
// changed. A still-valid child is kept; an invalid one falls back to the first
// child in catalog display order; with no children the field is cleared.
// Cascades run downward only.
func ResolveAfterBuildingChange(snapshot entities.CatalogSnapshot, newBuilding, oldFloor, oldOffice string) LocationChange {
	floors := snapshot.FloorsFor(newBuilding)
	floor := pickChild(codesOf(floors), oldFloor)

	offices := snapshot.OfficesFor(newBuilding, floor)
	office := pickChild(officeCodesOf(offices), oldOffice)

	return LocationChange{FloorCode: &floor, OfficeCode: &office}
}

// ResolveAfterFloorChange repairs the office after the floor changed within the
// same building.
func ResolveAfterFloorChange(snapshot entities.CatalogSnapshot, building, newFloor, oldOffice string) LocationChange {
	offices := snapshot.OfficesFor(building, newFloor)
	office := pickChild(officeCodesOf(offices), oldOffice)
	return LocationChange{OfficeCode: &office}
}

// ResolveAfterOfficeChange propagates the office's authoritative back-references
// upward. The office is the most specific signal, so it silently overwrites
// building and floor. An unknown office changes nothing.
func ResolveAfterOfficeChange(snapshot entities.CatalogSnapshot, newOffice string) LocationChange {
	office, ok := snapshot.OfficeByCode(newOffice)
	if !ok {
		return LocationChange{}
	}
	building := office.BuildingCode
	floor := office.FloorCode
	return LocationChange{BuildingCode: &building, FloorCode: &floor}
}

// ValidateLocation checks that a building/floor/office triple is coherent: an
// office, when given, must exist and carry back-references equal to the given
// building and floor. Empty office always passes; the triple is then only as
// specific as its deepest set field.
func ValidateLocation(snapshot entities.CatalogSnapshot, buildingCode, floorCode, officeCode string) error {
	if officeCode == "" {
		return nil
	}
	office, ok := snapshot.OfficeByCode(officeCode)
	if !ok {
		return apperrors.NewValidationError("unknown office " + officeCode)
	}
	if office.BuildingCode != buildingCode || office.FloorCode != floorCode {
		return apperrors.NewValidationError("office " + officeCode + " does not belong to the given building and floor")
	}
	return nil
}

// pickChild keeps a still-valid previous selection, otherwise takes the first
// available child, otherwise clears. Never leaves a stale child selected and
// never clears while a valid child exists.
func pickChild(valid []string, previous string) string {
	for _, code := range valid {
		if code == previous {
			return previous
		}
	}
	if len(valid) > 0 {
		return valid[0]
	}
	return ""
}

func codesOf(items []entities.CatalogItem) []string {
	codes := make([]string, len(items))
	for i, item := range items {
		codes[i] = item.Code
	}
	return codes
}

func officeCodesOf(offices []entities.Office) []string {
	codes := make([]string, len(offices))
	for i, office := range offices {
		codes[i] = office.Code
	}
	return codes
}
