package entities

// CatalogItem is one entry of a reference vocabulary (building, floor, day,
// specialty). Codes are opaque strings; list order is display order.
type CatalogItem struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Office is the only catalog entity with denormalized parent references. The
// back-references are authoritative: an office determines its building and
// floor, never the other way around.
type Office struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	BuildingCode string `json:"building_code"`
	FloorCode    string `json:"floor_code"`
}

// CatalogKind identifies a reference vocabulary for caching and error reporting.
type CatalogKind string

const (
	CatalogBuildings   CatalogKind = "edificios"
	CatalogFloors      CatalogKind = "pisos"
	CatalogOffices     CatalogKind = "consultorios"
	CatalogDays        CatalogKind = "dias"
	CatalogSpecialties CatalogKind = "especialidades"
)

// CatalogSnapshot is an immutable view over the location catalogs, the read
// model the location resolver works against.
type CatalogSnapshot struct {
	Buildings        []CatalogItem
	FloorsByBuilding map[string][]CatalogItem
	Offices          []Office
	Days             []CatalogItem
}

// FloorsFor returns the floors of a building in display order. The official
// floor catalog is supplemented with floors derived from the office catalog,
// since the upstream floor list is sometimes incomplete.
func (s CatalogSnapshot) FloorsFor(buildingCode string) []CatalogItem {
	official := s.FloorsByBuilding[buildingCode]
	floors := make([]CatalogItem, 0, len(official))
	seen := make(map[string]struct{}, len(official))
	for _, floor := range official {
		if _, dup := seen[floor.Code]; dup {
			continue
		}
		seen[floor.Code] = struct{}{}
		floors = append(floors, floor)
	}
	for _, office := range s.Offices {
		if office.BuildingCode != buildingCode || office.FloorCode == "" {
			continue
		}
		if _, dup := seen[office.FloorCode]; dup {
			continue
		}
		seen[office.FloorCode] = struct{}{}
		floors = append(floors, CatalogItem{Code: office.FloorCode, Label: "PISO " + office.FloorCode})
	}
	return floors
}

// OfficesFor returns the offices whose back-references match the given building
// and floor, in display order.
func (s CatalogSnapshot) OfficesFor(buildingCode, floorCode string) []Office {
	var offices []Office
	seen := make(map[string]struct{})
	for _, office := range s.Offices {
		if office.BuildingCode != buildingCode || office.FloorCode != floorCode {
			continue
		}
		if _, dup := seen[office.Code]; dup {
			continue
		}
		seen[office.Code] = struct{}{}
		offices = append(offices, office)
	}
	return offices
}

// OfficeOptions returns the offices to offer for a building and floor. Unlike
// OfficesFor it falls back to every office of the building when the floor has
// none, which keeps the selector usable when floor data is missing upstream.
// Display aid only; the resolver never uses it.
func (s CatalogSnapshot) OfficeOptions(buildingCode, floorCode string) []Office {
	if floorCode != "" {
		if offices := s.OfficesFor(buildingCode, floorCode); len(offices) > 0 {
			return offices
		}
	}
	var offices []Office
	seen := make(map[string]struct{})
	for _, office := range s.Offices {
		if office.BuildingCode != buildingCode {
			continue
		}
		if _, dup := seen[office.Code]; dup {
			continue
		}
		seen[office.Code] = struct{}{}
		offices = append(offices, office)
	}
	return offices
}

// OfficeByCode looks up an office in the full office catalog.
func (s CatalogSnapshot) OfficeByCode(code string) (Office, bool) {
	for _, office := range s.Offices {
		if office.Code == code {
			return office, true
		}
	}
	return Office{}, false
}

// ContainsCode reports whether a catalog list holds the given code.
func ContainsCode(items []CatalogItem, code string) bool {
	for _, item := range items {
		if item.Code == code {
			return true
		}
	}
	return false
}
