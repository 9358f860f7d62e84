package entities

// Agenda represents one recurring weekly appointment slot a doctor holds at a
// building/floor/office. IDs are assigned by the remote store and immutable.
//
// Location coherence invariant: for any persisted agenda, OfficeCode is empty
// or resolves to an office whose back-references equal the agenda's own
// BuildingCode and FloorCode.
type Agenda struct {
	ID           string `json:"id"`
	DoctorID     string `json:"doctor_id"`
	DoctorName   string `json:"doctor_name,omitempty"`
	Specialty    string `json:"specialty"`
	BuildingCode string `json:"building_code"`
	FloorCode    string `json:"floor_code"`
	OfficeCode   string `json:"office_code"`
	// DayCode is a single day-of-week code. Older clients modeled this as an
	// array of one; the single code is canonical.
	DayCode string `json:"day_code"`
	// StartTime and EndTime carry an upstream calendar-date fragment that is
	// meaningless for scheduling but must survive round-trips verbatim.
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// AgendaCreateInput is the payload for creating a new agenda.
type AgendaCreateInput struct {
	DoctorID     string
	Specialty    string
	BuildingCode string
	FloorCode    string
	OfficeCode   string
	DayCode      string
	StartTime    string
	EndTime      string
}

// EditableField is the UI-side vocabulary for per-field agenda edits.
type EditableField string

const (
	FieldLocation     EditableField = "location"
	FieldFloor        EditableField = "floor"
	FieldOffice       EditableField = "office"
	FieldWeekDays     EditableField = "weekDays"
	FieldStartTime    EditableField = "startTime"
	FieldEndTime      EditableField = "endTime"
	FieldSpecialty    EditableField = "specialty"
	FieldAvailability EditableField = "isAvailable"
)

// IsLocationField reports whether a field participates in the
// building/floor/office hierarchy and therefore triggers cascade repair.
func (f EditableField) IsLocationField() bool {
	switch f {
	case FieldLocation, FieldFloor, FieldOffice:
		return true
	}
	return false
}

// CurrentValue returns the agenda's current value for a UI field, used to seed
// an edit session's candidate.
func (a *Agenda) CurrentValue(field EditableField) any {
	switch field {
	case FieldLocation:
		return a.BuildingCode
	case FieldFloor:
		return a.FloorCode
	case FieldOffice:
		return a.OfficeCode
	case FieldWeekDays:
		return a.DayCode
	case FieldStartTime:
		return a.StartTime
	case FieldEndTime:
		return a.EndTime
	case FieldSpecialty:
		return a.Specialty
	case FieldAvailability:
		return a.IsAvailable
	}
	return nil
}
