package remote

// Priority key tables for every record kind the hospital API serves. Upstream
// views disagree on naming (codigo_consultorio vs codigo, nombre_prestador vs
// name), so each field probes its candidates in order.
var (
	doctorIDKeys        = []string{"codigo_prestador", "id", "codigo"}
	doctorNameKeys      = []string{"nombre_prestador", "name", "nombre"}
	doctorSpecialtyKeys = []string{"descripcion_item", "especialidad", "specialty"}
	doctorEmailKeys     = []string{"correo", "email"}
	doctorPhoneKeys     = []string{"telefono", "phone"}
	doctorActiveKeys    = []string{"activo", "is_active", "isActive"}

	buildingCodeKeys  = []string{"codigo_edificio", "codigo", "id"}
	buildingLabelKeys = []string{"descripcion_edificio", "descripcion", "name"}

	floorCodeKeys  = []string{"codigo_piso", "codigo", "id"}
	floorLabelKeys = []string{"descripcion_piso", "descripcion", "name"}

	officeCodeKeys     = []string{"codigo_consultorio", "codigo", "id"}
	officeLabelKeys    = []string{"descripcion_consultorio", "descripcion", "name"}
	officeBuildingKeys = []string{"codigo_edificio", "edificio"}
	officeFloorKeys    = []string{"codigo_piso", "piso"}

	dayCodeKeys  = []string{"codigo_dia", "codigo", "id"}
	dayLabelKeys = []string{"descripcion_dia", "descripcion", "name"}

	specialtyLabelKeys = []string{"descripcion_item", "descripcion", "especialidad", "name"}

	agendaIDKeys         = []string{"id", "codigo_agenda", "codigo"}
	agendaDoctorKeys     = []string{"codigo_prestador", "medico", "doctorId"}
	agendaDoctorNameKeys = []string{"nombre_prestador", "doctorName"}
	agendaSpecialtyKeys  = []string{"especialidad", "descripcion_item", "specialty"}
	agendaBuildingKeys   = []string{"codigo_edificio", "edificio", "location"}
	agendaFloorKeys      = []string{"codigo_piso", "piso", "floor"}
	agendaOfficeKeys     = []string{"codigo_consultorio", "consultorio", "office"}
	agendaDayKeys        = []string{"codigo_dia", "dia", "day"}
	agendaStartKeys      = []string{"hora_inicio", "startTime"}
	agendaEndKeys        = []string{"hora_fin", "endTime"}
	agendaAvailableKeys  = []string{"disponible", "is_available", "isAvailable"}
)
