package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/providers"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/repositories"
	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/observability"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
)

// SessionState is the lifecycle state of a field edit session.
type SessionState string

const (
	// SessionEditing holds an unsaved candidate value.
	SessionEditing SessionState = "editing"

	// SessionSaving has its save in flight. A session replaced or cancelled
	// while saving still completes and still applies its result.
	SessionSaving SessionState = "saving"
)

// storageFieldNames is the fixed, total translation from the UI field
// vocabulary to the remote store's column names.
var storageFieldNames = map[entities.EditableField]string{
	entities.FieldLocation:     "codigo_edificio",
	entities.FieldFloor:        "codigo_piso",
	entities.FieldOffice:       "codigo_consultorio",
	entities.FieldWeekDays:     "codigo_dia",
	entities.FieldStartTime:    "hora_inicio",
	entities.FieldEndTime:      "hora_fin",
	entities.FieldSpecialty:    "especialidad",
	entities.FieldAvailability: "disponible",
}

// EditSession is one in-flight per-field edit. Ephemeral: created on begin,
// destroyed on save or cancel, never persisted.
type EditSession struct {
	ID        string
	AgendaID  string
	Field     entities.EditableField
	Candidate any
	State     SessionState
	Err       error
}

// SaveResult reports a committed edit: the record after the primary save and
// any cascades, plus CASCADE_SAVE_FAILED warnings for repairs that did not
// persist. Warnings are a different severity than a failed commit; the
// user's own edit did persist.
type SaveResult struct {
	Agenda   entities.Agenda
	Warnings []*apperrors.AppError
}

// EditController owns the at-most-one field edit session and drives the save
// protocol: normalize, persist one field, apply locally, then repair dependent
// location fields with sequential follow-up saves.
type EditController struct {
	agendas  *AgendaService
	catalogs *CatalogService
	repo     repositories.AgendaRepository
	bus      providers.EventBus
	metrics  *observability.Metrics

	mu      sync.Mutex
	current *EditSession
}

// NewEditController creates a new edit controller. bus may be nil.
func NewEditController(
	agendas *AgendaService,
	catalogs *CatalogService,
	repo repositories.AgendaRepository,
	bus providers.EventBus,
	metrics *observability.Metrics,
) *EditController {
	return &EditController{
		agendas:  agendas,
		catalogs: catalogs,
		repo:     repo,
		bus:      bus,
		metrics:  metrics,
	}
}

// Begin opens an edit session on one field of one record, seeding the
// candidate from the record's current value. An already-open session is
// implicitly cancelled, discarding its unsaved candidate; a save it had in
// flight still completes.
func (c *EditController) Begin(agendaID string, field entities.EditableField) (EditSession, error) {
	if _, ok := storageFieldNames[field]; !ok {
		return EditSession{}, apperrors.NewValidationError("unknown editable field " + string(field))
	}
	record, ok := c.agendas.Get(agendaID)
	if !ok {
		return EditSession{}, apperrors.NewNotFoundError("agenda " + agendaID + " is not loaded")
	}

	session := &EditSession{
		ID:        uuid.New().String(),
		AgendaID:  agendaID,
		Field:     field,
		Candidate: record.CurrentValue(field),
		State:     SessionEditing,
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	return *session, nil
}

// SetCandidate replaces the session's candidate value.
func (c *EditController) SetCandidate(value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return apperrors.NewValidationError("no edit session is open")
	}
	if c.current.State == SessionSaving {
		return apperrors.NewValidationError("cannot change the candidate while saving")
	}
	c.current.Candidate = value
	return nil
}

// Current returns a copy of the open session, if any.
func (c *EditController) Current() (EditSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return EditSession{}, false
	}
	return *c.current, true
}

// Cancel closes the session, discarding the candidate. It never aborts an
// in-flight save; one that was running still completes and still applies.
func (c *EditController) Cancel() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Commit runs the save protocol for the open session. On primary-save failure
// the session returns to editing with the error attached and the candidate
// preserved; nothing is applied locally. On success the session closes, the
// store is updated, and location edits trigger sequential cascade repairs
// whose failures are reported as warnings, never rolled back.
func (c *EditController) Commit(ctx context.Context) (*SaveResult, error) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil, apperrors.NewValidationError("no edit session is open")
	}
	if c.current.State == SessionSaving {
		c.mu.Unlock()
		return nil, apperrors.NewValidationError("a save is already in progress")
	}
	session := c.current
	sessionID := session.ID
	agendaID := session.AgendaID
	field := session.Field
	candidate := session.Candidate
	session.State = SessionSaving
	session.Err = nil
	c.mu.Unlock()

	record, ok := c.agendas.Get(agendaID)
	if !ok {
		err := apperrors.NewFieldSaveError(string(field), apperrors.NewNotFoundError("agenda "+agendaID+" is not loaded"))
		c.reopenAfterFailure(sessionID, err)
		return nil, err
	}

	normalized := normalizeCandidate(field, candidate, record)

	if _, err := c.repo.UpdateField(ctx, agendaID, storageFieldNames[field], normalized); err != nil {
		saveErr := apperrors.NewFieldSaveError(string(field), err)
		c.reopenAfterFailure(sessionID, saveErr)
		return nil, saveErr
	}

	c.agendas.ApplyFieldResult(agendaID, field, normalized)
	c.publish(ctx, entities.AgendaEventFieldUpdated, agendaID, record.DoctorID, field, normalized)

	var warnings []*apperrors.AppError
	if field.IsLocationField() {
		warnings = c.repairLocation(ctx, agendaID, record.DoctorID, field)
	}

	// Close only our own session; a newer edit may have replaced it while the
	// save was in flight.
	c.mu.Lock()
	if c.current != nil && c.current.ID == sessionID {
		c.current = nil
	}
	c.mu.Unlock()

	final, _ := c.agendas.Get(agendaID)
	return &SaveResult{Agenda: final, Warnings: warnings}, nil
}

// CreateAgenda persists a new agenda after checking it against the catalogs:
// the day code must exist and a supplied office must carry back-references
// matching the given building and floor. Degraded catalogs skip the checks
// they cannot perform.
func (c *EditController) CreateAgenda(ctx context.Context, input entities.AgendaCreateInput) (*entities.Agenda, error) {
	snapshot, err := c.catalogs.Snapshot(ctx, input.BuildingCode)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("creating agenda with degraded catalogs")
	}
	if len(snapshot.Days) > 0 && input.DayCode != "" && !entities.ContainsCode(snapshot.Days, input.DayCode) {
		return nil, apperrors.NewValidationError("unknown day code " + input.DayCode)
	}
	if err := ValidateLocation(snapshot, input.BuildingCode, input.FloorCode, input.OfficeCode); err != nil {
		return nil, err
	}

	created, err := c.agendas.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, entities.AgendaEventCreated, created.ID, created.DoctorID, "", nil)
	return created, nil
}

// repairLocation restores location coherence after a hierarchy edit. One
// follow-up save per field the resolver changed, strictly sequential so the
// remote store never observes reordered repairs. A failed repair is reported
// and skipped, leaving the record best-effort.
func (c *EditController) repairLocation(ctx context.Context, agendaID, doctorID string, editedField entities.EditableField) []*apperrors.AppError {
	record, ok := c.agendas.Get(agendaID)
	if !ok {
		return nil
	}

	logger := observability.LoggerFromContext(ctx)

	snapshot, err := c.catalogs.Snapshot(ctx, record.BuildingCode)
	if err != nil {
		// An unavailable catalog is not an empty one. Resolving against empty
		// lists would persist cleared floor and office codes, so repairs are
		// skipped; a stale dependent field is recoverable, a cleared one is not.
		warning := apperrors.NewCascadeSkippedError(err)
		logger.Warn().Err(warning).Str("agenda_id", agendaID).Msg("skipping location repairs, catalogs unavailable")
		return []*apperrors.AppError{warning}
	}

	var change LocationChange
	switch editedField {
	case entities.FieldLocation:
		change = ResolveAfterBuildingChange(snapshot, record.BuildingCode, record.FloorCode, record.OfficeCode)
	case entities.FieldFloor:
		change = ResolveAfterFloorChange(snapshot, record.BuildingCode, record.FloorCode, record.OfficeCode)
	case entities.FieldOffice:
		change = ResolveAfterOfficeChange(snapshot, record.OfficeCode)
	}

	type repair struct {
		field entities.EditableField
		value *string
		old   string
	}
	// Parent-to-child order, so a partially failed repair never persists a
	// child ahead of its parent.
	repairs := []repair{
		{entities.FieldLocation, change.BuildingCode, record.BuildingCode},
		{entities.FieldFloor, change.FloorCode, record.FloorCode},
		{entities.FieldOffice, change.OfficeCode, record.OfficeCode},
	}

	var warnings []*apperrors.AppError
	for _, r := range repairs {
		if r.value == nil || *r.value == r.old {
			continue
		}
		if c.metrics != nil {
			c.metrics.CascadeSaveCount.Add(ctx, 1)
		}
		if _, err := c.repo.UpdateField(ctx, agendaID, storageFieldNames[r.field], *r.value); err != nil {
			warning := apperrors.NewCascadeSaveError(string(r.field), err)
			warnings = append(warnings, warning)
			logger.Warn().Err(warning).
				Str("agenda_id", agendaID).
				Str("field", string(r.field)).
				Msg("cascade repair save failed")
			c.publish(ctx, entities.AgendaEventCascadeFailed, agendaID, doctorID, r.field, *r.value)
			continue
		}
		c.agendas.ApplyFieldResult(agendaID, r.field, *r.value)
		c.publish(ctx, entities.AgendaEventFieldUpdated, agendaID, doctorID, r.field, *r.value)
	}
	return warnings
}

func (c *EditController) reopenAfterFailure(sessionID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.ID != sessionID {
		return
	}
	c.current.State = SessionEditing
	c.current.Err = err
}

func (c *EditController) publish(ctx context.Context, eventType entities.AgendaEventType, agendaID, doctorID string, field entities.EditableField, value any) {
	if c.bus == nil {
		return
	}
	event := &entities.AgendaEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		AgendaID:   agendaID,
		DoctorID:   doctorID,
		Field:      string(field),
		Value:      value,
		OccurredAt: time.Now(),
	}
	if err := c.bus.Publish(ctx, providers.EventChannelAgendaUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to publish agenda event")
	}
}
