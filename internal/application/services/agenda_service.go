package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/repositories"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
)

// ErrLoadSuperseded reports that a LoadForDoctor call resolved after a newer
// selection replaced it; its result was discarded.
var ErrLoadSuperseded = errors.New("agenda load superseded by a newer doctor selection")

// AgendaService is the in-memory collection of the currently selected doctor's
// agendas. The remote store stays the system of record: local mutation happens
// only after a confirmed save, never optimistically.
type AgendaService struct {
	repo repositories.AgendaRepository

	mu       sync.Mutex
	doctorID string
	records  []entities.Agenda
	loadGen  uint64
}

// NewAgendaService creates a new agenda service
func NewAgendaService(repo repositories.AgendaRepository) *AgendaService {
	return &AgendaService{repo: repo}
}

// LoadForDoctor replaces the record list with the given doctor's agendas.
// Rapid doctor switching has last-call-wins semantics: a load that resolves
// after a newer one began is discarded and reported as ErrLoadSuperseded.
// On failure the list is emptied and a SCHEDULE_LOAD_FAILED error returned;
// the user retries by reselecting the doctor.
func (s *AgendaService) LoadForDoctor(ctx context.Context, doctorID string) ([]entities.Agenda, error) {
	s.mu.Lock()
	s.loadGen++
	generation := s.loadGen
	s.doctorID = doctorID
	s.mu.Unlock()

	records, err := s.repo.ListByDoctor(ctx, doctorID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.loadGen {
		return nil, ErrLoadSuperseded
	}
	if err != nil {
		s.records = nil
		return nil, apperrors.NewScheduleLoadError(doctorID, err)
	}
	s.records = records
	return s.snapshotLocked(), nil
}

// Records returns a copy of the current record list.
func (s *AgendaService) Records() []entities.Agenda {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// DoctorID returns the doctor the current list belongs to.
func (s *AgendaService) DoctorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doctorID
}

// Get returns the agenda with the given id, if present.
func (s *AgendaService) Get(agendaID string) (entities.Agenda, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.ID == agendaID {
			return record, true
		}
	}
	return entities.Agenda{}, false
}

// ApplyFieldResult mutates one field of one record locally. Called only after
// the remote store confirmed the save.
func (s *AgendaService) ApplyFieldResult(agendaID string, field entities.EditableField, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != agendaID {
			continue
		}
		applyField(&s.records[i], field, value)
		return true
	}
	return false
}

// Search filters the current list by a case-insensitive substring match over
// doctor name and specialty. Pure; never touches the network.
func (s *AgendaService) Search(term string) []entities.Agenda {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return s.snapshotLocked()
	}

	var matches []entities.Agenda
	for _, record := range s.records {
		if strings.Contains(strings.ToLower(record.DoctorName), needle) ||
			strings.Contains(strings.ToLower(record.Specialty), needle) {
			matches = append(matches, record)
		}
	}
	return matches
}

// Create persists a new agenda through the remote store and appends it to the
// local list when it belongs to the selected doctor.
func (s *AgendaService) Create(ctx context.Context, input entities.AgendaCreateInput) (*entities.Agenda, error) {
	if input.DoctorID == "" {
		return nil, apperrors.NewValidationError("doctor is required")
	}
	if input.DayCode == "" || input.StartTime == "" || input.EndTime == "" {
		return nil, apperrors.NewValidationError("day and time range are required")
	}

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if created.DoctorID == s.doctorID {
		s.records = append(s.records, *created)
	}
	s.mu.Unlock()
	return created, nil
}

func (s *AgendaService) snapshotLocked() []entities.Agenda {
	records := make([]entities.Agenda, len(s.records))
	copy(records, s.records)
	return records
}

func applyField(record *entities.Agenda, field entities.EditableField, value any) {
	switch field {
	case entities.FieldLocation:
		record.BuildingCode = asString(value)
	case entities.FieldFloor:
		record.FloorCode = asString(value)
	case entities.FieldOffice:
		record.OfficeCode = asString(value)
	case entities.FieldWeekDays:
		record.DayCode = asString(value)
	case entities.FieldStartTime:
		record.StartTime = asString(value)
	case entities.FieldEndTime:
		record.EndTime = asString(value)
	case entities.FieldSpecialty:
		record.Specialty = asString(value)
	case entities.FieldAvailability:
		if flag, ok := value.(bool); ok {
			record.IsAvailable = flag
		}
	}
}
