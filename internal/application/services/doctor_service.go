package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/internal/domain/repositories"
	apperrors "github.com/hvqdigital/agenda-console/backend/pkg/errors"
)

// DoctorService resolves the doctor list for a selected specialty. A parent
// view seeds it with the already-known doctors; a remote lookup is only a
// fallback for specialties with no local match, and a remote result that
// arrives after the local filter produced matches is discarded.
type DoctorService struct {
	directory repositories.DoctorDirectory

	mu    sync.Mutex
	known []entities.Doctor
}

// NewDoctorService creates a new doctor service
func NewDoctorService(directory repositories.DoctorDirectory) *DoctorService {
	return &DoctorService{directory: directory}
}

// SetKnownDoctors replaces the locally-known doctor set.
func (s *DoctorService) SetKnownDoctors(doctors []entities.Doctor) {
	copied := make([]entities.Doctor, len(doctors))
	copy(copied, doctors)
	s.mu.Lock()
	s.known = copied
	s.mu.Unlock()
}

// KnownDoctors returns a copy of the locally-known doctor set.
func (s *DoctorService) KnownDoctors() []entities.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]entities.Doctor, len(s.known))
	copy(copied, s.known)
	return copied
}

// KnownSpecialties derives the specialty labels from the locally-known
// doctors, sorted. Used when the specialty catalog is unavailable.
func (s *DoctorService) KnownSpecialties() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var labels []string
	for _, doctor := range s.known {
		if doctor.Specialty == "" {
			continue
		}
		if _, dup := seen[doctor.Specialty]; dup {
			continue
		}
		seen[doctor.Specialty] = struct{}{}
		labels = append(labels, doctor.Specialty)
	}
	sort.Strings(labels)
	return labels
}

// ResolveBySpecialty returns the doctors for a specialty. Locally-known
// doctors win; the remote directory is consulted only when the local filter is
// empty, and its result is adopted only if the local filter is still empty
// when it resolves. On key collision the local entry takes precedence.
func (s *DoctorService) ResolveBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	local := s.filterKnown(specialty)
	if len(local) > 0 {
		return local, nil
	}

	remote, err := s.directory.ListBySpecialty(ctx, specialty)
	if err != nil {
		return nil, apperrors.NewDoctorLookupError("could not look up doctors for specialty "+specialty, err)
	}

	// The known set may have changed while the lookup was in flight; a local
	// match appearing in the meantime wins and the remote result is dropped.
	local = s.filterKnown(specialty)
	if len(local) > 0 {
		return local, nil
	}
	return s.mergePreferLocal(remote), nil
}

// SearchByName narrows the doctor list by a remote name lookup, keeping only
// doctors of the active specialty. Terms under two characters never reach the
// network; they answer from the locally-known set.
func (s *DoctorService) SearchByName(ctx context.Context, specialty, nameSubstring string) ([]entities.Doctor, error) {
	term := strings.TrimSpace(nameSubstring)
	if len([]rune(term)) < 2 {
		return s.filterKnown(specialty), nil
	}

	remote, err := s.directory.SearchByName(ctx, nameSubstring)
	if err != nil {
		return nil, apperrors.NewDoctorLookupError("could not search doctors by name", err)
	}

	var matches []entities.Doctor
	for _, doctor := range remote {
		if specialty != "" && !strings.EqualFold(doctor.Specialty, specialty) {
			continue
		}
		matches = append(matches, doctor)
	}
	return s.mergePreferLocalInto(matches), nil
}

// ResolveByItemCode looks up the doctor registered under a billing item code.
// A locally-known doctor with the same id replaces the directory record.
func (s *DoctorService) ResolveByItemCode(ctx context.Context, itemCode string) (*entities.Doctor, error) {
	doctor, err := s.directory.GetByItemCode(ctx, itemCode)
	if err != nil {
		return nil, apperrors.NewDoctorLookupError("could not look up doctor for item "+itemCode, err)
	}
	merged := s.mergePreferLocalInto([]entities.Doctor{*doctor})
	return &merged[0], nil
}

func (s *DoctorService) filterKnown(specialty string) []entities.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []entities.Doctor
	for _, doctor := range s.known {
		if strings.EqualFold(doctor.Specialty, specialty) {
			matches = append(matches, doctor)
		}
	}
	return matches
}

func (s *DoctorService) mergePreferLocal(remote []entities.Doctor) []entities.Doctor {
	return s.mergePreferLocalInto(remote)
}

// mergePreferLocalInto replaces remote entries with the locally-known record
// of the same id, keeping remote ordering for the rest.
func (s *DoctorService) mergePreferLocalInto(remote []entities.Doctor) []entities.Doctor {
	s.mu.Lock()
	byID := make(map[string]entities.Doctor, len(s.known))
	for _, doctor := range s.known {
		byID[doctor.ID] = doctor
	}
	s.mu.Unlock()

	merged := make([]entities.Doctor, 0, len(remote))
	seen := make(map[string]struct{}, len(remote))
	for _, doctor := range remote {
		if _, dup := seen[doctor.ID]; dup {
			continue
		}
		seen[doctor.ID] = struct{}{}
		if local, ok := byID[doctor.ID]; ok {
			merged = append(merged, local)
			continue
		}
		merged = append(merged, doctor)
	}
	return merged
}
