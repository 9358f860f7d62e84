package repositories

import (
	"context"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
)

// DoctorDirectory reads the hospital's provider directory.
type DoctorDirectory interface {
	// ListAll returns every known doctor.
	ListAll(ctx context.Context) ([]entities.Doctor, error)

	// ListBySpecialty returns the doctors holding the given specialty label.
	ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error)

	// SearchByName returns the doctors whose name contains the substring.
	SearchByName(ctx context.Context, nameSubstring string) ([]entities.Doctor, error)

	// GetByItemCode returns the doctor registered under an item code.
	GetByItemCode(ctx context.Context, itemCode string) (*entities.Doctor, error)
}
