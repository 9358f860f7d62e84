package repositories

import (
	"context"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
)

// AgendaRepository is the boundary to the remote agenda store. The remote
// store is the system of record; this side never persists anything locally.
type AgendaRepository interface {
	// ListByDoctor returns the agendas of one doctor. The server filters by
	// doctor id; implementations re-filter defensively in case it over-returns.
	ListByDoctor(ctx context.Context, doctorID string) ([]entities.Agenda, error)

	// UpdateField performs a partial update of a single storage field on one
	// agenda and returns the updated record as persisted.
	UpdateField(ctx context.Context, agendaID, storageField string, value any) (*entities.Agenda, error)

	// Create persists a new agenda and returns it with its assigned id.
	Create(ctx context.Context, input entities.AgendaCreateInput) (*entities.Agenda, error)
}
