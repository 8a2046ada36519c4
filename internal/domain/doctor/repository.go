package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key, soft-deleted rows included.
	// Returns ErrDoctorNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)

	// SoftDelete flips the deletion marker; appointment history keeps pointing
	// at the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns active doctors ordered by name.
	List(ctx context.Context) ([]*Doctor, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateServiceCommand) (*Service, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ListByDoctor returns the active services offered by a doctor.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Service, error)
}
