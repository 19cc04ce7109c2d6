package caller

import (
	"context"

	"ecodrive-query-api/internal/model"
)

// UseCase resolves who is writing.
type UseCase interface {
	// Lookup never fails: any CRM problem yields the zero Profile.
	Lookup(ctx context.Context, phone string) model.Profile
}
