package events

import "context"

// Event names emitted by the catalog services.
const (
	RentalCreated = "rental.created"
	RentalUpdated = "rental.updated"
	RentalDeleted = "rental.deleted"

	VariantCreated = "rental-variant.created"
	VariantUpdated = "rental-variant.updated"
	VariantDeleted = "rental-variant.deleted"
)

// Bus delivers domain events to interested consumers. Delivery is
// best-effort: services emit after their transaction commits and only
// log failures.
type Bus interface {
	Emit(ctx context.Context, event string, payload interface{}) error
}
