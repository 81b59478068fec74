package salary

import "context"

type StructureRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (Structure, error)
	// Upsert creates or overwrites the structure keyed by employee.
	Upsert(ctx context.Context, s Structure) (Structure, error)
}
