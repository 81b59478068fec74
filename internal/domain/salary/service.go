package salary

import (
	"context"

	"github.com/gate-garments/hrms-backend-go/internal/domain/auth"
)

type SalaryService interface {
	GetStructure(ctx context.Context, actor auth.Actor, employeeID string) (StructureResponse, error)
	SaveStructure(ctx context.Context, actor auth.Actor, employeeID string, req UpsertStructureRequest) (StructureResponse, error)
}
