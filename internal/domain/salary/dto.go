package salary

import (
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertStructureRequest struct {
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	DA                  decimal.Decimal `json:"da"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	OtherAllowances     decimal.Decimal `json:"other_allowances"`
	PFDeduction         decimal.Decimal `json:"pf_deduction"`
	ESIDeduction        decimal.Decimal `json:"esi_deduction"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	OtherDeductions     decimal.Decimal `json:"other_deductions"`
}

func (r *UpsertStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	fields := map[string]decimal.Decimal{
		"basic_salary":         r.BasicSalary,
		"hra":                  r.HRA,
		"da":                   r.DA,
		"conveyance_allowance": r.ConveyanceAllowance,
		"medical_allowance":    r.MedicalAllowance,
		"other_allowances":     r.OtherAllowances,
		"pf_deduction":         r.PFDeduction,
		"esi_deduction":        r.ESIDeduction,
		"income_tax":           r.IncomeTax,
		"other_deductions":     r.OtherDeductions,
	}
	for name, v := range fields {
		if v.IsNegative() {
			errs.Add(name, name+" must not be negative")
		}
	}
	if r.BasicSalary.IsZero() {
		errs.Add("basic_salary", "basic_salary is required")
	}

	return errs.Err()
}

func (r UpsertStructureRequest) ToStructure(employeeID string) Structure {
	return Structure{
		EmployeeID: employeeID,
		Earnings: Earnings{
			Basic:           r.BasicSalary,
			HRA:             r.HRA,
			DA:              r.DA,
			Conveyance:      r.ConveyanceAllowance,
			Medical:         r.MedicalAllowance,
			OtherAllowances: r.OtherAllowances,
		},
		Deductions: Deductions{
			PF:              r.PFDeduction,
			ESI:             r.ESIDeduction,
			IncomeTax:       r.IncomeTax,
			OtherDeductions: r.OtherDeductions,
		},
	}
}

type StructureResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	DA                  decimal.Decimal `json:"da"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	OtherAllowances     decimal.Decimal `json:"other_allowances"`
	PFDeduction         decimal.Decimal `json:"pf_deduction"`
	ESIDeduction        decimal.Decimal `json:"esi_deduction"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	OtherDeductions     decimal.Decimal `json:"other_deductions"`
	GrossSalary         decimal.Decimal `json:"gross_salary"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	NetSalary           decimal.Decimal `json:"net_salary"`
	UpdatedAt           string          `json:"updated_at"`
}

func NewStructureResponse(s Structure) StructureResponse {
	gross := s.Earnings.Total()
	deductions := s.Deductions.Total()
	return StructureResponse{
		ID:                  s.ID,
		EmployeeID:          s.EmployeeID,
		BasicSalary:         s.Earnings.Basic,
		HRA:                 s.Earnings.HRA,
		DA:                  s.Earnings.DA,
		ConveyanceAllowance: s.Earnings.Conveyance,
		MedicalAllowance:    s.Earnings.Medical,
		OtherAllowances:     s.Earnings.OtherAllowances,
		PFDeduction:         s.Deductions.PF,
		ESIDeduction:        s.Deductions.ESI,
		IncomeTax:           s.Deductions.IncomeTax,
		OtherDeductions:     s.Deductions.OtherDeductions,
		GrossSalary:         gross,
		TotalDeductions:     deductions,
		NetSalary:           gross.Sub(deductions),
		UpdatedAt:           s.UpdatedAt.Format(time.RFC3339),
	}
}
