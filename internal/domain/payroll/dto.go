package payroll

import (
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ProcessPayrollRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type MarkPaidRequest struct {
	PaymentDate string `json:"payment_date"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.PaymentDate != "" {
		if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
			errs.Add("payment_date", "payment_date must be in YYYY-MM-DD format")
		}
	}
	return errs.Err()
}

type PeriodResponse struct {
	ID          string  `json:"id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Period      string  `json:"period"`
	Status      string  `json:"status"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	ProcessedBy *string `json:"processed_by,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	ApprovedBy  *string `json:"approved_by,omitempty"`
	PaymentDate *string `json:"payment_date,omitempty"`
	PaidBy      *string `json:"paid_by,omitempty"`
}

func NewPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{
		ID:          p.ID,
		Year:        p.Year,
		Month:       p.Month,
		Period:      p.Label(),
		Status:      string(p.Status),
		ProcessedAt: formatTime(p.ProcessedAt, time.RFC3339),
		ProcessedBy: p.ProcessedBy,
		ApprovedAt:  formatTime(p.ApprovedAt, time.RFC3339),
		ApprovedBy:  p.ApprovedBy,
		PaymentDate: formatTime(p.PaymentDate, validator.DateLayout),
		PaidBy:      p.PaidBy,
	}
}

type SkippedResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Reason       string `json:"reason"`
}

type FailedResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Error        string `json:"error"`
}

type RunSummaryResponse struct {
	Period         PeriodResponse    `json:"period"`
	ProcessedCount int               `json:"processed_count"`
	SkippedCount   int               `json:"skipped_count"`
	FailedCount    int               `json:"failed_count"`
	Skipped        []SkippedResponse `json:"skipped"`
	Failed         []FailedResponse  `json:"failed"`
}

func NewRunSummaryResponse(s RunSummary) RunSummaryResponse {
	resp := RunSummaryResponse{
		Period:         NewPeriodResponse(s.Period),
		ProcessedCount: s.Processed,
		SkippedCount:   len(s.Skipped),
		FailedCount:    len(s.Failed),
		Skipped:        make([]SkippedResponse, 0, len(s.Skipped)),
		Failed:         make([]FailedResponse, 0, len(s.Failed)),
	}
	for _, sk := range s.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedResponse{
			EmployeeID:   sk.EmployeeID,
			EmployeeCode: sk.EmployeeCode,
			Reason:       sk.Reason,
		})
	}
	for _, f := range s.Failed {
		resp.Failed = append(resp.Failed, FailedResponse{
			EmployeeID:   f.EmployeeID,
			EmployeeCode: f.EmployeeCode,
			Error:        f.Err.Error(),
		})
	}
	return resp
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	PeriodID     string  `json:"period_id"`
	Period       *string `json:"period,omitempty"`

	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	LeaveDays   int `json:"leave_days"`
	HalfDays    int `json:"half_days"`
	WFHDays     int `json:"wfh_days"`

	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	DA                  decimal.Decimal `json:"da"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	OtherAllowances     decimal.Decimal `json:"other_allowances"`

	PFDeduction      decimal.Decimal            `json:"pf_deduction"`
	ESIDeduction     decimal.Decimal            `json:"esi_deduction"`
	IncomeTax        decimal.Decimal            `json:"income_tax"`
	OtherDeductions  decimal.Decimal            `json:"other_deductions"`
	LedgerDeductions decimal.Decimal            `json:"ledger_deductions"`
	DeductionsDetail map[string]decimal.Decimal `json:"deductions_detail,omitempty"`

	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	UpdatedAt       string          `json:"updated_at"`
}

func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                  r.ID,
		EmployeeID:          r.EmployeeID,
		EmployeeCode:        r.EmployeeCode,
		EmployeeName:        r.EmployeeName,
		PeriodID:            r.PeriodID,
		WorkingDays:         r.WorkingDays,
		PresentDays:         r.PresentDays,
		AbsentDays:          r.AbsentDays,
		LeaveDays:           r.LeaveDays,
		HalfDays:            r.HalfDays,
		WFHDays:             r.WFHDays,
		BasicSalary:         r.Earnings.Basic,
		HRA:                 r.Earnings.HRA,
		DA:                  r.Earnings.DA,
		ConveyanceAllowance: r.Earnings.Conveyance,
		MedicalAllowance:    r.Earnings.Medical,
		OtherAllowances:     r.Earnings.OtherAllowances,
		PFDeduction:         r.Deductions.PF,
		ESIDeduction:        r.Deductions.ESI,
		IncomeTax:           r.Deductions.IncomeTax,
		OtherDeductions:     r.Deductions.OtherDeductions,
		LedgerDeductions:    r.LedgerDeductions,
		DeductionsDetail:    r.DeductionsDetail,
		GrossSalary:         r.GrossSalary,
		TotalDeductions:     r.TotalDeductions,
		NetSalary:           r.NetSalary,
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PeriodYear != nil && r.PeriodMonth != nil {
		label := Period{Year: *r.PeriodYear, Month: *r.PeriodMonth}.Label()
		resp.Period = &label
	}
	return resp
}

type SlipResponse struct {
	ID            string         `json:"id"`
	SlipNumber    string         `json:"slip_number"`
	PDFGenerated  bool           `json:"pdf_generated"`
	GeneratedDate *string        `json:"generated_date,omitempty"`
	Record        RecordResponse `json:"payroll_record"`
}

func NewSlipResponse(s Slip, r Record) SlipResponse {
	return SlipResponse{
		ID:            s.ID,
		SlipNumber:    s.SlipNumber,
		PDFGenerated:  s.PDFGenerated,
		GeneratedDate: formatTime(s.GeneratedDate, time.RFC3339),
		Record:        NewRecordResponse(r),
	}
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}
