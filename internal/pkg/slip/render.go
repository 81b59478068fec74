// Package slip renders salary slips as single-page A4 PDFs.
package slip

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Line is one labelled amount in the earnings or deductions column.
type Line struct {
	Label  string
	Amount decimal.Decimal
}

type Document struct {
	CompanyName string
	SlipNumber  string
	Period      string // YYYY-MM
	IssuedAt    time.Time

	EmployeeCode string
	EmployeeName string
	Designation  string
	Department   string
	BankName     string
	BankAccount  string

	WorkingDays int
	PresentDays int
	AbsentDays  int
	LeaveDays   int
	HalfDays    int
	WFHDays     int

	Earnings   []Line
	Deductions []Line

	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

const (
	pageMargin = 15.0
	rowHeight  = 7.0
	colWidth   = 90.0
)

// Render writes doc as PDF to w.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(doc.SlipNumber, false)
	pdf.SetCreator(doc.CompanyName, false)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, rowHeight, "Salary slip for "+doc.Period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	infoRow(pdf, "Slip number", doc.SlipNumber, "Issued", doc.IssuedAt.Format("2006-01-02"))
	infoRow(pdf, "Employee code", doc.EmployeeCode, "Name", doc.EmployeeName)
	infoRow(pdf, "Designation", doc.Designation, "Department", doc.Department)
	infoRow(pdf, "Bank", doc.BankName, "Account", doc.BankAccount)
	pdf.Ln(3)

	infoRow(pdf, "Working days", fmt.Sprint(doc.WorkingDays), "Present", fmt.Sprint(doc.PresentDays))
	infoRow(pdf, "Absent", fmt.Sprint(doc.AbsentDays), "Leave", fmt.Sprint(doc.LeaveDays))
	infoRow(pdf, "Half days", fmt.Sprint(doc.HalfDays), "Work from home", fmt.Sprint(doc.WFHDays))
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colWidth, rowHeight, "Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidth, rowHeight, "Deductions", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	rows := max(len(doc.Earnings), len(doc.Deductions))
	for i := 0; i < rows; i++ {
		amountCell(pdf, doc.Earnings, i, 0)
		amountCell(pdf, doc.Deductions, i, 1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	amountCell(pdf, []Line{{Label: "Gross salary", Amount: doc.GrossSalary}}, 0, 0)
	amountCell(pdf, []Line{{Label: "Total deductions", Amount: doc.TotalDeductions}}, 0, 1)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(colWidth*2-30, 9, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 9, doc.NetSalary.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "This is a system generated slip and does not require a signature.", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render slip %s: %w", doc.SlipNumber, err)
	}
	return nil
}

func infoRow(pdf *fpdf.Fpdf, k1, v1, k2, v2 string) {
	pdf.CellFormat(30, 6, k1, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, v1, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, k2, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, v2, "", 1, "L", false, 0, "")
}

// amountCell draws lines[i] in column col, or an empty box past the end.
func amountCell(pdf *fpdf.Fpdf, lines []Line, i, col int) {
	ln := 0
	if col == 1 {
		ln = 1
	}
	if i >= len(lines) {
		pdf.CellFormat(colWidth, rowHeight, "", "1", ln, "L", false, 0, "")
		return
	}
	pdf.CellFormat(colWidth-30, rowHeight, lines[i].Label, "LTB", 0, "L", false, 0, "")
	pdf.CellFormat(30, rowHeight, lines[i].Amount.StringFixed(2), "RTB", ln, "R", false, 0, "")
}
