package http

import (
	"net/http"
	"strconv"

	"github.com/gate-garments/hrms-backend-go/internal/domain/deduction"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ChangeStatus(w http.ResponseWriter, r *http.Request)

	GetSalaryStructure(w http.ResponseWriter, r *http.Request)
	SaveSalaryStructure(w http.ResponseWriter, r *http.Request)

	CreateDeduction(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
	DeactivateDeduction(w http.ResponseWriter, r *http.Request)

	CreateDepartment(w http.ResponseWriter, r *http.Request)
	ListDepartments(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService  employee.EmployeeService
	salaryService    salary.SalaryService
	deductionService deduction.DeductionService
}

func NewEmployeeHandler(
	employeeService employee.EmployeeService,
	salaryService salary.SalaryService,
	deductionService deduction.DeductionService,
) EmployeeHandler {
	return &EmployeeHandlerImpl{
		employeeService:  employeeService,
		salaryService:    salaryService,
		deductionService: deductionService,
	}
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if !decodeOrReject(w, r, "CreateEmployee", &req) {
		return
	}

	created, err := h.employeeService.CreateEmployee(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", created)
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	filter := employee.EmployeeFilter{
		Search:       optionalQuery(r, "search"),
		DepartmentID: optionalQuery(r, "department_id"),
		Status:       optionalQuery(r, "status"),
		Page:         positiveQueryInt(r, "page"),
		Limit:        positiveQueryInt(r, "limit"),
	}

	resp, err := h.employeeService.ListEmployees(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Employees, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: resp.TotalPages,
	})
}

// Get implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	resp, err := h.employeeService.GetEmployee(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeOrReject(w, r, "UpdateEmployee", &req) {
		return
	}

	resp, err := h.employeeService.UpdateEmployee(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", resp)
}

// ChangeStatus implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req employee.ChangeStatusRequest
	if !decodeOrReject(w, r, "ChangeStatus", &req) {
		return
	}

	resp, err := h.employeeService.ChangeStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee status changed successfully", resp)
}

// GetSalaryStructure implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetSalaryStructure(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	resp, err := h.salaryService.GetStructure(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// SaveSalaryStructure implements EmployeeHandler.
func (h *EmployeeHandlerImpl) SaveSalaryStructure(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req salary.UpsertStructureRequest
	if !decodeOrReject(w, r, "SaveSalaryStructure", &req) {
		return
	}

	resp, err := h.salaryService.SaveStructure(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary structure saved successfully", resp)
}

// CreateDeduction implements EmployeeHandler.
func (h *EmployeeHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req deduction.CreateDeductionRequest
	if !decodeOrReject(w, r, "CreateDeduction", &req) {
		return
	}

	resp, err := h.deductionService.CreateDeduction(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction created successfully", resp)
}

// ListDeductions implements EmployeeHandler. ?active=true limits the list
// to active entries.
func (h *EmployeeHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	resp, err := h.deductionService.ListDeductions(r.Context(), actor, chi.URLParam(r, "id"), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// DeactivateDeduction implements EmployeeHandler.
func (h *EmployeeHandlerImpl) DeactivateDeduction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	if err := h.deductionService.DeactivateDeduction(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction deactivated successfully", nil)
}

// CreateDepartment implements EmployeeHandler.
func (h *EmployeeHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrReject(w, r)
	if !ok {
		return
	}

	var req employee.CreateDepartmentRequest
	if !decodeOrReject(w, r, "CreateDepartment", &req) {
		return
	}

	resp, err := h.employeeService.CreateDepartment(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", resp)
}

// ListDepartments implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.employeeService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
