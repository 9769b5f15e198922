package reconcile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/crewledger/crewledger/internal/platform/httpx"
)

// Handler exposes reconciliation triggers. Batch triggers go through a
// singleflight group so concurrent callers share one run instead of
// racing the check-then-create window.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	group    singleflight.Group
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers reconciliation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invoices", h.sweepInvoices)
	r.Post("/invoices/{id}", h.singleInvoice)
	r.Post("/timesheets", h.sweepTimesheets)
	r.Post("/timesheets/employee", h.singleEmployee)
}

func (h *Handler) sweepInvoices(w http.ResponseWriter, r *http.Request) {
	report, _, _ := h.group.Do("invoices", func() (any, error) {
		return h.service.ProcessAllInvoices(r.Context()), nil
	})
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) singleInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	outcome, err := h.service.ProcessSingleInvoice(r.Context(), id)
	if err != nil {
		h.logger.Error("reconcile invoice", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, outcome)
}

type sweepTimesheetsRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2200"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (h *Handler) sweepTimesheets(w http.ResponseWriter, r *http.Request) {
	var req sweepTimesheetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	key := fmt.Sprintf("timesheets:%04d-%02d", req.Year, req.Month)
	report, _, _ := h.group.Do(key, func() (any, error) {
		return h.service.ProcessAllPendingTimesheets(r.Context(), req.Year, time.Month(req.Month)), nil
	})
	httpx.JSON(w, http.StatusOK, report)
}

type singleEmployeeRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	EmployeeName string `json:"employeeName" validate:"required"`
	Year         int    `json:"year" validate:"required,min=2000,max=2200"`
	Month        int    `json:"month" validate:"required,min=1,max=12"`
}

func (h *Handler) singleEmployee(w http.ResponseWriter, r *http.Request) {
	var req singleEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.ProcessEmployeeTimesheet(r.Context(), req.EmployeeID, req.EmployeeName, req.Year, time.Month(req.Month))
	if err != nil {
		h.logger.Error("reconcile employee timesheet",
			slog.String("employee_id", req.EmployeeID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
