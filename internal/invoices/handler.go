package invoices

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crewledger/crewledger/internal/dates"
	"github.com/crewledger/crewledger/internal/platform/httpx"
	"github.com/crewledger/crewledger/internal/shared"
)

// Handler manages invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/pay", h.pay)
}

type invoiceResponse struct {
	ID           int64   `json:"id"`
	Number       string  `json:"number"`
	EmployeeName string  `json:"employeeName"`
	SiteOfWork   string  `json:"siteOfWork,omitempty"`
	Amount       float64 `json:"amount"`
	TaxAmount    float64 `json:"taxAmount"`
	TotalAmount  float64 `json:"totalAmount"`
	Currency     string  `json:"currency"`
	IssueDate    string  `json:"issueDate"`
	DueDate      string  `json:"dueDate"`
	Status       Status  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
}

func toResponse(inv Invoice) invoiceResponse {
	return invoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		EmployeeName: inv.EmployeeName,
		SiteOfWork:   inv.SiteOfWork,
		Amount:       inv.Amount,
		TaxAmount:    inv.TaxAmount,
		TotalAmount:  inv.TotalAmount,
		Currency:     inv.Currency,
		IssueDate:    dates.FormatISO(inv.IssueDate),
		DueDate:      dates.FormatISO(inv.DueDate),
		Status:       inv.Status,
		Notes:        inv.Notes,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Status:       Status(r.URL.Query().Get("status")),
		EmployeeName: r.URL.Query().Get("employee"),
	}
	if req.Status != "" && !req.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	list, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(list))

	out := make([]invoiceResponse, 0, pagination.PerPage)
	for _, inv := range paginate(list, pagination) {
		out = append(out, toResponse(inv))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoices": out,
		"pagination": map[string]int{
			"page":       pagination.Page,
			"perPage":    pagination.PerPage,
			"total":      pagination.Total,
			"totalPages": pagination.TotalPages,
		},
	})
}

func paginate(list []Invoice, p shared.Pagination) []Invoice {
	start := (p.Page - 1) * p.PerPage
	if start >= len(list) {
		return nil
	}
	end := start + p.PerPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*inv))
}

type createInvoiceRequest struct {
	Number       string  `json:"number" validate:"required"`
	EmployeeName string  `json:"employeeName" validate:"required"`
	SiteOfWork   string  `json:"siteOfWork"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	TaxAmount    float64 `json:"taxAmount" validate:"gte=0"`
	Currency     string  `json:"currency" validate:"required,len=3"`
	IssueDate    string  `json:"issueDate" validate:"required"`
	DueDate      string  `json:"dueDate" validate:"required"`
	Notes        string  `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	issue, ok := dates.Parse(req.IssueDate)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unparseable issue date")
		return
	}
	due, ok := dates.Parse(req.DueDate)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unparseable due date")
		return
	}

	inv, err := h.service.CreateManual(r.Context(), CreateInvoiceInput{
		Number:       req.Number,
		EmployeeName: req.EmployeeName,
		SiteOfWork:   req.SiteOfWork,
		Amount:       req.Amount,
		TaxAmount:    req.TaxAmount,
		Currency:     req.Currency,
		IssueDate:    issue,
		DueDate:      due,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(*inv))
}

type payRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=paid received"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	var req payRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
	}
	status := Status(req.Status)
	if status == "" {
		status = StatusPaid
	}
	inv, err := h.service.MarkPaid(r.Context(), id, status)
	if err != nil {
		h.logger.Error("mark invoice paid", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*inv))
}
