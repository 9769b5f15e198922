package payroll

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crewledger/crewledger/internal/dates"
	"github.com/crewledger/crewledger/internal/invoices"
	"github.com/crewledger/crewledger/internal/platform/httpx"
	"github.com/crewledger/crewledger/internal/shared"
)

// Handler manages payroll endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/archive", h.archive)
}

type entryResponse struct {
	ID            int64           `json:"id"`
	MonthLabel    string          `json:"monthLabel"`
	Date          string          `json:"date"`
	CashFlowMode  CashFlowMode    `json:"cashFlowMode"`
	CashFlowType  CashFlowType    `json:"cashFlowType"`
	Name          string          `json:"name"`
	SiteOfWork    string          `json:"siteOfWork,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	AmountExclTax float64         `json:"amountExclTax"`
	TaxAmount     float64         `json:"taxAmount"`
	TotalAmount   float64         `json:"totalAmount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Status        invoices.Status `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	Archived      bool            `json:"archived"`
}

func toResponse(e Entry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		MonthLabel:    e.MonthLabel,
		Date:          dates.Format(e.Date),
		CashFlowMode:  e.CashFlowMode,
		CashFlowType:  e.CashFlowType,
		Name:          e.Name,
		SiteOfWork:    e.SiteOfWork,
		InvoiceNumber: e.InvoiceNumber,
		AmountExclTax: e.AmountExclTax,
		TaxAmount:     e.TaxAmount,
		TotalAmount:   e.TotalAmount,
		Currency:      e.Currency,
		PaymentMethod: e.PaymentMethod,
		Status:        e.Status,
		Notes:         e.Notes,
		Archived:      e.Archived(),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRequest{
		Status:          invoices.Status(r.URL.Query().Get("status")),
		IncludeArchived: r.URL.Query().Get("archived") == "true",
	}
	if req.Status != "" && !req.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	list, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list payroll entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(list))

	out := make([]entryResponse, 0, pagination.PerPage)
	for _, e := range paginate(list, pagination) {
		out = append(out, toResponse(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries": out,
		"pagination": map[string]int{
			"page":       pagination.Page,
			"perPage":    pagination.PerPage,
			"total":      pagination.Total,
			"totalPages": pagination.TotalPages,
		},
	})
}

func paginate(list []Entry, p shared.Pagination) []Entry {
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
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry id")
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*e))
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry id")
		return
	}
	e, err := h.service.Archive(r.Context(), id)
	if err != nil {
		h.logger.Error("archive payroll entry", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*e))
}
