package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anasalharbi/penmarket/pkg/middleware"
	"github.com/anasalharbi/penmarket/pkg/response"
)

// Handler handles HTTP requests for payment and invoice operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PaymentRoutes returns the router for payment endpoints
func (h *Handler) PaymentRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetPayment)
	r.Post("/{id}/confirm", h.Confirm)

	return r
}

// InvoiceRoutes returns the router for invoice endpoints
func (h *Handler) InvoiceRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListInvoices)
	r.Get("/{id}", h.GetInvoice)

	return r
}

// Confirm handles POST /payments/{id}/confirm
// @Summary      Confirm or fail a payment
// @Description  Apply the settlement for a confirmed payment, or mark it failed. Re-confirming a confirmed payment returns the stored result.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Param        request body ConfirmPaymentRequest true "Confirmation command"
// @Success      200 {object} response.APIResponse{data=ConfirmPaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /payments/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		actorID = 1
	}

	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), id, req.Confirmed, actorID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) || errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrInvalidStateTransition) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to process payment confirmation")
		return
	}

	response.JSON(w, http.StatusOK, result.ToConfirmResponse())
}

// GetPayment handles GET /payments/{id}
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /payments/{id} [get]
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	p, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get payment")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// GetInvoice handles GET /invoices/{id}
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /invoices/{id} [get]
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.NotFound(w, "invoice not found")
			return
		}
		response.InternalError(w, "Failed to get invoice")
		return
	}

	response.JSON(w, http.StatusOK, invoice.ToResponse())
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]InvoiceResponse}
// @Router       /invoices [get]
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	invoices, total, err := h.service.ListInvoices(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list invoices")
		return
	}

	invoiceResponses := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		invoiceResponses[i] = inv.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, invoiceResponses, meta)
}
