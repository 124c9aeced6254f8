package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anasalharbi/penmarket/internal/pricing"
	"github.com/anasalharbi/penmarket/pkg/middleware"
	"github.com/anasalharbi/penmarket/pkg/response"
)

// Handler handles HTTP requests for order operations
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for order endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/quote", h.Quote)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/quote", h.QuoteByID)

	return r
}

// GetByID handles GET /orders/{id}
// @Summary      Get order by ID
// @Description  Get a single order by its ID
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} response.APIResponse{data=OrderResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /orders/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	o, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get order")
		return
	}

	response.JSON(w, http.StatusOK, o.ToResponse())
}

// List handles GET /orders
// @Summary      List my orders
// @Description  Get a paginated list of the acting client's orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]OrderResponse}
// @Router       /orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetActorID(r.Context())
	if !ok {
		clientID = 1
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	orders, total, err := h.service.ListByClientID(r.Context(), clientID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list orders")
		return
	}

	orderResponses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		orderResponses[i] = o.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, orderResponses, meta)
}

// Quote handles POST /orders/quote
// @Summary      Quote ad-hoc order input
// @Description  Preview the settlement split and minimum-price check for order input that has not been saved yet
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body QuoteRequest true "Quote request"
// @Success      200 {object} response.APIResponse{data=QuoteResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /orders/quote [post]
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownModel) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute quote")
		return
	}

	response.JSON(w, http.StatusOK, quote)
}

// QuoteByID handles POST /orders/{id}/quote
// @Summary      Quote an existing order
// @Description  Preview the settlement split for an order as it currently stands
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} response.APIResponse{data=QuoteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /orders/{id}/quote [post]
func (h *Handler) QuoteByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	quote, err := h.service.QuoteByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, pricing.ErrUnknownModel) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute quote")
		return
	}

	response.JSON(w, http.StatusOK, quote)
}
