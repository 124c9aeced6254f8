package order

import "github.com/anasalharbi/penmarket/internal/pricing"

// QuoteRequest carries ad-hoc pricing input for a preview
type QuoteRequest struct {
	Pages           int     `json:"pages"`
	Slides          int     `json:"slides"`
	WorkType        string  `json:"work_type"`
	PricingModel    string  `json:"pricing_model,omitempty"` // defaults to FLAT
	CompletedOrders int     `json:"completed_orders,omitempty"`
	ClientAmount    float64 `json:"client_amount,omitempty"`
	Assigned        bool    `json:"assigned,omitempty"`
	Submitted       bool    `json:"submitted,omitempty"`
}

// QuoteResponse is the computed preview of an order's settlement economics
type QuoteResponse struct {
	PricingModel string               `json:"pricing_model"`
	Quote        pricing.Quote        `json:"quote"`
	Split        pricing.Split        `json:"split"`
	MinimumPrice pricing.MinimumCheck `json:"minimum_price"`
}

// OrderResponse represents the response for an order
type OrderResponse struct {
	ID           int64    `json:"id"`
	ClientID     int64    `json:"client_id"`
	FreelancerID *int64   `json:"freelancer_id,omitempty"`
	Title        string   `json:"title"`
	WorkType     string   `json:"work_type"`
	Pages        int      `json:"pages"`
	Slides       int      `json:"slides"`
	PricingModel string   `json:"pricing_model"`
	ClientAmount *float64 `json:"client_amount,omitempty"`
	Submitted    bool     `json:"submitted"`
	Status       Status   `json:"status"`
	CreatedAt    string   `json:"created_at"`
}

// ToResponse converts an Order model to an OrderResponse DTO
func (o *Order) ToResponse() *OrderResponse {
	return &OrderResponse{
		ID:           o.ID,
		ClientID:     o.ClientID,
		FreelancerID: o.FreelancerID,
		Title:        o.Title,
		WorkType:     o.WorkType,
		Pages:        o.Pages,
		Slides:       o.Slides,
		PricingModel: o.PricingModel,
		ClientAmount: o.ClientAmount,
		Submitted:    o.Submitted,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
