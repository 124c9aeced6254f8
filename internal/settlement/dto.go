package settlement

import "github.com/anasalharbi/penmarket/internal/pricing"

// ConfirmPaymentRequest represents the confirm/fail command body
type ConfirmPaymentRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ConfirmPaymentResponse represents the result of a confirmation command
type ConfirmPaymentResponse struct {
	Status  Outcome          `json:"status"`
	Split   *pricing.Split   `json:"split,omitempty"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

// PaymentResponse represents a payment
type PaymentResponse struct {
	ID          string        `json:"id"`
	OrderID     int64         `json:"order_id"`
	ClientID    int64         `json:"client_id"`
	Amount      float64       `json:"amount"`
	Method      string        `json:"method"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   string        `json:"created_at"`
	ConfirmedAt *string       `json:"confirmed_at,omitempty"`
}

// InvoiceResponse represents an invoice
type InvoiceResponse struct {
	ID               string  `json:"id"`
	Number           string  `json:"number"`
	OrderID          int64   `json:"order_id"`
	ClientID         int64   `json:"client_id"`
	ClientAmount     float64 `json:"client_amount"`
	FreelancerAmount float64 `json:"freelancer_amount"`
	ManagerAmount    float64 `json:"manager_amount"`
	PlatformMargin   float64 `json:"platform_margin"`
	Paid             bool    `json:"paid"`
	CreatedAt        string  `json:"created_at"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:        p.ID.String(),
		OrderID:   p.OrderID,
		ClientID:  p.ClientID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.ConfirmedAt != nil {
		v := p.ConfirmedAt.Format("2006-01-02T15:04:05Z")
		resp.ConfirmedAt = &v
	}
	return resp
}

// ToResponse converts an Invoice model to an InvoiceResponse DTO
func (i *Invoice) ToResponse() *InvoiceResponse {
	return &InvoiceResponse{
		ID:               i.ID.String(),
		Number:           i.Number,
		OrderID:          i.OrderID,
		ClientID:         i.ClientID,
		ClientAmount:     i.ClientAmount,
		FreelancerAmount: i.FreelancerAmount,
		ManagerAmount:    i.ManagerAmount,
		PlatformMargin:   i.PlatformMargin,
		Paid:             i.Paid,
		CreatedAt:        i.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToConfirmResponse converts a Result to the API response shape
func (r *Result) ToConfirmResponse() *ConfirmPaymentResponse {
	resp := &ConfirmPaymentResponse{
		Status: r.Status,
		Split:  r.Split,
	}
	if r.Invoice != nil {
		resp.Invoice = r.Invoice.ToResponse()
	}
	return resp
}
