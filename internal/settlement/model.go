package settlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/anasalharbi/penmarket/internal/pricing"
)

// PaymentStatus represents the status of a client payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment represents a client payment awaiting confirmation. CONFIRMED and
// FAILED are terminal; the PENDING→CONFIRMED transition triggers settlement
// exactly once.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	OrderID     int64         `json:"order_id"`
	ClientID    int64         `json:"client_id"`
	Amount      float64       `json:"amount"`
	Method      string        `json:"method"` // e.g. CARD, MPESA, PAYPAL
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty"`
}

// Invoice is the ledger row created exactly once per confirmed payment. It is
// never mutated after creation except for the paid flag, flipped by the
// downstream payout step.
type Invoice struct {
	ID               uuid.UUID `json:"id"`
	Number           string    `json:"number"` // INV-YYYYMMDD-NNNNN
	OrderID          int64     `json:"order_id"`
	ClientID         int64     `json:"client_id"`
	ClientAmount     float64   `json:"client_amount"`
	FreelancerAmount float64   `json:"freelancer_amount"`
	ManagerAmount    float64   `json:"manager_amount"`
	PlatformMargin   float64   `json:"platform_margin"`
	Paid             bool      `json:"paid"`
	CreatedAt        time.Time `json:"created_at"`
}

// Split reconstructs the settlement split recorded on the invoice.
func (i *Invoice) Split() pricing.Split {
	return pricing.Split{
		ClientAmount:     i.ClientAmount,
		FreelancerAmount: i.FreelancerAmount,
		ManagerAmount:    i.ManagerAmount,
		PlatformMargin:   i.PlatformMargin,
	}
}

// Outcome is the caller-facing result of a confirmation command
type Outcome string

const (
	OutcomeConfirmed        Outcome = "confirmed"
	OutcomeFailed           Outcome = "failed"
	OutcomeAlreadyConfirmed Outcome = "already-confirmed"
)

// Result is what ConfirmPayment returns. Split and Invoice are set on the
// confirmed and already-confirmed outcomes.
type Result struct {
	Status  Outcome        `json:"status"`
	Split   *pricing.Split `json:"split,omitempty"`
	Invoice *Invoice       `json:"invoice,omitempty"`
}
