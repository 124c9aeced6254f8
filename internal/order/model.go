package order

import "time"

// Status represents the order lifecycle state. Only the transition into
// COMPLETED (driven by payment confirmation) belongs to this service; the
// rest of the lifecycle is managed by the wider marketplace application.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitted  Status = "SUBMITTED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Order represents a marketplace order as settlement sees it: sizing,
// work-type classification input, pricing path and payment capture.
type Order struct {
	ID           int64     `json:"id"`
	ClientID     int64     `json:"client_id"`
	FreelancerID *int64    `json:"freelancer_id,omitempty"`
	Title        string    `json:"title"`
	WorkType     string    `json:"work_type"`
	Pages        int       `json:"pages"`
	Slides       int       `json:"slides"`
	PricingModel string    `json:"pricing_model"` // FLAT or TIERED
	ClientAmount *float64  `json:"client_amount,omitempty"` // set once payment is captured
	Submitted    bool      `json:"submitted"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Assigned reports whether a freelancer was ever assigned to the order.
func (o *Order) Assigned() bool {
	return o.FreelancerID != nil
}
