package pricing

// Manager fee constants. The assignment fee is credited once when a
// freelancer is assigned; the submission fee once when work is delivered.
const (
	managerAssignmentFee     = 10
	managerSubmissionBaseFee = 10
	managerPerExtraPageFee   = 5
)

// ManagerAmount computes the manager's total earnings for an order. Either
// fee may be zero if the corresponding event never occurred.
func ManagerAmount(pages int, assigned, submitted bool) float64 {
	pages = clampCount(pages)

	var total float64
	if assigned {
		total += managerAssignmentFee
	}
	if submitted {
		extra := pages - 1
		if extra < 0 {
			extra = 0
		}
		total += managerSubmissionBaseFee + managerPerExtraPageFee*float64(extra)
	}
	return total
}

// Split is the four-way division of a confirmed client payment.
type Split struct {
	ClientAmount     float64 `json:"client_amount"`
	FreelancerAmount float64 `json:"freelancer_amount"`
	ManagerAmount    float64 `json:"manager_amount"`
	PlatformMargin   float64 `json:"platform_margin"`
}

// NewSplit builds a split from a client payment and the two payout amounts.
// The margin floors at zero: the platform absorbs any shortfall rather than
// billing the client retroactively. Callers that care about a shortfall read
// it off Shortfall; it is never an error.
func NewSplit(clientAmount, freelancerAmount, managerAmount float64) Split {
	margin := roundToCents(clientAmount - freelancerAmount - managerAmount)
	if margin < 0 {
		margin = 0
	}
	return Split{
		ClientAmount:     roundToCents(clientAmount),
		FreelancerAmount: roundToCents(freelancerAmount),
		ManagerAmount:    roundToCents(managerAmount),
		PlatformMargin:   margin,
	}
}

// Shortfall returns how far the payouts exceed the client payment, or zero
// when the split is healthy. A positive shortfall marks a pricing anomaly
// worth logging.
func (s Split) Shortfall() float64 {
	raw := roundToCents(s.ClientAmount - s.FreelancerAmount - s.ManagerAmount)
	if raw < 0 {
		return -raw
	}
	return 0
}
