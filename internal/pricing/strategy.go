// Package pricing holds the order financial computation: the freelancer tier
// engine, the two coexisting freelancer pricing strategies, manager fees and
// the platform margin. Everything here is pure and safe for concurrent use;
// amounts are clamped rather than rejected so the same functions can serve
// quote previews over incomplete input.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Model identifies which freelancer pricing path an order uses.
type Model string

const (
	// ModelFlat is the legacy flat-rate path (200/270 per page).
	ModelFlat Model = "FLAT"
	// ModelTiered prices pages from the freelancer's experience tier.
	ModelTiered Model = "TIERED"
)

// slideRate is the per-slide rate, shared by both strategies and independent
// of the technical flag.
const slideRate = 100

// QuoteInput carries the order attributes a strategy prices from.
type QuoteInput struct {
	Pages           int
	Slides          int
	WorkType        string
	CompletedOrders int // only consulted by the tier-based strategy
}

// Quote is a strategy's pricing of an order for the freelancer side.
type Quote struct {
	FreelancerAmount float64 `json:"freelancer_amount"`
	PageRate         float64 `json:"page_rate"`
	Technical        bool    `json:"technical"`
	Tier             *Tier   `json:"tier,omitempty"`
}

// Strategy is the interface both pricing paths implement.
type Strategy interface {
	// Quote prices the freelancer side of an order. Total: negative counts
	// clamp to zero and no input is rejected.
	Quote(in QuoteInput) Quote

	// Technical classifies a work-type label against the strategy's own
	// keyword list. The two strategies keep separately maintained lists.
	Technical(workType string) bool

	// Model returns the identifier for this strategy.
	Model() Model
}

// Factory creates pricing strategies based on the requested model.
type Factory struct{}

// NewStrategyFactory creates a new factory instance.
func NewStrategyFactory() *Factory {
	return &Factory{}
}

// ErrUnknownModel is returned for a pricing model no strategy implements.
var ErrUnknownModel = errors.New("unknown pricing model")

// Create returns the strategy implementation for the given model.
func (f *Factory) Create(model Model) (Strategy, error) {
	switch model {
	case ModelFlat:
		return &FlatRateStrategy{}, nil
	case ModelTiered:
		return &TierBasedStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
}

// CreateFromString creates a strategy from a string model (useful when the
// model comes straight off an order row or an API request).
func (f *Factory) CreateFromString(model string) (Strategy, error) {
	return f.Create(Model(model))
}

// roundToCents rounds a currency amount half-up at the cent.
func roundToCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// clampCount floors page/slide counts at zero.
func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// matchesAny reports whether the label contains any of the keywords,
// case-insensitively.
func matchesAny(label string, keywords []string) bool {
	lower := strings.ToLower(label)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
