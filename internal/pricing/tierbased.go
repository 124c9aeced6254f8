package pricing

// =============================================================================
// TIER-BASED STRATEGY
// Newer pricing path: per-page rate follows the freelancer's experience tier
// =============================================================================

// tierTechnicalKeywords is the tier path's classification list. Shorter than
// the flat path's list; kept separate on purpose.
var tierTechnicalKeywords = []string{
	"spss",
	"stata",
	"python",
	"excel",
	"data analysis",
	"programming",
	"technical",
}

// TierBasedStrategy implements Strategy with rates from the tier engine.
type TierBasedStrategy struct{}

// Model returns the pricing model identifier.
func (s *TierBasedStrategy) Model() Model {
	return ModelTiered
}

// Technical classifies a work-type label against the tier keyword list.
func (s *TierBasedStrategy) Technical(workType string) bool {
	return matchesAny(workType, tierTechnicalKeywords)
}

// Quote prices pages at the freelancer's tier rate and slides at the shared
// slide rate.
func (s *TierBasedStrategy) Quote(in QuoteInput) Quote {
	pages := clampCount(in.Pages)
	slides := clampCount(in.Slides)

	technical := s.Technical(in.WorkType)
	tier := TierFor(in.CompletedOrders)
	rate := tier.Rate(technical)

	amount := roundToCents(float64(pages)*rate + float64(slides)*slideRate)

	return Quote{
		FreelancerAmount: amount,
		PageRate:         rate,
		Technical:        technical,
		Tier:             &tier,
	}
}
