package pricing

// =============================================================================
// FLAT-RATE STRATEGY
// Legacy pricing path: fixed per-page rates regardless of freelancer tier
// =============================================================================

// Per-page rates for the flat path. The technical premium here (+70) is
// larger than the tier engine's (+20); the two paths disagree on purpose and
// must not be unified, since live orders were paid out under each.
const (
	flatPageRate          = 200
	flatTechnicalPageRate = 270
)

// flatTechnicalKeywords is the flat path's classification list. Kept separate
// from the tier-based list; the two are maintained independently.
var flatTechnicalKeywords = []string{
	"excel",
	"spss",
	"stata",
	"python",
	"programming",
	"powerpoint",
	"presentation",
	"data analysis",
	"technical",
	"coding",
	"jasp",
	"jamovi",
}

// FlatRateStrategy implements Strategy with the legacy fixed per-page rates.
type FlatRateStrategy struct{}

// Model returns the pricing model identifier.
func (s *FlatRateStrategy) Model() Model {
	return ModelFlat
}

// Technical classifies a work-type label against the flat keyword list.
func (s *FlatRateStrategy) Technical(workType string) bool {
	return matchesAny(workType, flatTechnicalKeywords)
}

// Quote prices pages at the flat rate and slides at the shared slide rate.
func (s *FlatRateStrategy) Quote(in QuoteInput) Quote {
	pages := clampCount(in.Pages)
	slides := clampCount(in.Slides)

	technical := s.Technical(in.WorkType)
	rate := float64(flatPageRate)
	if technical {
		rate = flatTechnicalPageRate
	}

	amount := roundToCents(float64(pages)*rate + float64(slides)*slideRate)

	return Quote{
		FreelancerAmount: amount,
		PageRate:         rate,
		Technical:        technical,
	}
}
