package pricing

// Minimum acceptable client charges. Used to reject underpriced orders before
// they reach settlement; never adjusts amounts.
const (
	minPageCharge          = 240
	minTechnicalPageCharge = 270
	minSlideCharge         = 150
)

// MinimumCheck reports whether an offered client charge clears the platform
// floor for the given order size.
type MinimumCheck struct {
	Minimum float64 `json:"minimum"`
	Offered float64 `json:"offered"`
	OK      bool    `json:"ok"`
}

// CheckMinimumPrice validates an offered client charge against the platform
// minimum. A precondition check, not a settlement function.
func CheckMinimumPrice(pages, slides int, technical bool, offered float64) MinimumCheck {
	pages = clampCount(pages)
	slides = clampCount(slides)

	perPage := float64(minPageCharge)
	if technical {
		perPage = minTechnicalPageCharge
	}

	minimum := roundToCents(float64(pages)*perPage + float64(slides)*minSlideCharge)

	return MinimumCheck{
		Minimum: minimum,
		Offered: offered,
		OK:      offered >= minimum,
	}
}
