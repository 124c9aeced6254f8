package settlement

import (
	"fmt"
	"time"
)

// invoiceNumber formats the human-readable invoice number: the confirmation
// date plus a 1-indexed, zero-padded sequence over that calendar day.
func invoiceNumber(day time.Time, daySequence int) string {
	return fmt.Sprintf("INV-%s-%05d", day.Format("20060102"), daySequence)
}
