package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumberFormat(t *testing.T) {
	day := time.Date(2025, 6, 3, 14, 22, 0, 0, time.UTC)

	assert.Equal(t, "INV-20250603-00001", invoiceNumber(day, 1))
	assert.Equal(t, "INV-20250603-00003", invoiceNumber(day, 3))
	assert.Equal(t, "INV-20250603-12345", invoiceNumber(day, 12345))
}

func TestInvoiceNumberScopedToDay(t *testing.T) {
	// The sequence restarts per calendar day; the same position on another
	// day yields the same suffix with a different date.
	dayOne := time.Date(2025, 6, 3, 23, 59, 0, 0, time.UTC)
	dayTwo := time.Date(2025, 6, 4, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, "INV-20250603-00003", invoiceNumber(dayOne, 3))
	assert.Equal(t, "INV-20250604-00003", invoiceNumber(dayTwo, 3))
}
