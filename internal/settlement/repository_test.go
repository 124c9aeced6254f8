package settlement

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateInvoiceMatchesLedgerKeyOnly(t *testing.T) {
	ledgerBreach := &pq.Error{
		Code:       pq.ErrorCode(pqUniqueViolation),
		Constraint: invoiceLedgerConstraint,
	}
	assert.True(t, isDuplicateInvoice(ledgerBreach))
	assert.True(t, isDuplicateInvoice(fmt.Errorf("insert: %w", ledgerBreach)))

	// A collision on the number index is a sequencing failure, not evidence
	// the payment was already settled.
	numberBreach := &pq.Error{
		Code:       pq.ErrorCode(pqUniqueViolation),
		Constraint: "invoices_number_key",
	}
	assert.False(t, isDuplicateInvoice(numberBreach))

	otherCode := &pq.Error{
		Code:       pq.ErrorCode("23503"),
		Constraint: invoiceLedgerConstraint,
	}
	assert.False(t, isDuplicateInvoice(otherCode))

	assert.False(t, isDuplicateInvoice(errors.New("connection reset")))
	assert.False(t, isDuplicateInvoice(nil))
}

func TestInvoiceDayLockKeyDistinctPerDay(t *testing.T) {
	dayOne := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	dayTwo := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	assert.NotEqual(t, invoiceDayLockKey(dayOne), invoiceDayLockKey(dayTwo))
	assert.Equal(t,
		invoiceDayLockKey(dayOne),
		invoiceDayLockKey(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)),
	)
}
