package app

import (
	"github.com/google/uuid"

	"shopfolio/internal/ledger"
	"shopfolio/internal/storage/kv"
	dErrors "shopfolio/pkg/domain-errors"
)

// AddTransaction prepends a new entry with a fresh id and persists the
// ledger. The date defaults to today when omitted.
func (c *Controller) AddTransaction(fields ledger.Transaction) (ledger.Transaction, error) {
	if err := fields.Validate(); err != nil {
		return ledger.Transaction{}, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fields.ID = uuid.NewString()
	if fields.Date == "" {
		fields.Date = c.clock().Format(ledger.DateLayout)
	}
	c.transactions = append([]ledger.Transaction{fields}, c.transactions...)
	kv.Set(c.store, keyLedger, c.transactions)
	return fields, nil
}

// DeleteTransaction removes the entry with the given id and persists.
// Deleting an absent id is a no-op.
func (c *Controller) DeleteTransaction(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.transactions[:0]
	for _, t := range c.transactions {
		if t.ID != id {
			out = append(out, t)
		}
	}
	c.transactions = out
	kv.Set(c.store, keyLedger, c.transactions)
}

// ClearLedger empties the ledger and persists.
func (c *Controller) ClearLedger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = nil
	kv.Set(c.store, keyLedger, c.transactions)
}

// Transactions returns a copy of the ledger, newest first.
func (c *Controller) Transactions() []ledger.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ledger.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// LedgerSummary folds the ledger into the dashboard headline numbers.
func (c *Controller) LedgerSummary() ledger.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ledger.Summarize(c.transactions)
}
