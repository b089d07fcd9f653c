// Package cart models the shopping cart and its persistence scoping. Carts
// are namespaced per scope: one for the anonymous session, one per
// authenticated identity.
package cart

import "shopfolio/internal/ledger"

// GuestScope is the namespace for the anonymous session's cart.
const GuestScope = "guest"

// Scope is a cart namespace: GuestScope or a user id.
type Scope string

// ScopeFor returns the scope for a user id, or the guest scope for "".
func ScopeFor(userID string) Scope {
	if userID == "" {
		return GuestScope
	}
	return Scope(userID)
}

// Key derives the local persistence key for this scope. Centralized here so
// scope-switch logic never concatenates strings ad hoc.
func (s Scope) Key() string {
	return "cart_" + string(s)
}

// LineItem is one product entry. ProductRef is unique within a cart; repeated
// adds increment Quantity instead of inserting a duplicate.
type LineItem struct {
	ProductRef string       `json:"productRef"`
	Name       string       `json:"name"`
	UnitPrice  ledger.Cents `json:"unitPrice"`
	Quantity   int          `json:"quantity"`
}

// Total is the exact sum of unit price times quantity over all line items.
func Total(items []LineItem) ledger.Cents {
	var total ledger.Cents
	for _, it := range items {
		total += it.UnitPrice * ledger.Cents(it.Quantity)
	}
	return total
}

// Count is the sum of quantities over all line items.
func Count(items []LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
