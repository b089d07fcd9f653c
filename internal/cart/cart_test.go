package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopfolio/internal/ledger"
)

func TestScopeFor(t *testing.T) {
	assert.Equal(t, Scope(GuestScope), ScopeFor(""))
	assert.Equal(t, Scope("user-1"), ScopeFor("user-1"))
}

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "cart_guest", ScopeFor("").Key())
	assert.Equal(t, "cart_user-1", ScopeFor("user-1").Key())
}

func TestTotalIsExact(t *testing.T) {
	items := []LineItem{
		{ProductRef: "1", UnitPrice: 1299, Quantity: 2},
		{ProductRef: "2", UnitPrice: 300, Quantity: 1},
	}
	assert.Equal(t, ledger.Cents(2898), Total(items))
	assert.Equal(t, ledger.Cents(0), Total(nil))
}

func TestCount(t *testing.T) {
	items := []LineItem{
		{ProductRef: "1", Quantity: 2},
		{ProductRef: "2", Quantity: 3},
	}
	assert.Equal(t, 5, Count(items))
	assert.Equal(t, 0, Count(nil))
}
