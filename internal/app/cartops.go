package app

import (
	"context"
	"encoding/json"

	"shopfolio/internal/cart"
	"shopfolio/internal/catalog"
	"shopfolio/internal/docstore"
	"shopfolio/internal/ledger"
	"shopfolio/internal/storage/kv"
)

// AddToCart adds one unit of product: an existing line item gains quantity,
// otherwise a new line item is appended.
func (c *Controller) AddToCart(product catalog.Product) {
	c.mu.Lock()
	found := false
	for i := range c.cartItems {
		if c.cartItems[i].ProductRef == product.ID {
			c.cartItems[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		c.cartItems = append(c.cartItems, cart.LineItem{
			ProductRef: product.ID,
			Name:       product.Name,
			UnitPrice:  product.Price,
			Quantity:   1,
		})
	}
	c.persistCartLocked()
	snapshot := c.cartSnapshotLocked()
	c.mu.Unlock()

	c.mirrorCart(snapshot)
}

// RemoveFromCart deletes the line item for productRef. No-op when absent.
func (c *Controller) RemoveFromCart(productRef string) {
	c.mu.Lock()
	c.removeLocked(productRef)
	c.persistCartLocked()
	snapshot := c.cartSnapshotLocked()
	c.mu.Unlock()

	c.mirrorCart(snapshot)
}

// UpdateQuantity sets the line item's quantity. Zero or negative means
// remove; a stored quantity never observably drops to zero or below.
func (c *Controller) UpdateQuantity(productRef string, quantity int) {
	c.mu.Lock()
	if quantity <= 0 {
		c.removeLocked(productRef)
	} else {
		for i := range c.cartItems {
			if c.cartItems[i].ProductRef == productRef {
				c.cartItems[i].Quantity = quantity
				break
			}
		}
	}
	c.persistCartLocked()
	snapshot := c.cartSnapshotLocked()
	c.mu.Unlock()

	c.mirrorCart(snapshot)
}

// ClearCart empties the active cart.
func (c *Controller) ClearCart() {
	c.mu.Lock()
	c.cartItems = nil
	c.persistCartLocked()
	snapshot := c.cartSnapshotLocked()
	c.mu.Unlock()

	c.mirrorCart(snapshot)
}

// CartItems returns a copy of the active cart's line items.
func (c *Controller) CartItems() []cart.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cartSnapshotLocked()
}

// CartTotal is the exact sum of unit price times quantity.
func (c *Controller) CartTotal() ledger.Cents {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cart.Total(c.cartItems)
}

// CartItemCount is the sum of quantities.
func (c *Controller) CartItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cart.Count(c.cartItems)
}

func (c *Controller) removeLocked(productRef string) {
	out := c.cartItems[:0]
	for _, it := range c.cartItems {
		if it.ProductRef != productRef {
			out = append(out, it)
		}
	}
	c.cartItems = out
}

func (c *Controller) persistCartLocked() {
	kv.Set(c.store, c.scope.Key(), c.cartItems)
}

func (c *Controller) cartSnapshotLocked() []cart.LineItem {
	out := make([]cart.LineItem, len(c.cartItems))
	copy(out, c.cartItems)
	return out
}

// switchScopeLocked swaps the active cart to the scope's persisted copy and
// drops any remote subscription tied to the previous scope. Guest cart
// contents stay untouched under the guest key; scopes never merge.
func (c *Controller) switchScopeLocked(scope cart.Scope) {
	if c.unsubCart != nil {
		c.unsubCart()
		c.unsubCart = nil
	}
	c.scope = scope
	c.cartItems = kv.Get(c.store, scope.Key(), []cart.LineItem(nil))
}

// subscribeRemoteCart attaches the remote-wins subscription for an
// authenticated scope: the first remote emission overrides the locally
// loaded copy.
func (c *Controller) subscribeRemoteCart(scope cart.Scope, userID string) {
	if c.docs == nil || scope == cart.GuestScope {
		return
	}
	unsub, err := c.docs.Subscribe(context.Background(), cartCollection, userID, func(doc docstore.Document) {
		c.onRemoteCart(scope, doc)
	})
	if err != nil {
		c.log.Error("cart subscription failed", "scope", string(scope), "error", err)
		return
	}

	c.mu.Lock()
	if c.scope != scope {
		// Scope moved on while we were subscribing.
		c.mu.Unlock()
		unsub()
		return
	}
	if c.unsubCart != nil {
		c.unsubCart()
	}
	c.unsubCart = unsub
	c.mu.Unlock()
}

func (c *Controller) onRemoteCart(scope cart.Scope, doc docstore.Document) {
	items, ok := cartItemsFromDocument(doc)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope != scope {
		return
	}
	c.cartItems = items
	c.persistCartLocked()
}

// mirrorCart merge-writes the full cart array to the identity's document.
// Best effort: failures are logged and the local copy is never rolled back.
func (c *Controller) mirrorCart(items []cart.LineItem) {
	c.mu.Lock()
	docs := c.docs
	authenticated := c.authenticated
	scope := c.scope
	var userID string
	if c.user != nil {
		userID = c.user.ID
	}
	c.mu.Unlock()

	if docs == nil || !authenticated || scope == cart.GuestScope || userID == "" {
		return
	}
	err := docs.UpsertMerge(context.Background(), cartCollection, userID, docstore.Document{
		"items": items,
	})
	if err != nil {
		c.log.Warn("cart mirror write failed", "scope", string(scope), "error", err)
		c.metrics.CartSyncs.WithLabelValues("failure").Inc()
		return
	}
	c.metrics.CartSyncs.WithLabelValues("success").Inc()
}

// cartItemsFromDocument decodes the items field of a cart document. The
// round-trip through JSON normalizes both native slices and decoded
// map-shaped entries.
func cartItemsFromDocument(doc docstore.Document) ([]cart.LineItem, bool) {
	raw, ok := doc["items"]
	if !ok {
		return nil, false
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, false
	}
	var items []cart.LineItem
	if err := json.Unmarshal(encoded, &items); err != nil {
		return nil, false
	}
	return items, true
}
