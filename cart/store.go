// Package cart holds the customer's pending order: a tenant-scoped list of
// lines that survives reloads through a pluggable Storage.
package cart

import (
	"log"
	"sync"
)

// Namespace is the storage key every adapter persists under.
const Namespace = "dijital-vitrin-cart"

// State is the persisted part of a cart.
type State struct {
	Items        []Item `json:"items"`
	ActiveTenant string `json:"activeTenant,omitempty"`
}

func (s State) clone() State {
	out := State{ActiveTenant: s.ActiveTenant, Items: make([]Item, len(s.Items))}
	for i, it := range s.Items {
		it.SelectedAttributes = it.SelectedAttributes.clone()
		if it.Product.SalePrice != nil {
			sp := *it.Product.SalePrice
			it.Product.SalePrice = &sp
		}
		out.Items[i] = it
	}
	return out
}

// Storage persists cart state between sessions. Load returns the zero State
// and a nil error when nothing has been stored yet.
type Storage interface {
	Load() (State, error)
	Save(State) error
}

// Store is the cart state container. The in-memory state is authoritative;
// a failed Save is logged and the mutation still applies.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage Storage
}

// New rehydrates a Store from storage. A nil storage means memory only.
// Unreadable persisted state is logged and replaced by an empty cart.
func New(storage Storage) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{storage: storage, state: State{Items: []Item{}}}

	loaded, err := storage.Load()
	if err != nil {
		log.Printf("⚠️ cart: discarding unreadable persisted cart: %v", err)
		return s
	}
	if loaded.Items == nil {
		loaded.Items = []Item{}
	}
	s.state = loaded
	if dropped := s.dropInvalidLines(); dropped > 0 {
		log.Printf("⚠️ cart: dropped %d invalid persisted line(s)", dropped)
		s.persist()
	}
	return s
}

// validLine reports whether a persisted line is usable. It needs an id,
// a quantity of at least one and non-negative prices.
func validLine(it Item) bool {
	if it.Product.ID == "" || it.Quantity < 1 || it.Product.Price < 0 {
		return false
	}
	return it.Product.SalePrice == nil || *it.Product.SalePrice >= 0
}

func (s *Store) dropInvalidLines() int {
	kept := s.state.Items[:0:0]
	for _, it := range s.state.Items {
		if validLine(it) {
			kept = append(kept, it)
		}
	}
	dropped := len(s.state.Items) - len(kept)
	if dropped > 0 {
		s.state.Items = kept
	}
	return dropped
}

// Reprice replaces the product of every line with lookup's current copy,
// keeping quantity and selection. Lines whose product lookup does not know
// are dropped. It reports whether the cart changed.
func (s *Store) Reprice(lookup func(productID string) (Product, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	kept := s.state.Items[:0:0]
	for _, it := range s.state.Items {
		current, ok := lookup(it.Product.ID)
		if !ok {
			changed = true
			continue
		}
		if !sameProduct(it.Product, current) {
			it.Product = current
			changed = true
		}
		kept = append(kept, it)
	}
	if changed {
		s.state.Items = kept
		s.persist()
	}
	return changed
}

func sameProduct(a, b Product) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Price != b.Price || a.ImageURL != b.ImageURL {
		return false
	}
	if a.SalePrice == nil || b.SalePrice == nil {
		return a.SalePrice == b.SalePrice
	}
	return *a.SalePrice == *b.SalePrice
}

func (s *Store) persist() {
	if err := s.storage.Save(s.state.clone()); err != nil {
		log.Printf("⚠️ cart: failed to persist cart: %v", err)
	}
}

// AddItem merges quantity into the line with the same product and
// selection, or appends a new line. Quantity is not clamped here.
func (s *Store) AddItem(p Product, quantity int, attrs Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey(p.ID, attrs)
	for i := range s.state.Items {
		if s.state.Items[i].LineKey() == key {
			s.state.Items[i].Quantity += quantity
			s.persist()
			return
		}
	}
	s.state.Items = append(s.state.Items, Item{
		Product:            p,
		Quantity:           quantity,
		SelectedAttributes: attrs.clone(),
	})
	s.persist()
}

// UpdateQuantity sets the quantity of the first line for productID.
// A quantity of zero or less removes every line for that product.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].Product.ID == productID {
			s.state.Items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// UpdateLineQuantity is UpdateQuantity addressed by the full line identity.
func (s *Store) UpdateLineQuantity(productID string, attrs Selection, quantity int) {
	if quantity <= 0 {
		s.RemoveLine(productID, attrs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := lineKey(productID, attrs)
	for i := range s.state.Items {
		if s.state.Items[i].LineKey() == key {
			s.state.Items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// RemoveItem drops every line for productID regardless of selection.
func (s *Store) RemoveItem(productID string) {
	s.removeWhere(func(it Item) bool { return it.Product.ID == productID })
}

// RemoveLine drops the single line matching product and selection.
func (s *Store) RemoveLine(productID string, attrs Selection) {
	key := lineKey(productID, attrs)
	s.removeWhere(func(it Item) bool { return it.LineKey() == key })
}

func (s *Store) removeWhere(match func(Item) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Items[:0:0]
	for _, it := range s.state.Items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.state.Items) {
		return
	}
	s.state.Items = kept
	s.persist()
}

// ClearCart empties the cart. The active tenant is kept.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = []Item{}
	s.persist()
}

// SetTenantID binds the cart to a storefront. Moving to a different tenant
// discards the previous tenant's lines; the same tenant is a no-op.
func (s *Store) SetTenantID(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ActiveTenant == tenantID {
		return
	}
	s.state.ActiveTenant = tenantID
	s.state.Items = []Item{}
	s.persist()
}

// ActiveTenant returns the tenant the cart is bound to, or "".
func (s *Store) ActiveTenant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveTenant
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, it := range s.state.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, it := range s.state.Items {
		total += it.Product.UnitPrice() * float64(it.Quantity)
	}
	return roundMoney(total)
}

// ItemCount is the quantity of the first line for productID, or 0.
func (s *Store) ItemCount(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.state.Items {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone().Items
}

// State returns a copy of the full persisted state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items) == 0
}
