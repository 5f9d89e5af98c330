package cart

// SnapshotItem is one line of an anonymized cart snapshot.
type SnapshotItem struct {
	ProductID  string            `json:"product_id"`
	Name       string            `json:"name"`
	Quantity   int               `json:"quantity"`
	UnitPrice  float64           `json:"unit_price"`
	Subtotal   float64           `json:"subtotal"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Snapshot is the cart content attached to analytics events. It carries no
// customer data.
type Snapshot struct {
	TenantID   string         `json:"tenant_id,omitempty"`
	Items      []SnapshotItem `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

// Snapshot captures the current cart for analytics.
func (s *Store) Snapshot() Snapshot {
	state := s.State()
	snap := Snapshot{
		TenantID: state.ActiveTenant,
		Items:    make([]SnapshotItem, 0, len(state.Items)),
	}
	total := 0.0
	for _, it := range state.Items {
		unit := it.Product.UnitPrice()
		snap.Items = append(snap.Items, SnapshotItem{
			ProductID:  it.Product.ID,
			Name:       it.Product.Name,
			Quantity:   it.Quantity,
			UnitPrice:  unit,
			Subtotal:   it.LineTotal(),
			Attributes: it.SelectedAttributes.Map(),
		})
		snap.TotalItems += it.Quantity
		total += unit * float64(it.Quantity)
	}
	snap.TotalPrice = roundMoney(total)
	return snap
}
