package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"respos-api/errs"
	"respos-api/models"
	"respos-api/realtime"
)

// CartLine is one unsubmitted selection. Lines exist only in the acting
// employee's session until submit.
type CartLine struct {
	ID         int                 `json:"id"` // session-local line id
	MenuItemID uint                `json:"menu_item_id"`
	VariantID  *uint               `json:"variant_id,omitempty"`
	Properties models.PropertyList `json:"properties,omitempty"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  float64             `json:"unit_price"`
	Name       string              `json:"name"`
	Notes      string              `json:"notes,omitempty"`
}

// LineTotal is the line's display total.
func (l *CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// mergeKey identifies selections that collapse into one line. Policy:
// identical (menu item, variant, property set, notes) tuples merge with
// summed quantity, so "add 3" yields one line ×3, not three lines ×1.
// Differing notes intentionally split lines: "no onions" is a different
// kitchen instruction.
func (l *CartLine) mergeKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", l.MenuItemID)
	if l.VariantID != nil {
		fmt.Fprintf(&b, "v%d", *l.VariantID)
	}
	ids := make([]uint, 0, len(l.Properties))
	for _, p := range l.Properties {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(&b, "|p%d", id)
	}
	b.WriteString("|" + l.Notes)
	return b.String()
}

// Cart accumulates lines in memory. All access goes through the owning
// session's mutex.
type Cart struct {
	lines  []CartLine
	nextID int
}

func newCart() *Cart {
	return &Cart{nextID: 1}
}

func (c *Cart) add(line CartLine) {
	key := line.mergeKey()
	for i := range c.lines {
		if c.lines[i].mergeKey() == key {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	line.ID = c.nextID
	c.nextID++
	c.lines = append(c.lines, line)
}

// AddToCartInput is the client's selection; the price is never taken from
// the client, it is derived from the catalog rows here.
type AddToCartInput struct {
	MenuItemID  uint
	VariantID   *uint
	PropertyIDs []uint
	Quantity    int
	Notes       string
}

// AddToCart prices the selection against the catalog and merges it into
// the session cart.
func (e *Engine) AddToCart(ctx context.Context, emp *models.Employee, in AddToCartInput) ([]CartLine, error) {
	const op = "engine.AddToCart"
	if err := require(op, emp, models.PermOrders); err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, errs.Validation(op, errors.New("quantity must be positive"))
	}

	menuItem, err := e.store.GetMenuItem(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !menuItem.IsAvailable {
		return nil, errs.Validation(op, fmt.Errorf("menu item %q is not available", menuItem.Name))
	}

	unit := menuItem.Price
	name := menuItem.Name
	if in.VariantID != nil {
		found := false
		for _, v := range menuItem.Variants {
			if v.ID == *in.VariantID {
				unit += v.PriceAdjustment
				name = name + " (" + v.Name + ")"
				found = true
				break
			}
		}
		if !found {
			return nil, errs.Validation(op, fmt.Errorf("variant %d does not belong to menu item %d", *in.VariantID, in.MenuItemID))
		}
	}
	var props models.PropertyList
	for _, id := range in.PropertyIDs {
		found := false
		for _, p := range menuItem.Properties {
			if p.ID == id {
				props = append(props, models.Property{ID: p.ID, Name: p.Name, Price: p.Price})
				unit += p.Price
				found = true
				break
			}
		}
		if !found {
			return nil, errs.Validation(op, fmt.Errorf("property %d does not belong to menu item %d", id, in.MenuItemID))
		}
	}

	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.add(CartLine{
		MenuItemID: in.MenuItemID,
		VariantID:  in.VariantID,
		Properties: props,
		Quantity:   in.Quantity,
		UnitPrice:  unit,
		Name:       name,
		Notes:      in.Notes,
	})
	return snapshot(s.cart), nil
}

// UpdateCartQuantity sets a line's quantity; zero removes the line.
func (e *Engine) UpdateCartQuantity(emp *models.Employee, lineID, quantity int) ([]CartLine, error) {
	const op = "engine.UpdateCartQuantity"
	if err := require(op, emp, models.PermOrders); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, errs.Validation(op, errors.New("quantity must not be negative"))
	}
	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart.lines {
		if s.cart.lines[i].ID == lineID {
			if quantity == 0 {
				s.cart.lines = append(s.cart.lines[:i], s.cart.lines[i+1:]...)
			} else {
				s.cart.lines[i].Quantity = quantity
			}
			return snapshot(s.cart), nil
		}
	}
	return nil, errs.Validation(op, fmt.Errorf("no cart line %d", lineID))
}

// RemoveCartLine deletes one line.
func (e *Engine) RemoveCartLine(emp *models.Employee, lineID int) ([]CartLine, error) {
	return e.UpdateCartQuantity(emp, lineID, 0)
}

// ClearCart empties the session cart.
func (e *Engine) ClearCart(emp *models.Employee) {
	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = newCart()
}

// CartView returns a copy of the cart lines for display.
func (e *Engine) CartView(emp *models.Employee) []CartLine {
	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.cart)
}

func snapshot(c *Cart) []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// SelectTable points the session at a table. Switching with a non-empty
// cart is rejected so staged lines never end up against the wrong table;
// the cart is retained.
func (e *Engine) SelectTable(emp *models.Employee, tableID uint) error {
	const op = "engine.SelectTable"
	if err := require(op, emp, models.PermOrders); err != nil {
		return err
	}
	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tableID != 0 && s.tableID != tableID && len(s.cart.lines) > 0 {
		return errs.Validation(op, fmt.Errorf("cart has %d unsubmitted lines for table %d; submit or clear first", len(s.cart.lines), s.tableID))
	}
	s.tableID = tableID
	return nil
}

// SubmitCart turns the staged lines into order items against the selected
// table. If the table has no active order, one is created — atomically
// occupying the table; the loser of a same-table race gets an
// InvariantViolation and keeps its cart. Appending to an existing order
// sends one creation call per line; on partial failure the cart retains
// exactly the unsent remainder for retry. The cart empties exactly once
// per fully successful submit.
func (e *Engine) SubmitCart(ctx context.Context, emp *models.Employee, guests int) (*models.Order, error) {
	const op = "engine.SubmitCart"
	if err := require(op, emp, models.PermOrders); err != nil {
		return nil, err
	}
	s := e.SessionFor(emp.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tableID == 0 {
		return nil, errs.Validation(op, errors.New("no table selected"))
	}
	if len(s.cart.lines) == 0 {
		return nil, errs.Validation(op, errors.New("cart is empty"))
	}
	for _, l := range s.cart.lines {
		if l.Quantity <= 0 {
			return nil, errs.Validation(op, fmt.Errorf("line %q has zero quantity", l.Name))
		}
	}

	active, err := e.store.ActiveOrderForTable(ctx, s.tableID)
	switch {
	case err == nil:
		return e.appendToOrder(ctx, emp, s, active)
	case errors.Is(err, errs.ErrNotFound):
		return e.openOrder(ctx, emp, s, guests)
	default:
		return nil, err
	}
}

func toOrderItem(l CartLine) models.OrderItem {
	return models.OrderItem{
		MenuItemID: l.MenuItemID,
		VariantID:  l.VariantID,
		Properties: l.Properties,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		Name:       l.Name,
		Notes:      l.Notes,
		Status:     models.ItemPending,
	}
}

// openOrder creates the order with every cart line in one atomic write.
func (e *Engine) openOrder(ctx context.Context, emp *models.Employee, s *Session, guests int) (*models.Order, error) {
	items := make([]models.OrderItem, len(s.cart.lines))
	for i, l := range s.cart.lines {
		items[i] = toOrderItem(l)
	}
	if guests < 1 {
		guests = 1
	}
	tableID := s.tableID
	order := &models.Order{
		TableID:     &tableID,
		OrderNumber: newOrderNumber(),
		Status:      models.OrderOpen,
		Guests:      guests,
		OpenedByID:  emp.ID,
	}
	if err := e.store.CreateOrder(ctx, order, items); err != nil {
		// Cart retained; the caller is told to refresh, not retried.
		return nil, err
	}
	s.cart = newCart()

	e.publish(realtime.EventInsert, realtime.CollectionOrders, order.ID)
	e.publish(realtime.EventUpdate, realtime.CollectionTables, tableID)
	return e.syncOrder(ctx, order.ID, emp.ID)
}

// appendToOrder sends one creation call per line so a mid-batch failure
// leaves the cart holding only the unsent remainder.
func (e *Engine) appendToOrder(ctx context.Context, emp *models.Employee, s *Session, order *models.Order) (*models.Order, error) {
	const op = "engine.SubmitCart"
	if order.Status == models.OrderVoidPending {
		return nil, errs.Invariant(op, fmt.Errorf("order %s is frozen pending void approval", order.OrderNumber))
	}
	if order.Status.Terminal() {
		return nil, errs.Invariant(op, fmt.Errorf("order %s is %s", order.OrderNumber, order.Status))
	}

	for len(s.cart.lines) > 0 {
		batch := []models.OrderItem{toOrderItem(s.cart.lines[0])}
		if err := e.store.AddOrderItems(ctx, order.ID, batch); err != nil {
			// Persisted lines are already off the cart and announced; the
			// failed line and everything after it stay for retry. Silent
			// partial loss is the one thing this path must never do.
			return nil, err
		}
		s.cart.lines = s.cart.lines[1:]
		// order_items events carry the item row id, same as the kitchen
		// transitions.
		e.publish(realtime.EventInsert, realtime.CollectionOrderItems, batch[0].ID)
	}
	s.cart = newCart()

	return e.syncOrder(ctx, order.ID, emp.ID)
}
