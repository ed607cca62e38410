package engine

import "sync"

// Session is the per-employee working state: the selected table and the
// unsubmitted cart. It is explicit, engine-owned state — not a package
// singleton — so concurrent sessions (several devices, several roles)
// never collide. A session survives a browser reload within the token
// lifetime; it is dropped on logout.
type Session struct {
	EmployeeID uint

	mu      sync.Mutex
	tableID uint // 0 means no table selected
	cart    *Cart
}

// SessionFor returns the employee's session, creating it on first use.
func (e *Engine) SessionFor(employeeID uint) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[employeeID]
	if !ok {
		s = &Session{EmployeeID: employeeID, cart: newCart()}
		e.sessions[employeeID] = s
	}
	return s
}

// DropSession discards the employee's session, cart included.
func (e *Engine) DropSession(employeeID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, employeeID)
}

// TableID returns the currently selected table, 0 if none.
func (s *Session) TableID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableID
}
