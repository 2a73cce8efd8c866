package models

var transitions = map[SessionStatus][]SessionStatus{
	WAITING:     {NEGOTIATING, CANCELLED},
	NEGOTIATING: {COMPLETED, CANCELLED},
}

// CanTransition reports whether a session may move from one status to another.
func CanTransition(from, to SessionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s SessionStatus) IsTerminal() bool {
	return s == COMPLETED || s == CANCELLED
}

// IsActive reports whether the session still accepts participant actions.
func (s SessionStatus) IsActive() bool {
	return s == WAITING || s == NEGOTIATING
}
