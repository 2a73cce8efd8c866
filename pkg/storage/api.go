package storage

// ApiStore defines the complete set of operations needed by the trade service.
// It composes other interfaces to provide a clear boundary for its data access.
type ApiStore interface {
	SessionStore
	LedgerStore
	MessageStore
	ReadMarkerStore
	SettlementStore
	OwnershipStore
	ProfileReader
}
