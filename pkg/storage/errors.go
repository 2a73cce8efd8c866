package storage

import "errors"

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when a session ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// ErrClaimLost is returned when a waiting session was claimed or withdrawn by someone else first.
var ErrClaimLost = errors.New("session is no longer claimable")

// ErrSessionConflict is returned when a conditional write on a session fails because its state moved on.
var ErrSessionConflict = errors.New("session state changed concurrently")

// ErrRequestNotFound is returned when a ledger entry does not exist.
var ErrRequestNotFound = errors.New("request not found")

// ErrRequestExists is returned when a ledger entry is inserted twice.
var ErrRequestExists = errors.New("request already exists")

// ErrLedgerFull is returned when a session already holds the maximum number of requests.
var ErrLedgerFull = errors.New("request ledger is full")

// ErrMessageExists is returned when a message ID is reused.
var ErrMessageExists = errors.New("message already exists")

// ErrItemNotFound is returned when an item does not exist.
var ErrItemNotFound = errors.New("item not found")

// ErrOwnershipChanged is returned when an item is no longer owned by the expected user.
var ErrOwnershipChanged = errors.New("item ownership changed")

// ErrProfileNotFound is returned when a user has no profile.
var ErrProfileNotFound = errors.New("profile not found")
