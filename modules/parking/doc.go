// Package parking implements the vehicle transaction lifecycle and the
// parking area occupancy ledger.
//
// A transaction is created in the "parked" state when a vehicle enters and
// moves to "completed" exactly once when it exits. The occupancy counter of
// the chosen area is adjusted in the same store transaction as the row
// mutation, so the ledger can never drift from the transaction log.
//
// Every committed mutation is published as a ChangeEvent on the broadcaster
// supplied to the storage, which downstream consumers (the realtime
// aggregator) treat as their single source of truth.
package parking
