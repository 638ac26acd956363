// Package order contains the Order aggregate and its status state machine.
//
// An order moves through a fixed lifecycle:
//
//	pending ──> validated ──> paid ──> preparing ──> ready ──> in_transit ──> delivered
//	   │            │           │          │            │
//	   ├─> rejected └──────────── cancelled ────────────┘
//
// rejected, delivered, and cancelled are terminal. Every successful transition
// appends exactly one immutable TrackingUpdate entry; the aggregate exposes entries
// appended since restore so repositories can persist status change and audit row
// in the same transaction.
//
// Transition methods enforce their status guards and return a conflict error when
// the order has already moved on, which is how concurrent callers lose a race:
// the handler re-reads the row under a lock, calls the method, and surfaces the
// conflict without mutating anything.
package order
