// Package coordinator keeps local roster and attendance state consistent with
// the remote record service.
//
// A Coordinator owns three pieces of state: the roster cache (the full employee
// list, replaced wholesale on every successful refresh), the attendance cache
// (per-employee history, fetched lazily and replaced per fetch) and the
// operation tracker (roster-loading flag plus a single attendance-loading slot).
//
// Rules the coordinator enforces:
//   - Remote calls are never made while holding the state lock. State changes
//     happen in the completion of the operation that owns them.
//   - A failed operation leaves every cache exactly as it was.
//   - Mutations (add, remove, mark) never edit caches locally. Add and remove
//     are followed by a full refresh; mark requires an explicit fetch to be seen.
//   - Tracker markers are cleared on every exit path.
//
// The presentation layer reads state through Snapshot and receives operator
// notices through Observer callbacks.
package coordinator
