// Package notify fans coordinator outcomes out to interested parties.
//
// Outcomes are converted to Notice values and published on an in-process Bus.
// A Forwarder subscribed to the bus relays them to a NATS subject so other
// tools can follow operator activity. The bus is not durable; the journal
// package keeps the persistent record.
package notify
