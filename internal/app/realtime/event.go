/*
Package realtime implements the push channel delivering newly inserted rows
to subscribed clients.

Writers publish an InsertEvent per created row; the Hub fans each event out
to every subscriber whose table and column filter match. Between the two
sits a NATS bridge, so fan-out survives the write happening in a different
process than the subscriber's connection.
*/
package realtime

import "encoding/json"

// SubjectPrefix is the NATS subject namespace for insert events.
const SubjectPrefix = "realtime"

// InsertEvent describes one newly inserted row.
type InsertEvent struct {
	// Table names the source table (users, visits, friends, messages,
	// room_messages).
	Table string `json:"table"`

	// Record is the inserted row as JSON.
	Record json.RawMessage `json:"record"`
}

// Subject returns the NATS subject the event is published on.
func (e InsertEvent) Subject() string {
	return SubjectPrefix + "." + e.Table
}

// MatchesFilter reports whether the event's record has the given column
// equal to the given value. An empty column matches every record of the
// table. Filters compare against string-typed columns only, which covers
// the id columns subscriptions actually filter on.
func (e InsertEvent) MatchesFilter(column, value string) bool {
	if column == "" {
		return true
	}

	var record map[string]any
	if err := json.Unmarshal(e.Record, &record); err != nil {
		return false
	}

	got, ok := record[column].(string)
	return ok && got == value
}

// Feed is the write side of the push channel. Handlers publish one event
// per inserted row; failures are logged by the caller and never surfaced
// to the user whose write succeeded.
type Feed interface {
	Publish(ev InsertEvent) error
}
