// Package connid mints a short opaque id for a single client connection, so
// the event loop's log lines for one request/response exchange can be
// correlated without threading a request counter through every call. Grounded
// on the teacher's pkg/job/id.go use of go.jetify.com/typeid for job ids;
// here it labels a connection instead of a queue entry, since queue ids must
// be the plain strictly-increasing uint64 the spec's invariants require.
package connid

import "go.jetify.com/typeid"

// Prefix gives minted ids the "conn_" prefix typeid renders them with.
type Prefix struct{}

// Prefix returns "conn".
func (Prefix) Prefix() string { return "conn" }

// ID is a connection correlation id.
type ID struct {
	typeid.TypeID[Prefix]
}

// New mints a fresh ID.
func New() (ID, error) {
	return typeid.New[ID]()
}
