/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/internal/server/identity.go
*/
package server

// Identity is the small owned record a connection keeps about the
// client on the other end: its peer address and any library name and
// version set via CLIENT SETINFO. It lives for the connection's
// lifetime, is mutated only by the goroutine that owns the connection,
// and is never shared with the dataspace or another connection — the
// same no-sharing, no-locking design as the teacher's per-connection
// Client struct (internal/common/client.go), reduced to the fields
// this spec actually needs (no transaction/watch state: MULTI/EXEC and
// WATCH are Non-goals here).
type Identity struct {
	PeerAddr   string
	LibName    string
	LibVersion string
}
