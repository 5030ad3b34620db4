// Package live maintains the websocket over which a youwol backend streams
// context messages.
//
// A Conn is shared by every client of a backend. Run keeps it connected,
// reconnecting with a fixed delay after the server drops it, until its
// context is canceled. Subscribers receive the messages matching a Filter.
package live
