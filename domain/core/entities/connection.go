package entities

import "contrastboard/domain/core/valueobjects"

// Connection is an undirected edge between two distinct nodes
type Connection struct {
	FromID valueobjects.NodeID `json:"fromId"`
	ToID   valueobjects.NodeID `json:"toId"`
}

// ConnectionKey identifies a connection regardless of endpoint order
type ConnectionKey struct {
	Low  valueobjects.NodeID
	High valueobjects.NodeID
}

// NewConnection pairs two endpoints in the order given
func NewConnection(fromID, toID valueobjects.NodeID) Connection {
	return Connection{FromID: fromID, ToID: toID}
}

// KeyOf builds the sorted-pair key for two endpoints
func KeyOf(a, b valueobjects.NodeID) ConnectionKey {
	if b.Less(a) {
		a, b = b, a
	}
	return ConnectionKey{Low: a, High: b}
}

// Key returns the unordered identity of the connection
func (c Connection) Key() ConnectionKey {
	return KeyOf(c.FromID, c.ToID)
}

// IsLoop reports a self-connection, which the board never stores
func (c Connection) IsLoop() bool {
	return c.FromID.Equals(c.ToID)
}

// Touches reports whether id is one of the endpoints
func (c Connection) Touches(id valueobjects.NodeID) bool {
	return c.FromID.Equals(id) || c.ToID.Equals(id)
}

// Other returns the endpoint opposite to id
func (c Connection) Other(id valueobjects.NodeID) valueobjects.NodeID {
	if c.FromID.Equals(id) {
		return c.ToID
	}
	return c.FromID
}

// Equivalent compares connections as unordered pairs
func (c Connection) Equivalent(other Connection) bool {
	return c.Key() == other.Key()
}

// String renders the key as "low|high"
func (k ConnectionKey) String() string {
	return k.Low.String() + "|" + k.High.String()
}
