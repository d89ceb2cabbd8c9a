package aggregates

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"contrastboard/domain/config"
	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/validators"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/events"
	"contrastboard/domain/history"
)

// BoardID represents a unique board identifier
type BoardID string

// DefaultBoardID names the board that exists at start
const DefaultBoardID BoardID = "default"

// NewBoardID creates a new random BoardID
func NewBoardID() BoardID {
	return BoardID(uuid.New().String())
}

// String returns the string representation
func (id BoardID) String() string {
	return string(id)
}

// NodeSpec describes a node inserted with explicit attributes
type NodeSpec struct {
	// ID is generated from the board's strategy when zero
	ID       valueobjects.NodeID
	Position valueobjects.Position
	// Spawn ignores Position and picks a random point in the spawn area
	Spawn bool
	Color valueobjects.HexColor
	// Title defaults to "<prefix> <n>" when empty
	Title  string
	Record bool
}

type keySet = orderedmap.OrderedMap[entities.ConnectionKey, struct{}]

// Board is the aggregate root owning the node and connection collections.
// Every exported mutation leaves the board referentially consistent.
//
// The per-node connection view is an incidence index maintained in the
// same step as the global set, rather than a list stored on each node.
type Board struct {
	id          BoardID
	cfg         *config.DomainConfig
	nodes       *orderedmap.OrderedMap[valueobjects.NodeID, *entities.Node]
	connections *orderedmap.OrderedMap[entities.ConnectionKey, entities.Connection]
	incidence   map[valueobjects.NodeID]*keySet
	nodeCount   int
	recorder    history.Recorder
	rng         *rand.Rand
	now         func() time.Time
	version     int
	events      []events.DomainEvent
}

// BoardOption configures a Board
type BoardOption func(*Board)

// WithRecorder routes undo records to r
func WithRecorder(r history.Recorder) BoardOption {
	return func(b *Board) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRand overrides the source used for spawn positions
func WithRand(rng *rand.Rand) BoardOption {
	return func(b *Board) {
		if rng != nil {
			b.rng = rng
		}
	}
}

// NewBoard creates an empty board
func NewBoard(id BoardID, cfg *config.DomainConfig, opts ...BoardOption) *Board {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	b := &Board{
		id:          id,
		cfg:         cfg,
		nodes:       orderedmap.New[valueobjects.NodeID, *entities.Node](),
		connections: orderedmap.New[entities.ConnectionKey, entities.Connection](),
		incidence:   make(map[valueobjects.NodeID]*keySet),
		recorder:    history.Discard,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the board's unique identifier
func (b *Board) ID() BoardID {
	return b.id
}

// Version counts observable mutations
func (b *Board) Version() int {
	return b.version
}

// Config returns the domain settings the board was built with
func (b *Board) Config() *config.DomainConfig {
	return b.cfg
}

// Node mutations

// AddNode inserts a node at a random spawn position with the placeholder
// color and records AddNode
func (b *Board) AddNode() valueobjects.NodeID {
	id, _ := b.AddNodeWith(NodeSpec{Spawn: true, Record: true})
	return id
}

// AddNodeWith inserts a node with explicit attributes. It reports false
// when the requested id is already taken.
func (b *Board) AddNodeWith(spec NodeSpec) (valueobjects.NodeID, bool) {
	id := spec.ID
	title := spec.Title
	consumed := id.IsZero() || title == ""
	if id.IsZero() {
		id = b.nextID()
	}
	if _, exists := b.nodes.Get(id); exists {
		return valueobjects.NodeID{}, false
	}
	if title == "" {
		title = fmt.Sprintf("%s %d", b.cfg.DefaultTitlePrefix, b.nodeCount)
	}
	if consumed {
		b.nodeCount++
	}

	position := spec.Position
	if spec.Spawn {
		area := b.cfg.SpawnAreaSize
		position = valueobjects.Position{X: b.rng.Float64() * area, Y: b.rng.Float64() * area}
	}
	color := spec.Color
	if color.IsZero() {
		color = b.defaultColor()
	}
	node := entities.NewNode(id, position, color, title)
	b.insertNode(node)
	if spec.Record {
		b.recorder.Push(history.AddNode{NodeID: id})
	}

	b.addEvent(events.NewNodeAdded(b.id.String(), b.bump(), id, node.Color(), spec.Record, b.now()))
	return id, true
}

// RemoveNode removes a node together with every connection incident to
// it. Unknown ids are a no-op. With recordUndo the node and its
// connections are snapshotted before anything is touched.
func (b *Board) RemoveNode(id valueobjects.NodeID, recordUndo bool) bool {
	node, ok := b.nodes.Get(id)
	if !ok {
		return false
	}
	if recordUndo {
		b.recorder.Push(history.RemoveNode{Snapshot: node.Snapshot(b.ConnectionsOf(id))})
	}

	removed := 0
	if keys, ok := b.incidence[id]; ok {
		for pair := keys.Oldest(); pair != nil; pair = pair.Next() {
			conn, _ := b.connections.Get(pair.Key)
			if other, ok := b.incidence[conn.Other(id)]; ok {
				other.Delete(pair.Key)
			}
			b.connections.Delete(pair.Key)
			removed++
		}
	}
	delete(b.incidence, id)
	b.nodes.Delete(id)

	b.addEvent(events.NewNodeRemoved(b.id.String(), b.bump(), id, removed, recordUndo, b.now()))
	return true
}

// MoveNode repositions a node; position is never undo-tracked
func (b *Board) MoveNode(id valueobjects.NodeID, position valueobjects.Position) bool {
	node, ok := b.nodes.Get(id)
	if !ok {
		return false
	}
	old := node.Position()
	if !node.MoveTo(position) {
		return false
	}
	b.addEvent(events.NewNodeMoved(b.id.String(), b.bump(), id, old, position, b.now()))
	return true
}

// RenameNode changes a node's title; titles are never undo-tracked
func (b *Board) RenameNode(id valueobjects.NodeID, title string) bool {
	node, ok := b.nodes.Get(id)
	if !ok {
		return false
	}
	old := node.Title()
	if !node.Rename(title) {
		return false
	}
	b.addEvent(events.NewNodeRenamed(b.id.String(), b.bump(), id, old, title, b.now()))
	return true
}

// ChangeColor sets a node's displayed color. Previews (recordUndo unset)
// may show transient partial hex. A commit of anything but #RRGGBB falls
// back to the last valid color and records nothing. A ChangeColor record
// is pushed only when recordUndo is set, oldColor is valid hex and differs
// from the new value, so continuous previews stay out of history.
func (b *Board) ChangeColor(id valueobjects.NodeID, newColor string, recordUndo bool, oldColor *string) bool {
	node, ok := b.nodes.Get(id)
	if !ok {
		return false
	}
	previous := node.Color()
	if recordUndo && !valueobjects.IsCanonicalHex(newColor) {
		if !node.RevertToLastValid() {
			return false
		}
		b.addEvent(events.NewNodeRecolored(b.id.String(), b.bump(), id, previous, node.Color(), false, b.now()))
		return true
	}
	changed := node.SetColor(newColor)

	recorded := false
	if recordUndo && oldColor != nil && valueobjects.IsCanonicalHex(*oldColor) {
		old := valueobjects.MustHexColor(*oldColor).String()
		if !strings.EqualFold(old, node.Color()) {
			b.recorder.Push(history.ChangeColor{NodeID: id, OldColor: old, NewColor: node.Color()})
			recorded = true
		}
	}
	if changed || recorded {
		b.addEvent(events.NewNodeRecolored(b.id.String(), b.bump(), id, previous, node.Color(), recorded, b.now()))
	}
	return changed || recorded
}

// RevertInvalidColor restores a node's last valid color when its displayed
// color is a partial edit
func (b *Board) RevertInvalidColor(id valueobjects.NodeID) bool {
	node, ok := b.nodes.Get(id)
	if !ok {
		return false
	}
	previous := node.Color()
	if !node.RevertToLastValid() {
		return false
	}
	b.addEvent(events.NewNodeRecolored(b.id.String(), b.bump(), id, previous, node.Color(), false, b.now()))
	return true
}

// Connection mutations

// AddConnection connects two distinct existing nodes. Self-loops, unknown
// endpoints and pairs already connected in either order are a no-op.
func (b *Board) AddConnection(fromID, toID valueobjects.NodeID, recordUndo bool) bool {
	if !b.connect(fromID, toID) {
		return false
	}
	if recordUndo {
		b.recorder.Push(history.AddConnection{FromID: fromID, ToID: toID})
	}
	b.addEvent(events.NewNodesConnected(b.id.String(), b.bump(), fromID, toID, recordUndo, b.now()))
	return true
}

// RemoveConnection removes a live connection. Nil or absent connections
// are a no-op.
func (b *Board) RemoveConnection(conn *entities.Connection, recordUndo bool) bool {
	if conn == nil {
		return false
	}
	stored, ok := b.connections.Get(conn.Key())
	if !ok {
		return false
	}
	if recordUndo {
		b.recorder.Push(history.RemoveConnection{FromID: stored.FromID, ToID: stored.ToID})
	}
	b.disconnect(stored)
	b.addEvent(events.NewNodesDisconnected(b.id.String(), b.bump(), stored.FromID, stored.ToID, recordUndo, b.now()))
	return true
}

// FindConnection looks a pair up in either order
func (b *Board) FindConnection(a, c valueobjects.NodeID) (entities.Connection, bool) {
	return b.connections.Get(entities.KeyOf(a, c))
}

// DisconnectPair removes whatever connection joins a and c, without
// recording
func (b *Board) DisconnectPair(a, c valueobjects.NodeID) bool {
	conn, ok := b.FindConnection(a, c)
	if !ok {
		return false
	}
	return b.RemoveConnection(&conn, false)
}

// Bulk mutations

// ClearBoard snapshots every node with its incident connections, records
// one ClearBoard and empties the board. An empty board records nothing.
func (b *Board) ClearBoard() bool {
	if b.nodes.Len() == 0 {
		return false
	}
	snapshots := b.Nodes()
	b.recorder.Push(history.ClearBoard{Snapshots: snapshots})

	nodeCount, connCount := b.nodes.Len(), b.connections.Len()
	b.nodes = orderedmap.New[valueobjects.NodeID, *entities.Node]()
	b.connections = orderedmap.New[entities.ConnectionKey, entities.Connection]()
	b.incidence = make(map[valueobjects.NodeID]*keySet)

	b.addEvent(events.NewBoardCleared(b.id.String(), b.bump(), nodeCount, connCount, b.now()))
	return true
}

// Undo targets

// RestoreNode recreates a removed node and re-adds each snapshot
// connection whose other endpoint still exists and whose pair is not
// already connected
func (b *Board) RestoreNode(snapshot entities.NodeSnapshot) bool {
	changed := false
	if _, exists := b.nodes.Get(snapshot.ID); !exists {
		b.insertNode(snapshot.Restore())
		changed = true
	}

	restored := 0
	for _, conn := range snapshot.Connections {
		if b.connect(conn.FromID, conn.ToID) {
			restored++
		}
	}
	if !changed && restored == 0 {
		return false
	}

	b.addEvent(events.NewNodeRestored(b.id.String(), b.bump(), snapshot.ID, restored, b.now()))
	return true
}

// RestoreBoard recreates every snapshotted node with no connections, then
// replays the union of all snapshot connection lists, inserting each
// unordered pair once
func (b *Board) RestoreBoard(snapshots []entities.NodeSnapshot) bool {
	nodesRestored := 0
	for _, snap := range snapshots {
		if _, exists := b.nodes.Get(snap.ID); exists {
			continue
		}
		b.insertNode(snap.Restore())
		nodesRestored++
	}

	seen := make(map[entities.ConnectionKey]struct{})
	connsRestored := 0
	for _, snap := range snapshots {
		for _, conn := range snap.Connections {
			key := conn.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if b.connect(conn.FromID, conn.ToID) {
				connsRestored++
			}
		}
	}
	if nodesRestored == 0 && connsRestored == 0 {
		return false
	}

	b.addEvent(events.NewBoardRestored(b.id.String(), b.bump(), nodesRestored, connsRestored, b.now()))
	return true
}

// Queries

// Node returns a deep copy of one node with its incident connections
func (b *Board) Node(id valueobjects.NodeID) (entities.NodeSnapshot, bool) {
	node, ok := b.nodes.Get(id)
	if !ok {
		return entities.NodeSnapshot{}, false
	}
	return node.Snapshot(b.ConnectionsOf(id)), true
}

// HasNode checks if a node exists on the board
func (b *Board) HasNode(id valueobjects.NodeID) bool {
	_, ok := b.nodes.Get(id)
	return ok
}

// NodeCount returns the number of nodes
func (b *Board) NodeCount() int {
	return b.nodes.Len()
}

// ConnectionCount returns the number of connections
func (b *Board) ConnectionCount() int {
	return b.connections.Len()
}

// NodeIDs lists node ids in insertion order
func (b *Board) NodeIDs() []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, b.nodes.Len())
	for pair := b.nodes.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Nodes returns deep copies of every node in insertion order
func (b *Board) Nodes() []entities.NodeSnapshot {
	out := make([]entities.NodeSnapshot, 0, b.nodes.Len())
	for pair := b.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Snapshot(b.ConnectionsOf(pair.Key)))
	}
	return out
}

// Connections lists every connection in insertion order
func (b *Board) Connections() []entities.Connection {
	out := make([]entities.Connection, 0, b.connections.Len())
	for pair := b.connections.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// ConnectionsOf is the derived local connection list of a node
func (b *Board) ConnectionsOf(id valueobjects.NodeID) []entities.Connection {
	keys, ok := b.incidence[id]
	if !ok {
		return []entities.Connection{}
	}
	out := make([]entities.Connection, 0, keys.Len())
	for pair := keys.Oldest(); pair != nil; pair = pair.Next() {
		if conn, ok := b.connections.Get(pair.Key); ok {
			out = append(out, conn)
		}
	}
	return out
}

// Neighbours lists the ids connected to id
func (b *Board) Neighbours(id valueobjects.NodeID) []valueobjects.NodeID {
	conns := b.ConnectionsOf(id)
	out := make([]valueobjects.NodeID, len(conns))
	for i, c := range conns {
		out[i] = c.Other(id)
	}
	return out
}

// HasColor reports whether any node displays color, ignoring case
func (b *Board) HasColor(color string) bool {
	for pair := b.nodes.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Value.Color(), color) {
			return true
		}
	}
	return false
}

// Validate ensures the board's invariants hold
func (b *Board) Validate() error {
	return validators.CheckConsistency(b)
}

// GetUncommittedEvents returns all uncommitted domain events
func (b *Board) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(b.events))
	copy(out, b.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (b *Board) MarkEventsAsCommitted() {
	b.events = nil
}

// Private helper methods

func (b *Board) insertNode(node *entities.Node) {
	b.nodes.Set(node.ID(), node)
	if _, ok := b.incidence[node.ID()]; !ok {
		b.incidence[node.ID()] = orderedmap.New[entities.ConnectionKey, struct{}]()
	}
}

// connect inserts the pair into the global set and both incidence entries
func (b *Board) connect(fromID, toID valueobjects.NodeID) bool {
	if fromID.Equals(toID) || !b.HasNode(fromID) || !b.HasNode(toID) {
		return false
	}
	key := entities.KeyOf(fromID, toID)
	if _, exists := b.connections.Get(key); exists {
		return false
	}
	b.connections.Set(key, entities.NewConnection(fromID, toID))
	b.incidence[fromID].Set(key, struct{}{})
	b.incidence[toID].Set(key, struct{}{})
	return true
}

func (b *Board) disconnect(conn entities.Connection) {
	key := conn.Key()
	b.connections.Delete(key)
	for _, end := range []valueobjects.NodeID{conn.FromID, conn.ToID} {
		if keys, ok := b.incidence[end]; ok {
			keys.Delete(key)
		}
	}
}

func (b *Board) nextID() valueobjects.NodeID {
	if b.cfg.IDStrategy == config.IDStrategyUUID {
		return valueobjects.NewNodeID()
	}
	for {
		id := valueobjects.NewSequentialNodeID(b.nodeCount)
		if _, taken := b.nodes.Get(id); !taken {
			return id
		}
		b.nodeCount++
	}
}

func (b *Board) defaultColor() valueobjects.HexColor {
	if c, err := valueobjects.ParseHexColor(b.cfg.DefaultNodeColor); err == nil {
		return c
	}
	return valueobjects.White
}

func (b *Board) bump() int {
	b.version++
	return b.version
}

func (b *Board) addEvent(event events.DomainEvent) {
	b.events = append(b.events, event)
}
