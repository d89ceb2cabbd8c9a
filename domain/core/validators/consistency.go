package validators

import (
	"fmt"
	"strings"

	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/valueobjects"
)

// GraphView is the read side of a board needed to check its invariants
type GraphView interface {
	NodeIDs() []valueobjects.NodeID
	Connections() []entities.Connection
	ConnectionsOf(id valueobjects.NodeID) []entities.Connection
}

// ConsistencyError lists every violated invariant found in one pass
type ConsistencyError struct {
	Violations []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("graph inconsistent: %s", strings.Join(e.Violations, "; "))
}

// CheckConsistency verifies that every connection joins two distinct
// existing nodes, that no pair is connected twice, and that each node's
// local connection view equals the global connections incident to it.
func CheckConsistency(g GraphView) error {
	var violations []string

	nodes := make(map[valueobjects.NodeID]bool)
	for _, id := range g.NodeIDs() {
		if nodes[id] {
			violations = append(violations, fmt.Sprintf("node %s listed twice", id))
		}
		nodes[id] = true
	}

	incident := make(map[valueobjects.NodeID]map[entities.ConnectionKey]bool)
	seen := make(map[entities.ConnectionKey]bool)
	for _, c := range g.Connections() {
		key := c.Key()
		if c.IsLoop() {
			violations = append(violations, fmt.Sprintf("connection %s is a self-loop", key))
		}
		if seen[key] {
			violations = append(violations, fmt.Sprintf("connection %s is duplicated", key))
		}
		seen[key] = true
		for _, end := range []valueobjects.NodeID{c.FromID, c.ToID} {
			if !nodes[end] {
				violations = append(violations, fmt.Sprintf("connection %s references missing node %s", key, end))
			}
			if incident[end] == nil {
				incident[end] = make(map[entities.ConnectionKey]bool)
			}
			incident[end][key] = true
		}
	}

	for id := range nodes {
		local := g.ConnectionsOf(id)
		localKeys := make(map[entities.ConnectionKey]bool, len(local))
		for _, c := range local {
			if !c.Touches(id) {
				violations = append(violations, fmt.Sprintf("node %s lists foreign connection %s", id, c.Key()))
			}
			if localKeys[c.Key()] {
				violations = append(violations, fmt.Sprintf("node %s lists connection %s twice", id, c.Key()))
			}
			localKeys[c.Key()] = true
			if !seen[c.Key()] {
				violations = append(violations, fmt.Sprintf("node %s lists connection %s missing from the global set", id, c.Key()))
			}
		}
		for key := range incident[id] {
			if !localKeys[key] {
				violations = append(violations, fmt.Sprintf("node %s does not list incident connection %s", id, key))
			}
		}
	}

	if len(violations) > 0 {
		return &ConsistencyError{Violations: violations}
	}
	return nil
}
