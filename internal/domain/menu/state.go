package menu

import (
	"fmt"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// State is the menu store: the built tree and the active node id.
// It is a plain value; the shell store clones it per batch.
type State struct {
	Tree     []types.MenuNode
	ActiveID string
}

// Merge builds items and merges them into the tree by node id. Nodes with a
// known id are replaced in place (children merged recursively), unknown ids
// are appended. Merging the same items again yields a deep-equal tree.
// A merge that would duplicate an id elsewhere in the tree is rejected and
// leaves the state untouched.
func (s *State) Merge(items []types.NavItem) error {
	merged := mergeNodes(Clone(s.Tree), Build(items))

	seen := make(map[string]struct{})
	var dup string
	Walk(merged, func(node, _ *types.MenuNode) {
		if _, ok := seen[node.ID]; ok && dup == "" {
			dup = node.ID
		}
		seen[node.ID] = struct{}{}
	})
	if dup != "" {
		return fmt.Errorf("%w: %s", ErrDuplicateID, dup)
	}

	s.Tree = merged
	if _, ok := seen[s.ActiveID]; !ok {
		s.ActiveID = ""
	}
	return nil
}

func mergeNodes(existing, incoming []types.MenuNode) []types.MenuNode {
	for _, in := range incoming {
		idx := indexOf(existing, in.ID)
		if idx < 0 {
			existing = append(existing, in)
			continue
		}
		in.Children = mergeNodes(existing[idx].Children, in.Children)
		existing[idx] = in
	}
	return existing
}

func indexOf(nodes []types.MenuNode, id string) int {
	for i := range nodes {
		if nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByPath returns the first node whose path equals path
func (s *State) FindByPath(path string) (types.MenuNode, bool) {
	return Find(s.Tree, path)
}

// SetActive marks id active. Unknown ids leave the state unchanged and
// report false.
func (s *State) SetActive(id string) bool {
	if _, ok := FindByID(s.Tree, id); !ok {
		return false
	}
	s.ActiveID = id
	return true
}

// Active returns the active node
func (s *State) Active() (types.MenuNode, bool) {
	if s.ActiveID == "" {
		return types.MenuNode{}, false
	}
	return FindByID(s.Tree, s.ActiveID)
}

// Clone deep-copies the state
func (s State) Clone() State {
	return State{Tree: Clone(s.Tree), ActiveID: s.ActiveID}
}
