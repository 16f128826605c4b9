// Package menu builds the hierarchical side menu and holds its state.
//
// The builder is a pure projection of the navigation descriptor: it keeps
// id, title, icon, path and nesting, derives level and parentId from the
// position in the tree, and drops everything else (meta, name).
//
// Tree Invariants:
//   - level(child) = level(parent) + 1, level 1 at the top
//   - parentId(child) = id(parent), empty at the top
//   - ids are unique across the whole tree
//
// State:
//   - Merge: idempotent merge of a descriptor into the current tree
//   - FindByPath: depth-first, first exact path match
//   - SetActive: exactly one active id; unknown ids are ignored
//
// Example Usage:
//
//	var st menu.State
//	_ = st.Merge(items)
//	if node, ok := st.FindByPath("/user/user-list"); ok {
//	    st.SetActive(node.ID)
//	}
package menu
