package menu

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

var (
	ErrDuplicateID    = errors.New("duplicate menu id")
	ErrLevelMismatch  = errors.New("declared level does not match nesting")
	ErrParentMismatch = errors.New("declared parentId does not match nesting")
)

// Validate checks a navigation descriptor before it enters the pipeline.
// Declared level and parentId are optional, but must agree with nesting when set.
func Validate(items []types.NavItem) error {
	for i := range items {
		if err := utils.ValidateStruct(items[i]); err != nil {
			return fmt.Errorf("menu item %q: %w", items[i].ID, err)
		}
	}
	return validateTree(items, 1, "", make(map[string]struct{}))
}

func validateTree(items []types.NavItem, level int, parentID string, seen map[string]struct{}) error {
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Level != 0 && item.Level != level {
			return fmt.Errorf("%w: %s declares %d, nested at %d", ErrLevelMismatch, item.ID, item.Level, level)
		}
		if item.ParentID != "" && item.ParentID != parentID {
			return fmt.Errorf("%w: %s declares %q, nested under %q", ErrParentMismatch, item.ID, item.ParentID, parentID)
		}

		if err := validateTree(item.Children, level+1, item.ID, seen); err != nil {
			return err
		}
	}
	return nil
}

// Build projects a navigation descriptor onto a normalized menu tree
func Build(items []types.NavItem) []types.MenuNode {
	return build(items, 1, "")
}

func build(items []types.NavItem, level int, parentID string) []types.MenuNode {
	if len(items) == 0 {
		return nil
	}

	nodes := make([]types.MenuNode, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.Meta.Title
		}
		nodes = append(nodes, types.MenuNode{
			ID:       item.ID,
			Title:    utils.PlainText(title),
			Icon:     item.Icon,
			Level:    level,
			Path:     item.Path,
			ParentID: parentID,
			Children: build(item.Children, level+1, item.ID),
		})
	}
	return nodes
}

// Find returns the first node, in depth-first pre-order, whose path equals path
func Find(tree []types.MenuNode, path string) (types.MenuNode, bool) {
	for _, node := range tree {
		if node.Path == path {
			return node, true
		}
		if found, ok := Find(node.Children, path); ok {
			return found, true
		}
	}
	return types.MenuNode{}, false
}

// FindByID returns the node with the given id
func FindByID(tree []types.MenuNode, id string) (types.MenuNode, bool) {
	for _, node := range tree {
		if node.ID == id {
			return node, true
		}
		if found, ok := FindByID(node.Children, id); ok {
			return found, true
		}
	}
	return types.MenuNode{}, false
}

// Walk visits every node depth-first with its parent (nil at the top)
func Walk(tree []types.MenuNode, fn func(node, parent *types.MenuNode)) {
	walk(tree, nil, fn)
}

func walk(tree []types.MenuNode, parent *types.MenuNode, fn func(node, parent *types.MenuNode)) {
	for i := range tree {
		fn(&tree[i], parent)
		walk(tree[i].Children, &tree[i], fn)
	}
}

// Clone deep-copies a tree
func Clone(tree []types.MenuNode) []types.MenuNode {
	if tree == nil {
		return nil
	}
	out := make([]types.MenuNode, len(tree))
	for i, node := range tree {
		out[i] = node
		out[i].Children = Clone(node.Children)
	}
	return out
}
