package keymap

import (
	"sort"

	"github.com/dshills/keybind/internal/input/key"
)

// PrefixTree indexes bindings by keystroke sequence for exact and prefix
// lookup. Nodes are keyed by Keystroke value, so matching is structural.
// Entries are table indices.
type PrefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[key.Keystroke]*prefixNode
	entries  []int
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[key.Keystroke]*prefixNode)}
}

// NewPrefixTree creates a new prefix tree.
func NewPrefixTree() *PrefixTree {
	return &PrefixTree{root: newPrefixNode()}
}

// Insert adds an entry at the node for kb.
func (t *PrefixTree) Insert(kb key.Keybinding, entry int) {
	node := t.root

	// Navigate/create path for each keystroke
	for _, ks := range kb {
		child, ok := node.children[ks]
		if !ok {
			child = newPrefixNode()
			node.children[ks] = child
		}
		node = child
	}

	node.entries = append(node.entries, entry)
}

// Remove removes an entry from the node for kb, pruning empty nodes.
func (t *PrefixTree) Remove(kb key.Keybinding, entry int) {
	if len(kb) == 0 {
		return
	}

	// Track path for pruning
	path := make([]*prefixNode, 0, len(kb)+1)
	path = append(path, t.root)
	keys := make([]key.Keystroke, 0, len(kb))

	node := t.root
	for _, ks := range kb {
		child, ok := node.children[ks]
		if !ok {
			return
		}
		path = append(path, child)
		keys = append(keys, ks)
		node = child
	}

	filtered := node.entries[:0]
	for _, e := range node.entries {
		if e != entry {
			filtered = append(filtered, e)
		}
	}
	node.entries = filtered

	// Prune empty nodes from leaf to root
	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if len(current.entries) != 0 || len(current.children) != 0 {
			break
		}
		delete(path[i-1].children, keys[i-1])
	}
}

func (t *PrefixTree) find(seq []key.Keystroke) *prefixNode {
	node := t.root
	for _, ks := range seq {
		child, ok := node.children[ks]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Lookup returns the entries whose sequence equals seq, in ascending order.
func (t *PrefixTree) Lookup(seq []key.Keystroke) []int {
	if len(seq) == 0 {
		return nil
	}
	node := t.find(seq)
	if node == nil || len(node.entries) == 0 {
		return nil
	}
	result := make([]int, len(node.entries))
	copy(result, node.entries)
	sort.Ints(result)
	return result
}

// Continuations returns the entries whose sequence is strictly longer than
// seq and starts with it, in ascending order.
func (t *PrefixTree) Continuations(seq []key.Keystroke) []int {
	node := t.find(seq)
	if node == nil {
		return nil
	}
	var result []int
	for _, child := range node.children {
		result = child.collect(result)
	}
	sort.Ints(result)
	return result
}

// HasPrefix returns true if any entry starts with seq, including an exact
// match.
func (t *PrefixTree) HasPrefix(seq []key.Keystroke) bool {
	node := t.find(seq)
	return node != nil && (len(node.entries) > 0 || len(node.children) > 0)
}

// collect appends the entries of the subtree rooted at n.
func (n *prefixNode) collect(dst []int) []int {
	dst = append(dst, n.entries...)
	for _, child := range n.children {
		dst = child.collect(dst)
	}
	return dst
}
