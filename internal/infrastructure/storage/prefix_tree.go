package storage

import "strings"

type prefixNode struct {
	key      string
	children map[byte]*prefixNode
	isEnd    bool
}

func newPrefixNode(key string) *prefixNode {
	return &prefixNode{
		key:      key,
		children: make(map[byte]*prefixNode),
	}
}

// PrefixTree is a radix tree holding a set of strings. It answers exact
// membership and "any member starts with" queries. Not safe for concurrent
// use on its own.
type PrefixTree struct {
	root *prefixNode
	size int
}

func NewPrefixTree() *PrefixTree {
	return &PrefixTree{root: newPrefixNode("")}
}

// Insert adds key and reports whether it was not already present.
func (pt *PrefixTree) Insert(key string) bool {
	if key == "" {
		return false
	}

	added := pt.insert(pt.root, key)
	if added {
		pt.size++
	}
	return added
}

func (pt *PrefixTree) insert(node *prefixNode, key string) bool {
	if key == "" {
		if node.isEnd {
			return false
		}
		node.isEnd = true
		return true
	}

	child, exists := node.children[key[0]]
	if !exists {
		leaf := newPrefixNode(key)
		leaf.isEnd = true
		node.children[key[0]] = leaf
		return true
	}

	common := commonPrefix(child.key, key)
	if common == child.key {
		return pt.insert(child, key[len(common):])
	}

	// Split child at the shared prefix.
	tail := newPrefixNode(child.key[len(common):])
	tail.children = child.children
	tail.isEnd = child.isEnd

	child.key = common
	child.children = map[byte]*prefixNode{tail.key[0]: tail}
	child.isEnd = false

	return pt.insert(child, key[len(common):])
}

func (pt *PrefixTree) Contains(key string) bool {
	if key == "" {
		return false
	}

	node := pt.root
	for key != "" {
		child, exists := node.children[key[0]]
		if !exists || !strings.HasPrefix(key, child.key) {
			return false
		}
		key = key[len(child.key):]
		node = child
	}

	return node.isEnd
}

// HasPrefix reports whether any member starts with prefix.
func (pt *PrefixTree) HasPrefix(prefix string) bool {
	if prefix == "" {
		return pt.size > 0
	}

	node := pt.root
	for prefix != "" {
		child, exists := node.children[prefix[0]]
		if !exists {
			return false
		}
		if len(prefix) <= len(child.key) {
			return strings.HasPrefix(child.key, prefix)
		}
		if !strings.HasPrefix(prefix, child.key) {
			return false
		}
		prefix = prefix[len(child.key):]
		node = child
	}

	return true
}

func (pt *PrefixTree) Len() int {
	return pt.size
}

func (pt *PrefixTree) Clear() {
	pt.root = newPrefixNode("")
	pt.size = 0
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))

	i := 0
	for i < n && a[i] == b[i] {
		i++
	}

	return a[:i]
}
