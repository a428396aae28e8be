// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"github.com/vechain/statecore/thor"
)

// Trie is an in-memory Merkle Patricia Trie.
//
// Updates are copy-on-write, so a root returned by Root stays valid and can be traversed
// while the trie is further modified. Trie is not safe for concurrent use.
type Trie struct {
	root *Node
}

// New creates a trie with the given root node, which may be nil.
func New(root *Node) *Trie {
	return &Trie{root: root}
}

// Root returns the current root node.
func (t *Trie) Root() *Node {
	return t.root
}

// Hash returns the root hash of the trie.
func (t *Trie) Hash() thor.Bytes32 {
	return RootHash(t.root)
}

// Get returns the value for key. The second return value indicates whether the key exists.
func (t *Trie) Get(key []byte) ([]byte, bool) {
	path := KeyToNibbles(key)
	n := t.root
	for n != nil {
		if !path.HasPrefix(n.Path) {
			return nil, false
		}
		path = path[len(n.Path):]
		if len(path) == 0 {
			return n.Value, n.HasValue
		}
		n = n.Children[path[0]]
		path = path[1:]
	}
	return nil, false
}

// Update associates key with value. Empty value deletes the key.
func (t *Trie) Update(key, value []byte) {
	if len(value) == 0 {
		t.Delete(key)
		return
	}
	t.root = insert(t.root, KeyToNibbles(key), append([]byte(nil), value...))
}

// Delete removes key from the trie.
func (t *Trie) Delete(key []byte) {
	if n, ok := remove(t.root, KeyToNibbles(key)); ok {
		t.root = n
	}
}

func insert(n *Node, key Nibbles, value []byte) *Node {
	if n == nil {
		return NewLeaf(key, value)
	}

	p := prefixLen(n.Path, key)
	if p == len(n.Path) {
		cpy := n.copy()
		rest := key[p:]
		if len(rest) == 0 {
			cpy.Value, cpy.HasValue = value, true
		} else {
			cpy.Children[rest[0]] = insert(n.Children[rest[0]], rest[1:], value)
		}
		return cpy
	}

	// split at the first differing nibble
	branch := &Node{Path: n.Path[:p:p]}
	old := n.copy()
	old.Path = n.Path[p+1:]
	branch.Children[n.Path[p]] = old
	if p == len(key) {
		branch.Value, branch.HasValue = value, true
	} else {
		branch.Children[key[p]] = NewLeaf(key[p+1:], value)
	}
	return branch
}

func remove(n *Node, key Nibbles) (*Node, bool) {
	if n == nil || !key.HasPrefix(n.Path) {
		return n, false
	}
	rest := key[len(n.Path):]
	cpy := n.copy()
	if len(rest) == 0 {
		if !n.HasValue {
			return n, false
		}
		cpy.Value, cpy.HasValue = nil, false
	} else {
		child, ok := remove(n.Children[rest[0]], rest[1:])
		if !ok {
			return n, false
		}
		cpy.Children[rest[0]] = child
	}
	return normalize(cpy), true
}

// normalize collapses a node left with no value and a single child into that child.
func normalize(n *Node) *Node {
	switch n.NumChildren() {
	case 0:
		if !n.HasValue {
			return nil
		}
	case 1:
		if !n.HasValue {
			for i, child := range n.Children {
				if child != nil {
					merged := child.copy()
					merged.Path = concat(n.Path, []byte{byte(i)}, child.Path)
					return merged
				}
			}
		}
	}
	return n
}
