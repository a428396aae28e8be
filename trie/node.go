// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"fmt"
	"strings"

	"github.com/vechain/statecore/thor"
)

// Node is a trie node carrying a compressed path, an optional value and up to 16 children.
// A node with path and children stands for an ethereum extension node followed by a branch.
//
// Nodes are treated as immutable once linked into a trie.
type Node struct {
	Path     Nibbles
	Value    []byte
	HasValue bool
	Children [16]*Node

	ref []byte // cached reference
}

// NewLeaf creates a leaf node.
func NewLeaf(path Nibbles, value []byte) *Node {
	return &Node{Path: path, Value: value, HasValue: true}
}

func (n *Node) copy() *Node {
	cpy := *n
	cpy.ref = nil
	return &cpy
}

// NumChildren returns count of non-nil children.
func (n *Node) NumChildren() int {
	c := 0
	for _, child := range n.Children {
		if child != nil {
			c++
		}
	}
	return c
}

// Mask returns the bitmap of present children.
func (n *Node) Mask() uint16 {
	var mask uint16
	for i, child := range n.Children {
		if child != nil {
			mask |= 1 << i
		}
	}
	return mask
}

// encode returns the rlp encoding of the node.
func (n *Node) encode() []byte {
	if n.NumChildren() == 0 {
		if !n.HasValue {
			panic("node without children and value")
		}
		e := newEncoder()
		defer e.release()
		return e.twoPieces(n.Path, n.Value, true)
	}

	children := make([]ChildData, 0, 16)
	for i, child := range n.Children {
		if child != nil {
			children = append(children, ChildData{Branch: byte(i), Ref: child.Ref()})
		}
	}
	e := newEncoder()
	defer e.release()
	enc := e.branch(children, n.Value)
	if len(n.Path) == 0 {
		return enc
	}
	return e.twoPieces(n.Path, ToNodeRef(enc), false)
}

// Ref returns the node reference, inline encoding or hash. It's cached.
func (n *Node) Ref() []byte {
	if n.ref == nil {
		n.ref = ToNodeRef(n.encode())
	}
	return n.ref
}

// RootHash returns the hash of a root node. The root is always hashed even if its encoding
// is shorter than 32 bytes.
func RootHash(root *Node) thor.Bytes32 {
	if root == nil {
		return thor.EmptyRoot
	}
	ref := root.Ref()
	if IsInline(ref) {
		return thor.Keccak256(ref)
	}
	return thor.BytesToBytes32(ref)
}

func (n *Node) String() string {
	var b strings.Builder
	n.fstring(&b, "")
	return b.String()
}

func (n *Node) fstring(b *strings.Builder, ind string) {
	fmt.Fprintf(b, "%v{%v", ind, n.Path)
	if n.HasValue {
		fmt.Fprintf(b, " = %x", n.Value)
	}
	b.WriteString("}\n")
	for i, child := range n.Children {
		if child != nil {
			fmt.Fprintf(b, "%v  [%x]\n", ind, i)
			child.fstring(b, ind+"    ")
		}
	}
}
