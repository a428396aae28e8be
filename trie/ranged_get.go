// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

// RangeCallback receives a key and its value.
type RangeCallback func(key Nibbles, value []byte)

// RangedGet is a visitor emitting every value with key in [min, max) in ascending order.
type RangedGet struct {
	path     Nibbles
	min, max Nibbles
	fn       RangeCallback
}

var _ Visitor = (*RangedGet)(nil)

// NewRangedGet creates a ranged get visitor.
func NewRangedGet(min, max Nibbles, fn RangeCallback) *RangedGet {
	return &RangedGet{min: min, max: max, fn: fn}
}

// intersects is a looser check of min <= p < max. A p that is a prefix of min also passes,
// since keys below it may still fall in the range.
func (r *RangedGet) intersects(p Nibbles) bool {
	if !r.min.HasPrefix(p) && p.Compare(r.min) < 0 {
		return false
	}
	return p.Compare(r.max) < 0
}

func (r *RangedGet) Down(branch byte, n *Node) bool {
	var next Nibbles
	if branch == RootBranch {
		next = concat(r.path, nil, n.Path)
	} else {
		next = concat(r.path, []byte{branch}, n.Path)
	}
	if !r.intersects(next) {
		return false
	}

	r.path = next
	if n.HasValue && len(r.path) >= len(r.min) {
		r.fn(r.path, n.Value)
	}
	return true
}

func (r *RangedGet) Up(branch byte, n *Node) {
	trim := len(n.Path)
	if branch != RootBranch {
		trim++
	}
	r.path = r.path[:len(r.path)-trim]
}

func (r *RangedGet) ShouldVisit(_ *Node, branch byte) bool {
	return r.intersects(concat(r.path, []byte{branch}, nil))
}

func (r *RangedGet) Clone() Visitor {
	cpy := *r
	cpy.path = append(Nibbles(nil), r.path...)
	return &cpy
}

// RangeGet calls fn for every key within [min, max) under root, in ascending key order.
func RangeGet(root *Node, min, max Nibbles, fn RangeCallback) {
	Traverse(root, NewRangedGet(min, max, fn))
}
