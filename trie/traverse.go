// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RootBranch is the branch passed to visitors for the node a traversal starts at.
const RootBranch byte = 0xff

// Visitor receives callbacks of a depth-first traversal.
type Visitor interface {
	// ShouldVisit reports whether the child at branch of n is worth descending into.
	ShouldVisit(n *Node, branch byte) bool
	// Down is called on entering a node. Returning false prunes the subtree, and Up is not
	// called for it.
	Down(branch byte, n *Node) bool
	// Up is called on leaving a node entered by Down.
	Up(branch byte, n *Node)
	// Clone duplicates visitor state for traversing a sibling subtree.
	Clone() Visitor
}

// Traverse visits the trie rooted at root in ascending key order.
func Traverse(root *Node, v Visitor) {
	if root != nil {
		traverse(root, RootBranch, v)
	}
}

func traverse(n *Node, branch byte, v Visitor) {
	if !v.Down(branch, n) {
		return
	}
	for i, child := range n.Children {
		if child != nil && v.ShouldVisit(n, byte(i)) {
			traverse(child, byte(i), v)
		}
	}
	v.Up(branch, n)
}

// ParallelTraverse is like Traverse, but each child subtree of the root is visited by a
// clone of v in its own goroutine, at most workers at a time. Callbacks of different subtrees
// run concurrently and in no particular order.
func ParallelTraverse(ctx context.Context, root *Node, v Visitor, workers int) error {
	if root == nil || !v.Down(RootBranch, root) {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, child := range root.Children {
		if child == nil || !v.ShouldVisit(root, byte(i)) {
			continue
		}
		branch, child, clone := byte(i), child, v.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			traverse(child, branch, clone)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	v.Up(RootBranch, root)
	return nil
}
