// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state implements the two overlays between the EVM and the database.
// It follows the flow as bellow:
//
//	  [ EVM ]          [ EVM ]          [ EVM ]
//	     |                |                |
//	[ State tx0 ]    [ State tx1 ]    [ State tx2 ]   speculative, any order
//	     \                |                /
//	      +-- CanMerge/Merge, in tx order -+
//	                      |
//	               [ BlockState ]                      original/current deltas
//	                      |
//	                 [ Database ]                      one Commit per block
//
// A State records the values it first observed from the BlockState as originals. Merging
// succeeds when those originals still equal the current block values, except that balances
// are compared relaxedly: a transaction that only needed "enough" balance merges as long as
// the true balance still covers what it spent.
package state
