// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/vechain/statecore/block"
	"github.com/vechain/statecore/calltrace"
	"github.com/vechain/statecore/thor"
)

// Database is the persistent state the block state reads through and commits to.
//
// Reads must see every earlier commit. Commit must be atomic: after a crash either all of
// a block or none of it is visible.
type Database interface {
	// ReadAccount returns the account at addr, nil if absent.
	ReadAccount(addr thor.Address) (*Account, error)
	// ReadStorage returns the slot of the account's given incarnation, zero if unset.
	ReadStorage(addr thor.Address, incarnation Incarnation, key thor.Bytes32) (thor.Bytes32, error)
	// ReadCode returns code of hash, empty if unknown.
	ReadCode(hash thor.Bytes32) ([]byte, error)
	// Commit persists the changes of a block.
	Commit(deltas *StateDeltas, code *Code, data *BlockData) error
}

// BlockData is the block metadata committed with the state changes.
type BlockData struct {
	ID           thor.Bytes32
	Header       *block.Header
	Receipts     types.Receipts
	CallFrames   [][]calltrace.CallFrame
	Senders      []thor.Address
	Transactions types.Transactions
	Ommers       []*block.Header
	Withdrawals  types.Withdrawals
}
