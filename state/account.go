// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/statecore/thor"
)

// Incarnation is the generation of an account's storage. Storage written under one
// incarnation is invisible to any other.
//
// An account created by transaction i of block n has incarnation {n, i+1}, so it never
// collides with storage left in the database by an earlier generation.
type Incarnation struct {
	Block uint64
	Tx    uint64
}

// NewIncarnation returns the incarnation assigned by transaction txIndex of block number.
func NewIncarnation(number uint64, txIndex uint64) Incarnation {
	return Incarnation{Block: number, Tx: txIndex + 1}
}

func (i Incarnation) String() string {
	return fmt.Sprintf("%d/%d", i.Block, i.Tx)
}

// Account is the state of an account. An absent account is a nil *Account.
type Account struct {
	Balance     uint256.Int
	CodeHash    thor.Bytes32
	Nonce       uint64
	Incarnation Incarnation
}

// NewAccount creates an account with no code.
func NewAccount(incarnation Incarnation) *Account {
	return &Account{CodeHash: thor.EmptyCodeHash, Incarnation: incarnation}
}

// IsEmpty returns if an account is empty as defined by EIP-161.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == thor.EmptyCodeHash
}

// Copy returns a copy of a, which may be nil.
func (a *Account) Copy() *Account {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

// AccountEqual returns if a and b are both absent or have identical fields.
func AccountEqual(a, b *Account) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// isDead returns if the account is absent or empty.
func isDead(a *Account) bool {
	return a == nil || a.IsEmpty()
}
