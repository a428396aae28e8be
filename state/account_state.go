// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"maps"

	"github.com/holiman/uint256"

	"github.com/vechain/statecore/thor"
)

// AccountState is an account with its storage as seen at one call depth, plus the
// substate that rolls back with the call frame.
type AccountState struct {
	Account *Account
	// Storage holds slots written in the transaction, or read slots for an original state.
	Storage map[thor.Bytes32]thor.Bytes32
	// Transient holds EIP-1153 slots, discarded at the end of the transaction.
	Transient map[thor.Bytes32]thor.Bytes32

	destructed      bool
	touched         bool
	accessed        bool
	accessedStorage map[thor.Bytes32]struct{}
}

func newAccountState(acc *Account) *AccountState {
	return &AccountState{
		Account: acc,
		Storage: make(map[thor.Bytes32]thor.Bytes32),
	}
}

func (as *AccountState) clone() *AccountState {
	return &AccountState{
		Account:         as.Account.Copy(),
		Storage:         maps.Clone(as.Storage),
		Transient:       maps.Clone(as.Transient),
		destructed:      as.destructed,
		touched:         as.touched,
		accessed:        as.accessed,
		accessedStorage: maps.Clone(as.accessedStorage),
	}
}

// IsDestructed returns if the account self-destructed in the transaction.
func (as *AccountState) IsDestructed() bool { return as.destructed }

// IsTouched returns if the account was touched in the transaction.
func (as *AccountState) IsTouched() bool { return as.touched }

// OriginalAccountState is the account state a transaction first observed from the block
// state. Storage holds every slot the transaction read.
//
// A transaction that only checked its balance covers a transfer records a minimum balance
// rather than the exact one, which lets the merge accept a changed original balance.
type OriginalAccountState struct {
	AccountState

	validateExactBalance bool
	minBalance           uint256.Int
}

func newOriginalAccountState(acc *Account) *OriginalAccountState {
	return &OriginalAccountState{AccountState: *newAccountState(acc)}
}

// ValidateExactBalance returns if the merge requires the exact original balance.
func (o *OriginalAccountState) ValidateExactBalance() bool { return o.validateExactBalance }

// MinBalance returns the least original balance the transaction outcome depends on.
func (o *OriginalAccountState) MinBalance() *uint256.Int { return &o.minBalance }

func (o *OriginalAccountState) setValidateExactBalance() {
	o.validateExactBalance = true
}

// setMinBalance raises the floor to v. Floors recorded by different transfers accumulate
// as their maximum.
func (o *OriginalAccountState) setMinBalance(v *uint256.Int) {
	if v.Gt(&o.minBalance) {
		o.minBalance.Set(v)
	}
}
