// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/statecore/stackedmap"
	"github.com/vechain/statecore/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Log is an event emitted by a contract.
type Log struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}

// State is the state overlay of a single transaction. It's not safe for concurrent use.
//
// Values first read from the block state are recorded as originals, writes are kept per call
// depth until the frame is accepted or rejected.
//
// Database errors are absorbed: the failed read yields a zero value and Error reports the
// first failure. A State with an error never merges.
type State struct {
	bs          *BlockState
	incarnation Incarnation

	original map[thor.Address]*OriginalAccountState
	current  *stackedmap.StackedMap[thor.Address, *AccountState]
	code     map[thor.Bytes32][]byte // code set by the transaction

	logs     []*Log
	logMarks []int

	err error
}

// NewState creates a transaction state over bs. Accounts created by the transaction get
// the given incarnation.
func NewState(bs *BlockState, incarnation Incarnation) *State {
	return &State{
		bs:          bs,
		incarnation: incarnation,
		original:    make(map[thor.Address]*OriginalAccountState),
		current:     stackedmap.New[thor.Address, *AccountState](nil),
		code:        make(map[thor.Bytes32][]byte),
	}
}

// Error returns the first error occurred on state access.
func (s *State) Error() error {
	return s.err
}

func (s *State) setError(err error) {
	if s.err == nil {
		s.err = &Error{err}
	}
}

// Incarnation returns incarnation assigned to accounts created by the transaction.
func (s *State) Incarnation() Incarnation {
	return s.incarnation
}

func (s *State) originalAccountState(addr thor.Address) *OriginalAccountState {
	if o, ok := s.original[addr]; ok {
		return o
	}
	acc, err := s.bs.ReadAccount(addr)
	if err != nil {
		s.setError(err)
	}
	o := newOriginalAccountState(acc)
	s.original[addr] = o
	return o
}

// recentAccountState returns the latest account state for reading.
func (s *State) recentAccountState(addr thor.Address) *AccountState {
	if as, ok := s.current.Get(addr); ok {
		return as
	}
	return &s.originalAccountState(addr).AccountState
}

// currentAccountState returns the account state of the current depth for writing.
func (s *State) currentAccountState(addr thor.Address) *AccountState {
	if s.current.Revision(addr) == s.current.Depth() {
		as, _ := s.current.Get(addr)
		return as
	}

	var as *AccountState
	if prev, ok := s.current.Get(addr); ok {
		as = prev.clone()
	} else {
		as = newAccountState(s.originalAccountState(addr).Account.Copy())
	}
	s.current.Put(addr, as)
	return as
}

// mustAccount returns the writable account at addr, creating it if absent.
func (s *State) mustAccount(addr thor.Address) *Account {
	as := s.currentAccountState(addr)
	if as.Account == nil {
		as.Account = NewAccount(s.incarnation)
	}
	return as.Account
}

// Account returns a copy of the latest account at addr, nil if absent.
func (s *State) Account(addr thor.Address) *Account {
	return s.recentAccountState(addr).Account.Copy()
}

// AccountExists returns if the account at addr exists.
func (s *State) AccountExists(addr thor.Address) bool {
	return s.recentAccountState(addr).Account != nil
}

// AccountIsDead returns if the account at addr is absent or empty.
func (s *State) AccountIsDead(addr thor.Address) bool {
	acc := s.recentAccountState(addr).Account
	s.observeEmptiness(addr, acc)
	return isDead(acc)
}

// observeEmptiness records that the transaction depends on whether acc is empty. For an
// account with no nonce and no code that's a matter of the exact balance.
func (s *State) observeEmptiness(addr thor.Address, acc *Account) {
	if acc != nil && acc.Nonce == 0 && acc.CodeHash == thor.EmptyCodeHash {
		s.originalAccountState(addr).setValidateExactBalance()
	}
}

// GetNonce returns nonce of the account.
func (s *State) GetNonce(addr thor.Address) uint64 {
	if acc := s.recentAccountState(addr).Account; acc != nil {
		return acc.Nonce
	}
	return 0
}

// GetBalance returns balance of the account. The EVM observed the exact value, so the merge
// will require the exact original balance.
func (s *State) GetBalance(addr thor.Address) uint256.Int {
	s.originalAccountState(addr).setValidateExactBalance()
	if acc := s.recentAccountState(addr).Account; acc != nil {
		return acc.Balance
	}
	return uint256.Int{}
}

// HasBalance returns if the account holds at least value, for a value transfer.
//
// When it does, only the part of the original balance actually spent matters, and a floor
// is recorded: the transfer stays valid for any original balance no less than it. When it
// doesn't, the rejection depends on the precise balance and the exact original balance is
// required.
func (s *State) HasBalance(addr thor.Address, value *uint256.Int) bool {
	orig := s.originalAccountState(addr)

	var balance uint256.Int
	if acc := s.recentAccountState(addr).Account; acc != nil {
		balance = acc.Balance
	}

	if !balance.Lt(value) {
		var diff uint256.Int
		diff.Sub(&balance, value)

		var origBalance uint256.Int
		if orig.Account != nil {
			origBalance = orig.Account.Balance
		}
		if origBalance.Gt(&diff) {
			var floor uint256.Int
			floor.Sub(&origBalance, &diff)
			orig.setMinBalance(&floor)
		}
		return true
	}
	orig.setValidateExactBalance()
	return false
}

// GetCodeHash returns code hash of the account, or zero if absent.
func (s *State) GetCodeHash(addr thor.Address) thor.Bytes32 {
	if acc := s.recentAccountState(addr).Account; acc != nil {
		return acc.CodeHash
	}
	return thor.Bytes32{}
}

// GetCode returns code of the account.
func (s *State) GetCode(addr thor.Address) []byte {
	acc := s.recentAccountState(addr).Account
	if acc == nil {
		return nil
	}
	return s.GetCodeByHash(acc.CodeHash)
}

// GetCodeByHash returns code of the given hash.
func (s *State) GetCodeByHash(hash thor.Bytes32) []byte {
	if hash == thor.EmptyCodeHash || hash.IsZero() {
		return nil
	}
	if code, ok := s.code[hash]; ok {
		return code
	}
	code, err := s.bs.ReadCode(hash)
	if err != nil {
		s.setError(err)
		return nil
	}
	return code
}

// GetStorage returns the latest value of the slot.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) thor.Bytes32 {
	as := s.recentAccountState(addr)
	if as.Account == nil {
		return thor.Bytes32{}
	}
	if v, ok := as.Storage[key]; ok {
		return v
	}
	return s.originalStorage(addr, as.Account.Incarnation, key)
}

// GetCommittedStorage returns the value of the slot before the transaction.
func (s *State) GetCommittedStorage(addr thor.Address, key thor.Bytes32) thor.Bytes32 {
	acc := s.recentAccountState(addr).Account
	if acc == nil {
		return thor.Bytes32{}
	}
	return s.originalStorage(addr, acc.Incarnation, key)
}

// originalStorage reads the slot of the original account. Storage of another incarnation
// was wiped, so it's zero without reading the block state.
func (s *State) originalStorage(addr thor.Address, incarnation Incarnation, key thor.Bytes32) thor.Bytes32 {
	orig := s.originalAccountState(addr)
	if orig.Account == nil || orig.Account.Incarnation != incarnation {
		return thor.Bytes32{}
	}
	if v, ok := orig.Storage[key]; ok {
		return v
	}
	v, err := s.bs.ReadStorage(addr, incarnation, key)
	if err != nil {
		s.setError(err)
		return thor.Bytes32{}
	}
	orig.Storage[key] = v
	return v
}

// GetTransientStorage returns value of the transient slot.
func (s *State) GetTransientStorage(addr thor.Address, key thor.Bytes32) thor.Bytes32 {
	return s.recentAccountState(addr).Transient[key]
}

// SetNonce sets nonce of the account, creating it if absent.
func (s *State) SetNonce(addr thor.Address, nonce uint64) {
	s.mustAccount(addr).Nonce = nonce
}

// AddToBalance adds value to the account, creating it if absent.
func (s *State) AddToBalance(addr thor.Address, value *uint256.Int) {
	acc := s.mustAccount(addr)
	if _, overflow := acc.Balance.AddOverflow(&acc.Balance, value); overflow {
		panic("balance overflow")
	}
	s.currentAccountState(addr).touched = true
}

// SubtractFromBalance subtracts value from the account. The caller is expected to have
// checked the balance with HasBalance.
func (s *State) SubtractFromBalance(addr thor.Address, value *uint256.Int) {
	as := s.currentAccountState(addr)
	if as.Account == nil {
		// a zero value call from an address without account
		as.Account = NewAccount(s.incarnation)
	}
	if as.Account.Balance.Lt(value) {
		panic("insufficient balance")
	}
	as.Account.Balance.Sub(&as.Account.Balance, value)
	as.touched = true
}

// SetCode sets code of the account.
func (s *State) SetCode(addr thor.Address, code []byte) {
	acc := s.mustAccount(addr)
	if len(code) == 0 {
		acc.CodeHash = thor.EmptyCodeHash
		return
	}
	hash := thor.Keccak256(code)
	acc.CodeHash = hash
	s.code[hash] = code
}

// CreateContract replaces the account with a fresh one of the transaction's incarnation.
// The balance is kept, the storage is wiped.
func (s *State) CreateContract(addr thor.Address) {
	as := s.currentAccountState(addr)
	acc := NewAccount(s.incarnation)
	if as.Account != nil {
		acc.Balance = as.Account.Balance
	}
	as.Account = acc
	as.Storage = make(map[thor.Bytes32]thor.Bytes32)
}

// SetStorage writes the slot and classifies the write.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) StorageStatus {
	current := s.GetStorage(addr, key)
	original := s.GetCommittedStorage(addr, key)

	as := s.currentAccountState(addr)
	if as.Account == nil {
		panic("set storage of absent account")
	}
	as.Storage[key] = value
	return storageStatus(original, current, value)
}

// SetTransientStorage writes the transient slot.
func (s *State) SetTransientStorage(addr thor.Address, key, value thor.Bytes32) {
	as := s.currentAccountState(addr)
	if as.Transient == nil {
		as.Transient = make(map[thor.Bytes32]thor.Bytes32)
	}
	as.Transient[key] = value
}

// Touch marks the account touched.
func (s *State) Touch(addr thor.Address) {
	s.currentAccountState(addr).touched = true
}

// IsTouched returns if the account is touched.
func (s *State) IsTouched(addr thor.Address) bool {
	return s.recentAccountState(addr).touched
}

// AccessAccount marks the account accessed, and returns its status before.
func (s *State) AccessAccount(addr thor.Address) AccessStatus {
	if s.recentAccountState(addr).accessed {
		return Warm
	}
	s.currentAccountState(addr).accessed = true
	return Cold
}

// AccessStorage marks the slot accessed, and returns its status before.
func (s *State) AccessStorage(addr thor.Address, key thor.Bytes32) AccessStatus {
	if _, ok := s.recentAccountState(addr).accessedStorage[key]; ok {
		return Warm
	}
	as := s.currentAccountState(addr)
	if as.accessedStorage == nil {
		as.accessedStorage = make(map[thor.Bytes32]struct{})
	}
	as.accessedStorage[key] = struct{}{}
	return Cold
}

// SelfDestruct moves the balance of addr to beneficiary and marks addr destructed. It
// returns true if addr was not destructed before.
//
// Since EIP-6780 only a contract created in the same transaction is destructed; other
// contracts just transfer the balance.
func (s *State) SelfDestruct(addr, beneficiary thor.Address, rules *thor.Rules) bool {
	as := s.currentAccountState(addr)
	if as.Account == nil {
		panic("self destruct of absent account")
	}
	balance := as.Account.Balance
	// the whole balance moves
	s.originalAccountState(addr).setValidateExactBalance()

	if rules.EIP6780 && as.Account.Incarnation != s.incarnation {
		if addr != beneficiary {
			s.AddToBalance(beneficiary, &balance)
			s.SubtractFromBalance(addr, &balance)
		}
		return false
	}

	s.AddToBalance(beneficiary, &balance)
	// beneficiary may be addr itself, then the balance is burnt
	as = s.currentAccountState(addr)
	as.Account.Balance.Clear()

	if as.destructed {
		return false
	}
	as.destructed = true
	return true
}

// AddLog appends a log to the current frame.
func (s *State) AddLog(log *Log) {
	s.logs = append(s.logs, log)
}

// Logs returns logs of accepted frames.
func (s *State) Logs() []*Log {
	return s.logs
}

// Depth returns the current call depth, 0 outside of any call.
func (s *State) Depth() int {
	return s.current.Depth()
}

// Push opens a call frame.
func (s *State) Push() {
	s.current.Push()
	s.logMarks = append(s.logMarks, len(s.logs))
}

// PopAccept closes the call frame keeping its changes.
func (s *State) PopAccept() {
	s.current.PopAccept()
	s.logMarks = s.logMarks[:len(s.logMarks)-1]
}

// PopReject closes the call frame discarding its changes.
func (s *State) PopReject() {
	s.current.PopReject()
	mark := s.logMarks[len(s.logMarks)-1]
	s.logMarks = s.logMarks[:len(s.logMarks)-1]
	s.logs = s.logs[:mark]
}

func (s *State) mustTopLevel() {
	if d := s.current.Depth(); d != 0 {
		panic(fmt.Sprintf("state: depth %d, expected 0", d))
	}
}

// DestructSuicides removes accounts destructed in the transaction.
func (s *State) DestructSuicides() {
	s.mustTopLevel()
	s.current.Range(func(_ thor.Address, as *AccountState) bool {
		if as.destructed {
			as.Account = nil
			as.Storage = make(map[thor.Bytes32]thor.Bytes32)
		}
		return true
	})
}

// DestructTouchedDead removes touched empty accounts (EIP-161), and discards transient
// storage. It's called at the end of the transaction.
func (s *State) DestructTouchedDead(rules *thor.Rules) {
	s.mustTopLevel()
	s.current.Range(func(addr thor.Address, as *AccountState) bool {
		if rules.EIP161 && as.touched {
			s.observeEmptiness(addr, as.Account)
		}
		if rules.EIP161 && as.touched && as.Account != nil && as.Account.IsEmpty() {
			as.Account = nil
			as.Storage = make(map[thor.Bytes32]thor.Bytes32)
		}
		as.Transient = nil
		return true
	})
}

// Original returns the original account state of addr, if it was read.
func (s *State) Original(addr thor.Address) (*OriginalAccountState, bool) {
	o, ok := s.original[addr]
	return o, ok
}

// RangeOriginal calls fn for every address read by the transaction.
func (s *State) RangeOriginal(fn func(addr thor.Address, o *OriginalAccountState) bool) {
	for addr, o := range s.original {
		if !fn(addr, o) {
			return
		}
	}
}

// RangeCurrent calls fn with the latest state of every address written by the transaction.
func (s *State) RangeCurrent(fn func(addr thor.Address, as *AccountState) bool) {
	s.current.Range(fn)
}

// NewCode returns code set by the transaction, keyed by hash.
func (s *State) NewCode() map[thor.Bytes32][]byte {
	return s.code
}

// TryFixAccountMismatch tries to accept actual as the original account of addr, where the
// transaction observed a different one. Only a balance change is tolerated and only if the
// transaction did not depend on the exact balance and actual still covers the recorded
// floor. On success the transaction's balance is rebased onto actual.
func (s *State) TryFixAccountMismatch(addr thor.Address, actual *Account) bool {
	s.mustTopLevel()

	orig, ok := s.original[addr]
	if !ok {
		panic("fix mismatch of unread account")
	}
	o := orig.Account
	if o == nil || actual == nil {
		return false
	}
	if o.Nonce != actual.Nonce || o.CodeHash != actual.CodeHash || o.Incarnation != actual.Incarnation {
		return false
	}
	if orig.validateExactBalance && o.Balance != actual.Balance {
		return false
	}
	if actual.Balance.Lt(&orig.minBalance) {
		return false
	}

	as, ok := s.current.Get(addr)
	if ok && as.Account == nil && o.Balance != actual.Balance {
		// deleted by the transaction, the balance would be lost
		return false
	}
	if ok && as.Account != nil {
		var rebased uint256.Int
		if _, overflow := rebased.AddOverflow(&as.Account.Balance, &actual.Balance); overflow {
			return false
		}
		if rebased.Lt(&o.Balance) {
			return false
		}
		rebased.Sub(&rebased, &o.Balance)
		as.Account.Balance = rebased
	}
	orig.Account = actual.Copy()
	return true
}
