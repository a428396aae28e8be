// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

func TestStateFrames(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 100, 1)
	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))

	tests := []struct {
		f       func()
		depth   int
		nonce   uint64
		balance uint64
		logs    int
	}{
		{func() {}, 0, 1, 100, 0},
		{func() { st.Push(); st.SetNonce(addrA, 2); st.AddLog(&state.Log{Address: addrA}) }, 1, 2, 100, 1},
		{func() { st.Push(); st.AddToBalance(addrA, u256(5)); st.AddLog(&state.Log{Address: addrA}) }, 2, 2, 105, 2},
		{func() { st.PopReject() }, 1, 2, 100, 1},
		{func() { st.Push(); st.SubtractFromBalance(addrA, u256(30)) }, 2, 2, 70, 1},
		{func() { st.PopAccept() }, 1, 2, 70, 1},
		{func() { st.PopAccept() }, 0, 2, 70, 1},
	}
	for i, tt := range tests {
		tt.f()
		assert.Equal(tt.depth, st.Depth(), "#%d", i)
		assert.Equal(tt.nonce, st.GetNonce(addrA), "#%d", i)
		assert.Equal(tt.balance, st.Account(addrA).Balance.Uint64(), "#%d", i)
		assert.Len(st.Logs(), tt.logs, "#%d", i)
	}

	assert.Panics(func() { st.PopAccept() })
}

func TestStateRejectRestoresStorage(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 0, 1)
	db.storage[slotKey{addrA, state.Incarnation{}, key1}] = val1
	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))

	st.Push()
	st.SetStorage(addrA, key1, val2)
	st.SetStorage(addrA, key2, val3)
	st.Touch(addrB)
	assert.Equal(val2, st.GetStorage(addrA, key1))
	assert.True(st.IsTouched(addrB))
	st.PopReject()

	assert.Equal(val1, st.GetStorage(addrA, key1))
	assert.True(st.GetStorage(addrA, key2).IsZero())
	assert.False(st.IsTouched(addrB))
	assert.Equal(val1, st.GetCommittedStorage(addrA, key1))
}

func TestStorageIncarnation(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 7, 0)
	db.storage[slotKey{addrA, state.Incarnation{}, key1}] = val1
	st := state.NewState(newBlockState(db), state.NewIncarnation(5, 2))

	st.CreateContract(addrA)
	acc := st.Account(addrA)
	assert.Equal(state.Incarnation{Block: 5, Tx: 3}, acc.Incarnation)
	assert.Equal(uint64(7), acc.Balance.Uint64())
	assert.Equal(thor.EmptyCodeHash, acc.CodeHash)

	// the old incarnation is wiped, without touching the database
	assert.True(st.GetStorage(addrA, key1).IsZero())
	assert.True(st.GetCommittedStorage(addrA, key1).IsZero())
	assert.Equal(int64(0), db.storageReads.Load())

	assert.Equal(state.StorageAdded, st.SetStorage(addrA, key1, val2))
	assert.Equal(val2, st.GetStorage(addrA, key1))
	assert.Equal(int64(0), db.storageReads.Load())
}

func TestSetStorageStatus(t *testing.T) {
	zero := thor.Bytes32{}

	tests := []struct {
		original, current, value thor.Bytes32
		want                     state.StorageStatus
	}{
		{zero, zero, zero, state.StorageAssigned},
		{zero, zero, val1, state.StorageAdded},
		{val1, val1, zero, state.StorageDeleted},
		{val1, val1, val2, state.StorageModified},
		{val1, zero, val2, state.StorageDeletedAdded},
		{val1, val2, zero, state.StorageModifiedDeleted},
		{val1, zero, val1, state.StorageDeletedRestored},
		{zero, val1, zero, state.StorageAddedDeleted},
		{val1, val2, val1, state.StorageModifiedRestored},
		{val1, val2, val3, state.StorageAssigned},
		{zero, val1, val2, state.StorageAssigned},
	}
	for i, tt := range tests {
		db := newMemDB()
		db.setAccount(addrA, 0, 1)
		db.storage[slotKey{addrA, state.Incarnation{}, key1}] = tt.original
		st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
		if tt.current != tt.original {
			st.SetStorage(addrA, key1, tt.current)
		}
		assert.Equal(t, tt.want, st.SetStorage(addrA, key1, tt.value), "#%d", i)
	}
}

func TestAccessStatus(t *testing.T) {
	assert := assert.New(t)

	st := state.NewState(newBlockState(newMemDB()), state.NewIncarnation(1, 0))

	st.Push()
	assert.Equal(state.Cold, st.AccessAccount(addrA))
	assert.Equal(state.Warm, st.AccessAccount(addrA))
	assert.Equal(state.Cold, st.AccessStorage(addrA, key1))
	assert.Equal(state.Warm, st.AccessStorage(addrA, key1))
	st.PopReject()

	// access marks roll back with the frame
	assert.Equal(state.Cold, st.AccessAccount(addrA))
	assert.Equal(state.Cold, st.AccessStorage(addrA, key1))
}

func TestTransientStorage(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 0, 1)
	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))

	st.SetTransientStorage(addrA, key1, val1)
	st.Push()
	st.SetTransientStorage(addrA, key1, val2)
	assert.Equal(val2, st.GetTransientStorage(addrA, key1))
	st.PopReject()
	assert.Equal(val1, st.GetTransientStorage(addrA, key1))

	st.DestructTouchedDead(thor.RulesOf(thor.Cancun))
	assert.True(st.GetTransientStorage(addrA, key1).IsZero())
	assert.True(st.AccountExists(addrA))
}

func TestSelfDestruct(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 50, 1)
	db.setAccount(addrB, 1, 0)

	// before cancun
	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	assert.True(st.SelfDestruct(addrA, addrB, thor.RulesOf(thor.Shanghai)))
	assert.False(st.SelfDestruct(addrA, addrB, thor.RulesOf(thor.Shanghai)))
	assert.Equal(uint64(51), st.Account(addrB).Balance.Uint64())
	assert.Equal(uint64(0), st.Account(addrA).Balance.Uint64())
	st.DestructSuicides()
	assert.False(st.AccountExists(addrA))

	// burnt when beneficiary is itself
	st = state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	st.SelfDestruct(addrA, addrA, thor.RulesOf(thor.Shanghai))
	assert.Equal(uint64(0), st.Account(addrA).Balance.Uint64())

	// since cancun a pre-existing contract only moves its balance
	st = state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	assert.False(st.SelfDestruct(addrA, addrB, thor.RulesOf(thor.Cancun)))
	st.DestructSuicides()
	assert.True(st.AccountExists(addrA))
	assert.Equal(uint64(0), st.Account(addrA).Balance.Uint64())
	assert.Equal(uint64(51), st.Account(addrB).Balance.Uint64())

	// and a contract created in the same transaction is destructed
	st = state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	st.CreateContract(addrC)
	assert.True(st.SelfDestruct(addrC, addrB, thor.RulesOf(thor.Cancun)))
	st.DestructSuicides()
	assert.False(st.AccountExists(addrC))
}

func TestDestructTouchedDead(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 0, 0)
	db.setAccount(addrB, 0, 0)

	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	st.Touch(addrA)
	st.AddToBalance(addrC, u256(0))
	st.DestructTouchedDead(thor.RulesOf(thor.Frontier))
	assert.True(st.AccountExists(addrA))
	assert.True(st.AccountExists(addrC))

	st.DestructTouchedDead(thor.RulesOf(thor.SpuriousDragon))
	assert.False(st.AccountExists(addrA))
	assert.False(st.AccountExists(addrC))
	// untouched empty account stays
	assert.True(st.AccountExists(addrB))
	assert.True(st.AccountIsDead(addrB))
}

func TestHasBalance(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.setAccount(addrA, 100, 0)
	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))

	assert.True(st.HasBalance(addrA, u256(10)))
	orig, ok := st.Original(addrA)
	assert.True(ok)
	assert.Equal(uint64(10), orig.MinBalance().Uint64())
	assert.False(orig.ValidateExactBalance())

	st.SubtractFromBalance(addrA, u256(10))
	assert.True(st.HasBalance(addrA, u256(50)))
	// floors accumulate as their maximum
	assert.Equal(uint64(60), orig.MinBalance().Uint64())

	assert.True(st.HasBalance(addrA, u256(5)))
	assert.Equal(uint64(60), orig.MinBalance().Uint64())

	assert.False(st.HasBalance(addrA, u256(1000)))
	assert.True(orig.ValidateExactBalance())

	// no floor for a balance received in the transaction
	st = state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	st.AddToBalance(addrB, u256(20))
	assert.True(st.HasBalance(addrB, u256(20)))
	orig, _ = st.Original(addrB)
	assert.True(orig.MinBalance().IsZero())
}

func TestGetCode(t *testing.T) {
	assert := assert.New(t)

	code := []byte{0x60, 0x01}
	db := newMemDB()
	acc := db.setAccount(addrA, 0, 1)
	acc.CodeHash = thor.Keccak256(code)
	db.code[acc.CodeHash] = code

	st := state.NewState(newBlockState(db), state.NewIncarnation(1, 0))
	assert.Equal(code, st.GetCode(addrA))
	assert.Nil(st.GetCode(addrB))
	assert.True(st.GetCodeHash(addrB).IsZero())

	newCode := []byte{0x60, 0x02}
	st.SetCode(addrB, newCode)
	assert.Equal(newCode, st.GetCode(addrB))
	assert.Equal(thor.Keccak256(newCode), st.GetCodeHash(addrB))
	assert.Equal(newCode, st.NewCode()[thor.Keccak256(newCode)])
}

func TestStateAbsorbsError(t *testing.T) {
	assert := assert.New(t)

	db := newMemDB()
	db.err = errors.New("disk failure")
	bs := newBlockState(db)
	st := state.NewState(bs, state.NewIncarnation(1, 0))

	assert.False(st.AccountExists(addrA))
	assert.Error(st.Error())
	assert.ErrorIs(st.Error(), db.err)
	assert.False(bs.CanMerge(st))
}
