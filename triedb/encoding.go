// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package triedb

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/statecore/block"
	"github.com/vechain/statecore/calltrace"
	"github.com/vechain/statecore/kv"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

// buckets
const (
	accountBucket kv.Bucket = "a" // addr => rlp(account)
	storageBucket kv.Bucket = "s" // addr + incarnation + key => trimmed value
	codeBucket    kv.Bucket = "c" // hash => code
	blockBucket   kv.Bucket = "b" // number => rlp(blockRecord)
	metaBucket    kv.Bucket = "m"
)

var bestKey = []byte("best")

// slotPrefix returns prefix of all slots of the account's incarnation.
func slotPrefix(addr thor.Address, inc state.Incarnation) []byte {
	k := make([]byte, 0, len(addr)+16+32)
	k = append(k, addr[:]...)
	k = binary.BigEndian.AppendUint64(k, inc.Block)
	return binary.BigEndian.AppendUint64(k, inc.Tx)
}

func slotKey(addr thor.Address, inc state.Incarnation, key thor.Bytes32) []byte {
	return append(slotPrefix(addr, inc), key[:]...)
}

func numberKey(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

func trimValue(v thor.Bytes32) []byte {
	return bytes.TrimLeft(v[:], "\x00")
}

func encodeAccount(acc *state.Account) []byte {
	data, err := rlp.EncodeToBytes(acc)
	if err != nil {
		panic(err)
	}
	return data
}

func decodeAccount(data []byte) (*state.Account, error) {
	var acc state.Account
	if err := rlp.DecodeBytes(data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// AccountLeaf is the account as stored in the account trie.
type AccountLeaf struct {
	Nonce       uint64
	Balance     *uint256.Int
	StorageRoot thor.Bytes32
	CodeHash    thor.Bytes32
}

func encodeLeaf(acc *state.Account, storageRoot thor.Bytes32) []byte {
	data, err := rlp.EncodeToBytes(&AccountLeaf{
		Nonce:       acc.Nonce,
		Balance:     &acc.Balance,
		StorageRoot: storageRoot,
		CodeHash:    acc.CodeHash,
	})
	if err != nil {
		panic(err)
	}
	return data
}

func encodeSlotLeaf(v thor.Bytes32) []byte {
	data, err := rlp.EncodeToBytes(trimValue(v))
	if err != nil {
		panic(err)
	}
	return data
}

// blockRecord is the persisted form of state.BlockData.
type blockRecord struct {
	ID           thor.Bytes32
	Header       *block.Header
	Transactions types.Transactions
	Ommers       []*block.Header
	Receipts     types.Receipts
	CallFrames   [][]calltrace.CallFrame
	Senders      []thor.Address
	Withdrawals  types.Withdrawals `rlp:"optional"`
}

func encodeBlockData(data *state.BlockData) ([]byte, error) {
	return rlp.EncodeToBytes(&blockRecord{
		ID:           data.ID,
		Header:       data.Header,
		Transactions: data.Transactions,
		Ommers:       data.Ommers,
		Receipts:     data.Receipts,
		CallFrames:   data.CallFrames,
		Senders:      data.Senders,
		Withdrawals:  data.Withdrawals,
	})
}

func decodeBlockData(enc []byte) (*state.BlockData, error) {
	var r blockRecord
	if err := rlp.DecodeBytes(enc, &r); err != nil {
		return nil, err
	}
	return &state.BlockData{
		ID:           r.ID,
		Header:       r.Header,
		Transactions: r.Transactions,
		Ommers:       r.Ommers,
		Receipts:     r.Receipts,
		CallFrames:   r.CallFrames,
		Senders:      r.Senders,
		Withdrawals:  r.Withdrawals,
	}, nil
}
