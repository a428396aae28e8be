// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/statecore/block"
	"github.com/vechain/statecore/thor"
)

// conform clears fields not yet introduced at rev.
func conform(rev thor.Revision, h *block.Header) {
	if rev < thor.London {
		h.BaseFee = nil
	}
	if rev < thor.Shanghai {
		h.WithdrawalsHash = nil
	}
	if rev < thor.Cancun {
		h.BlobGasUsed, h.ExcessBlobGas, h.ParentBeaconRoot = nil, nil, nil
	}
	if rev < thor.Prague {
		h.RequestsHash = nil
	}
}

func newFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0).Funcs(
		func(b *[]byte, c fuzz.Continue) {
			*b = make([]byte, 1+c.Intn(thor.MaxExtraDataSize))
			c.Read(*b)
		},
	)
}

func randomBlock(seed int64, rev thor.Revision) *block.Block {
	f := newFuzzer(seed)

	var h block.Header
	f.Fuzz(&h)
	conform(rev, &h)

	ommers := []*block.Header{}
	for range int(seed % 3) {
		var o block.Header
		f.Fuzz(&o)
		conform(rev, &o)
		ommers = append(ommers, &o)
	}

	to := common.BytesToAddress([]byte{byte(seed)})
	txs := types.Transactions{
		types.NewTx(&types.LegacyTx{Nonce: uint64(seed), GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(seed)}),
		types.NewTx(&types.DynamicFeeTx{ChainID: big.NewInt(1), GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(2), Gas: 21000, To: &to, Data: []byte{1, 2}}),
	}

	b := &block.Block{Header: &h, Transactions: txs, Ommers: ommers}
	if rev >= thor.Shanghai {
		b.Withdrawals = types.Withdrawals{{Index: uint64(seed), Validator: 1, Address: to, Amount: 32}}
	}
	return b
}

func TestBlockRoundTrip(t *testing.T) {
	revs := []thor.Revision{thor.Frontier, thor.Berlin, thor.London, thor.Paris, thor.Shanghai, thor.Cancun, thor.Prague}

	for _, rev := range revs {
		for seed := range int64(20) {
			b := randomBlock(seed, rev)

			enc, err := block.EncodeBlock(b)
			require.NoError(t, err)
			decoded, err := block.DecodeBlock(enc)
			require.NoError(t, err, "%v #%d", rev, seed)

			assert.Equal(t, b.Header, decoded.Header, "%v #%d", rev, seed)
			assert.Equal(t, b.Ommers, decoded.Ommers, "%v #%d", rev, seed)
			assert.Equal(t, b.Withdrawals, decoded.Withdrawals, "%v #%d", rev, seed)
			require.Len(t, decoded.Transactions, len(b.Transactions))
			for i, tx := range b.Transactions {
				assert.Equal(t, tx.Hash(), decoded.Transactions[i].Hash())
			}
			assert.Equal(t, b.Header.Hash(), decoded.Header.Hash())

			reenc, err := block.EncodeBlock(decoded)
			require.NoError(t, err)
			assert.Equal(t, enc, reenc)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	for seed := range int64(20) {
		var h block.Header
		newFuzzer(seed).Fuzz(&h)

		enc, err := block.EncodeHeader(&h)
		require.NoError(t, err)
		decoded, err := block.DecodeHeader(enc)
		require.NoError(t, err)
		assert.Equal(t, &h, decoded)
	}
}

func TestDecodeError(t *testing.T) {
	valid, err := block.EncodeBlock(randomBlock(1, thor.Cancun))
	require.NoError(t, err)

	h := &block.Header{Extra: make([]byte, thor.MaxExtraDataSize+1)}
	longExtra, err := block.EncodeHeader(h)
	require.NoError(t, err)
	longExtraBlock, err := rlp.EncodeToBytes([]any{h, []any{}, []any{}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		f     func([]byte) error
	}{
		{"empty", nil, decodeBlock},
		{"truncated", valid[:len(valid)-1], decodeBlock},
		{"trailing", append(append([]byte{}, valid...), 0x80), decodeBlock},
		{"not a list", []byte{0x80}, decodeBlock},
		{"extra data overflow", longExtra, decodeHeader},
		{"extra data overflow in block", longExtraBlock, decodeBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f(tt.input)
			var decodeErr *block.DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

func decodeBlock(data []byte) error {
	_, err := block.DecodeBlock(data)
	return err
}

func decodeHeader(data []byte) error {
	_, err := block.DecodeHeader(data)
	return err
}

func TestComputeOmmersHash(t *testing.T) {
	assert.Equal(t, thor.EmptyListHash, block.ComputeOmmersHash(nil))

	ommer := &block.Header{Number: 1, GasLimit: 5000}
	enc, err := rlp.EncodeToBytes([]*block.Header{ommer})
	require.NoError(t, err)
	assert.Equal(t, thor.Keccak256(enc), block.ComputeOmmersHash([]*block.Header{ommer}))
}

func TestComputeBloom(t *testing.T) {
	r1 := &types.Receipt{Bloom: types.BytesToBloom([]byte{0x01})}
	r2 := &types.Receipt{Bloom: types.BytesToBloom([]byte{0x10, 0x00})}

	bloom := block.ComputeBloom(types.Receipts{r1, r2})
	assert.Equal(t, types.BytesToBloom([]byte{0x10, 0x01}), bloom)
	assert.Equal(t, types.Bloom{}, block.ComputeBloom(nil))
}

func FuzzBlockDecoding(f *testing.F) {
	enc, _ := block.EncodeBlock(randomBlock(2, thor.Prague))
	f.Add(enc)
	f.Fuzz(func(t *testing.T, input []byte) {
		b, err := block.DecodeBlock(input)
		if err != nil {
			return
		}
		if _, err := block.EncodeBlock(b); err != nil {
			t.Errorf("failed to encode decoded block: %v", err)
		}
	})
}

func u256(v uint64) *uint256.Int { return uint256.NewInt(v) }
