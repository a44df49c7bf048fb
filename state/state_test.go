// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/thor"
)

func TestStateReadWrite(t *testing.T) {
	st := New()

	addr := thor.BytesToAddress([]byte("account"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	v, err := st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, storageKey, thor.BytesToBytes32([]byte("value")))
	v, err = st.GetStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("value")), v)

	// zero value clears the slot
	st.SetStorage(addr, storageKey, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, storageKey)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st := New()

	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("key"))

	values := []thor.Bytes32{
		thor.BytesToBytes32([]byte("v1")),
		thor.BytesToBytes32([]byte("v2")),
		thor.BytesToBytes32([]byte("v3")),
	}

	revisions := make([]int, 0, len(values))
	hashes := make([]thor.Bytes32, 0, len(values))
	for _, v := range values {
		hashes = append(hashes, st.Hash())
		revisions = append(revisions, st.NewCheckpoint())
		st.SetStorage(addr, key, v)
	}

	for i := len(values) - 1; i >= 0; i-- {
		st.RevertTo(revisions[i])
		assert.Equal(t, hashes[i], st.Hash(), "revision %d", i)
		got, err := st.GetStorage(addr, key)
		require.NoError(t, err)
		if i == 0 {
			assert.True(t, got.IsZero())
		} else {
			assert.Equal(t, values[i-1], got)
		}
	}

	// revert to the bottom keeps the state usable
	st.RevertTo(0)
	st.SetStorage(addr, key, values[0])
	got, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, values[0], got)
}

func TestStateCommit(t *testing.T) {
	st := New()
	addr := thor.BytesToAddress([]byte("account"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("a")))
	st.NewCheckpoint()
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("b")))
	before := st.Hash()

	assert.Equal(t, 2, st.Commit())
	assert.Equal(t, before, st.Hash())

	// a checkpoint after commit cannot revert committed values
	rev := st.NewCheckpoint()
	st.SetStorage(addr, k1, thor.Bytes32{})
	assert.NotEqual(t, before, st.Hash())
	st.RevertTo(rev)
	assert.Equal(t, before, st.Hash())

	st.SetStorage(addr, k1, thor.Bytes32{})
	st.Commit()
	v, err := st.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStateHashOrderIndependent(t *testing.T) {
	addr := thor.BytesToAddress([]byte("account"))
	a, b := New(), New()
	for i := range 5 {
		a.SetStorage(addr, thor.BytesToBytes32([]byte{byte(i)}), thor.BytesToBytes32([]byte{byte(i + 1)}))
	}
	for i := 4; i >= 0; i-- {
		b.SetStorage(addr, thor.BytesToBytes32([]byte{byte(i)}), thor.BytesToBytes32([]byte{byte(i + 1)}))
	}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, New().Hash().IsZero())
}

type stgValue struct {
	N *big.Int
}

func (v *stgValue) Encode() ([]byte, error) {
	if v.N.Sign() == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(v.N)
}

func (v *stgValue) Decode(data []byte) error {
	v.N = new(big.Int)
	if len(data) == 0 {
		return nil
	}
	return rlp.DecodeBytes(data, v.N)
}

func TestStructuredStorage(t *testing.T) {
	st := New()
	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("key"))

	var val stgValue
	require.NoError(t, st.GetStructuredStorage(addr, key, &val))
	assert.Equal(t, 0, val.N.Sign())

	require.NoError(t, st.SetStructuredStorage(addr, key, &stgValue{big.NewInt(42)}))
	require.NoError(t, st.GetStructuredStorage(addr, key, &val))
	assert.Equal(t, big.NewInt(42), val.N)

	var plain []uint64
	plainKey := thor.BytesToBytes32([]byte("plain"))
	require.NoError(t, st.SetStructuredStorage(addr, plainKey, []uint64{1, 2}))
	require.NoError(t, st.GetStructuredStorage(addr, plainKey, &plain))
	assert.Equal(t, []uint64{1, 2}, plain)

	// list values report the hash of raw data
	raw, _ := st.GetRawStorage(addr, plainKey)
	h, err := st.GetStorage(addr, plainKey)
	require.NoError(t, err)
	assert.Equal(t, thor.Blake2b(raw), h)
}

func TestStateDecodeError(t *testing.T) {
	st := New()
	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("key"))

	cause := errors.New("bad data")
	err := st.DecodeStorage(addr, key, func([]byte) error { return cause })
	var stateErr *Error
	require.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "state: bad data", err.Error())

	err = st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, cause })
	assert.ErrorIs(t, err, cause)
}
