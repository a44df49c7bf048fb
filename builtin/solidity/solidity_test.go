// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
}

func newTestContext() *Context {
	return NewContext(thor.Address{1}, state.New())
}

func TestMappingValue(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[thor.Address, TestStruct](ctx, thor.Bytes32{1})

	empty, err := m.Get(thor.Address{2})
	require.NoError(t, err)
	assert.Equal(t, TestStruct{}, empty)

	val := TestStruct{Field1: 7, Amount: big.NewInt(100), Addr1: thor.Address{9}}
	require.NoError(t, m.Set(thor.Address{2}, val))

	got, err := m.Get(thor.Address{2})
	require.NoError(t, err)
	assert.Equal(t, val, got)

	other, err := m.Get(thor.Address{3})
	require.NoError(t, err)
	assert.Equal(t, TestStruct{}, other)
}

func TestMappingPointer(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{2})

	got, err := m.Get(thor.Address{1})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(0), got.Field1)

	require.NoError(t, m.Set(thor.Address{1}, &TestStruct{Field1: 3, Amount: big.NewInt(1)}))
	got, err = m.Get(thor.Address{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Field1)

	m.Delete(thor.Address{1})
	got, err = m.Get(thor.Address{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
	assert.True(t, ctx.State().Hash().IsZero())
}

func TestMappingSeparateBases(t *testing.T) {
	ctx := newTestContext()
	a := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{2})

	require.NoError(t, a.Set(thor.Address{1}, 10))
	require.NoError(t, b.Set(thor.Address{1}, 20))

	va, err := a.Get(thor.Address{1})
	require.NoError(t, err)
	vb, err := b.Get(thor.Address{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), va)
	assert.Equal(t, uint64(20), vb)
}

func TestMappingPositionCache(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{0xca, 0xfe})

	_, hit0, _ := PositionCacheStats().Stats()
	_, err := m.Get(thor.Address{0xaa})
	require.NoError(t, err)
	_, err = m.Get(thor.Address{0xaa})
	require.NoError(t, err)
	_, hit1, _ := PositionCacheStats().Stats()
	assert.GreaterOrEqual(t, hit1-hit0, int64(1))
}

func TestMappingRevert(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{1})
	require.NoError(t, m.Set(thor.Address{1}, 1))

	rev := ctx.State().NewCheckpoint()
	require.NoError(t, m.Set(thor.Address{1}, 2))
	ctx.State().RevertTo(rev)

	v, err := m.Get(thor.Address{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext()
	u := NewUint256(ctx, thor.Bytes32{1})

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	u.Set(uint256.NewInt(1000))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), v)

	require.NoError(t, u.Add(uint256.NewInt(500)))
	v, _ = u.Get()
	assert.Equal(t, uint64(1500), v.Uint64())

	require.NoError(t, u.Sub(uint256.NewInt(1500)))
	v, _ = u.Get()
	assert.True(t, v.IsZero())

	assert.ErrorIs(t, u.Sub(uint256.NewInt(1)), ErrUint256Underflow)

	maxVal := new(uint256.Int).SetAllOne()
	u.Set(maxVal)
	assert.ErrorIs(t, u.Add(uint256.NewInt(1)), ErrUint256Overflow)
	v, _ = u.Get()
	assert.Equal(t, maxVal, v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext()
	a := NewAddress(ctx, thor.Bytes32{1})

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	addr := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	a.Set(addr)
	got, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	a.Set(thor.Address{})
	assert.True(t, ctx.State().Hash().IsZero())
}

func TestUint64(t *testing.T) {
	ctx := newTestContext()
	u := NewUint64(ctx, thor.Bytes32{3})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Zero(t, v)

	u.Set(1<<40 + 5)
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40+5), v)

	u.Set(0)
	assert.True(t, ctx.State().Hash().IsZero())
}

func TestRaw(t *testing.T) {
	ctx := newTestContext()
	r := NewRaw[*TestStruct](ctx, thor.Bytes32{4})

	got, err := r.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Amount)

	require.NoError(t, r.Upsert(&TestStruct{Field1: 1, Amount: big.NewInt(42)}))
	got, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Field1)
	assert.Equal(t, big.NewInt(42), got.Amount)

	ctx.State().SetRawStorage(ctx.Address(), thor.Bytes32{4}, []byte{0xc1, 0xff, 0xff})
	_, err = r.Get()
	assert.Error(t, err)
}
