// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/thor"
)

type Key interface {
	Bytes() []byte
}

type positionKey struct {
	base thor.Bytes32
	key  string
}

// positions caches blake2b slot positions; keys are hashed on every access otherwise.
var positions = cache.MustNewLRU[positionKey, thor.Bytes32](8192)

// PositionCacheStats exposes hit/miss counts of the shared position cache.
func PositionCacheStats() *cache.Stats {
	return positions.Stats()
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded. A missing entry decodes to the zero value (or a fresh pointer for pointer types).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	k := key.Bytes()
	pk := positionKey{base: m.basePos, key: string(k)}
	if pos, ok := positions.Get(pk); ok {
		return pos
	}
	pos := thor.Blake2b(k, m.basePos.Bytes())
	positions.Add(pk, pos)
	return pos
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	return decodeSlot[V](m.context, m.position(key))
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encodeSlot(m.context, m.position(key), value)
}

func decodeSlot[V any](ctx *Context, pos thor.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func encodeSlot[V any](ctx *Context, pos thor.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the entry, so the slot no longer contributes to the state hash.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
