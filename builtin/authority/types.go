// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
)

var (
	_ state.StorageEncoder = (*entry)(nil)
	_ state.StorageDecoder = (*entry)(nil)
	_ state.StorageEncoder = (*addressPtr)(nil)
	_ state.StorageDecoder = (*addressPtr)(nil)
)

// entry is a node of the admin list.
type entry struct {
	Granter thor.Address
	Active  bool
	Prev    *thor.Address `rlp:"nil"`
	Next    *thor.Address `rlp:"nil"`
}

func (e *entry) Encode() ([]byte, error) {
	if e.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(e)
}

func (e *entry) Decode(data []byte) error {
	if len(data) == 0 {
		*e = entry{}
		return nil
	}
	return rlp.DecodeBytes(data, e)
}

func (e *entry) IsEmpty() bool {
	return e.Granter.IsZero() &&
		!e.Active &&
		e.Prev == nil &&
		e.Next == nil
}

// IsLinked returns whether the entry is in the list, unless it is the only node.
func (e *entry) IsLinked() bool {
	return e.Prev != nil || e.Next != nil
}

type addressPtr struct {
	Address *thor.Address `rlp:"nil"`
}

func (ap *addressPtr) Encode() ([]byte, error) {
	if ap.Address == nil {
		return nil, nil
	}
	return rlp.EncodeToBytes(&ap.Address)
}

func (ap *addressPtr) Decode(data []byte) error {
	if len(data) == 0 {
		ap.Address = nil
		return nil
	}
	return rlp.DecodeBytes(data, &ap.Address)
}

// Admin is a listed admin as returned by All.
type Admin struct {
	Address thor.Address
	Granter thor.Address
	Active  bool
}
