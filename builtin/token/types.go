// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

// Clock supplies the tick recorded with emitted events.
type Clock interface {
	Tick() uint64
}

// Transfer is emitted when value moves between accounts. Mints come from the zero address.
type Transfer struct {
	From  thor.Address
	To    thor.Address
	Value *uint256.Int
}

func (Transfer) EventName() string { return "Transfer" }

// Approval is emitted when an allowance is set.
type Approval struct {
	Owner   thor.Address
	Spender thor.Address
	Value   *uint256.Int
}

func (Approval) EventName() string { return "Approval" }
