// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

// Ledger is a fungible token ledger. A false result means the ledger refused the transfer
// (balance or allowance); an error means the ledger itself failed.
type Ledger interface {
	Address() thor.Address
	Transfer(caller, to thor.Address, amount *uint256.Int) (bool, error)
	TransferFrom(caller, from, to thor.Address, amount *uint256.Int) (bool, error)
	BalanceOf(addr thor.Address) (*uint256.Int, error)
}

// TickSource is the monotonically non-decreasing clock driving emission.
type TickSource interface {
	Tick() uint64
}

// Authorizer decides who may activate reward programs.
type Authorizer interface {
	Authorized(caller thor.Address) (bool, error)
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(caller thor.Address) (bool, error)

func (f AuthorizerFunc) Authorized(caller thor.Address) (bool, error) {
	return f(caller)
}
