// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"errors"

	"github.com/vechain/stakepool/builtin/staker/accrual"
	"github.com/vechain/stakepool/builtin/staker/reverts"
)

var (
	ErrInsufficientBalance    = reverts.New("staker: insufficient balance")
	ErrUnauthorized           = reverts.New("staker: unauthorized")
	ErrProgramActive          = reverts.New("staker: reward program still active")
	ErrInsufficientFunding    = reverts.New("staker: insufficient reward funding")
	ErrExternalTransferFailed = reverts.New("staker: token transfer failed")
	ErrInvalidAmount          = reverts.New("staker: invalid amount")
	ErrInvalidDuration        = reverts.New("staker: invalid duration")
	ErrArithmeticOverflow     = accrual.ErrOverflow

	// errNoop rolls back a call that turned out to have nothing to do.
	errNoop = errors.New("noop")
)
