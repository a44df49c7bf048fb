// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/thor"
)

type Staked struct {
	Participant thor.Address
	Amount      *uint256.Int
}

func (Staked) EventName() string { return "Staked" }

type Withdrawn struct {
	Participant thor.Address
	Amount      *uint256.Int
}

func (Withdrawn) EventName() string { return "Withdrawn" }

type RewardPaid struct {
	Participant thor.Address
	Amount      *uint256.Int
}

func (RewardPaid) EventName() string { return "RewardPaid" }

// DurationUpdated carries the duration of a newly activated program.
type DurationUpdated struct {
	Duration uint64
}

func (DurationUpdated) EventName() string { return "DurationUpdated" }

// RewardUpdated carries the amount an activation added, leftover excluded.
type RewardUpdated struct {
	Amount *uint256.Int
}

func (RewardUpdated) EventName() string { return "RewardUpdated" }

type Funded struct {
	Funder thor.Address
	Amount *uint256.Int
}

func (Funded) EventName() string { return "Funded" }
