// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"github.com/holiman/uint256"
)

// Pool is the global state of a staking pool.
type Pool struct {
	TotalPrincipal       *uint256.Int
	RewardPerUnitStored  *uint256.Int
	LastUpdateTick       uint64
	RewardRate           *uint256.Int
	ProgramEndTick       uint64
	ProgramDurationTicks uint64
	// Owed counts units emitted to stakers and not yet paid out.
	// Payouts are truncated per participant, so a few units of rounding dust
	// per accrual stay here for good and are never offered again.
	Owed *uint256.Int
}

// NewPool returns a pool with every counter at zero.
func NewPool() *Pool {
	p := &Pool{}
	p.Normalize()
	return p
}

// Normalize replaces nil amounts with zero, as decoded from empty storage.
func (p *Pool) Normalize() {
	nz(&p.TotalPrincipal)
	nz(&p.RewardPerUnitStored)
	nz(&p.RewardRate)
	nz(&p.Owed)
}

// Active reports whether the program is still emitting at now.
func (p *Pool) Active(now uint64) bool {
	return now < p.ProgramEndTick
}

// Copy returns a deep copy.
func (p *Pool) Copy() *Pool {
	cpy := *p
	cpy.TotalPrincipal = p.TotalPrincipal.Clone()
	cpy.RewardPerUnitStored = p.RewardPerUnitStored.Clone()
	cpy.RewardRate = p.RewardRate.Clone()
	cpy.Owed = p.Owed.Clone()
	return &cpy
}

// Participant is the per staker record. It persists at zero principal after a full withdrawal.
type Participant struct {
	Principal         *uint256.Int
	RewardPerUnitPaid *uint256.Int
	SettledReward     *uint256.Int
}

func NewParticipant() *Participant {
	p := &Participant{}
	p.Normalize()
	return p
}

// Normalize replaces nil amounts with zero, as decoded from empty storage.
func (p *Participant) Normalize() {
	nz(&p.Principal)
	nz(&p.RewardPerUnitPaid)
	nz(&p.SettledReward)
}

// IsEmpty returns whether the record was never written.
func (p *Participant) IsEmpty() bool {
	return p.Principal.IsZero() && p.RewardPerUnitPaid.IsZero() && p.SettledReward.IsZero()
}

// Copy returns a deep copy.
func (p *Participant) Copy() *Participant {
	return &Participant{
		Principal:         p.Principal.Clone(),
		RewardPerUnitPaid: p.RewardPerUnitPaid.Clone(),
		SettledReward:     p.SettledReward.Clone(),
	}
}

func nz(v **uint256.Int) {
	if *v == nil {
		*v = new(uint256.Int)
	}
}
