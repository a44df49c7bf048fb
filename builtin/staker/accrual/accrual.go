// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual holds the reward-per-unit accumulator math. It has no storage of its own:
// callers load a Pool and Participant, apply the checkpoint functions and store them back.
package accrual

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/builtin/staker/reverts"
)

// RewardScale is the fixed point multiplier of the reward-per-unit accumulator.
const RewardScale = 1_000_000_000_000_000_000

var (
	scale = uint256.NewInt(RewardScale)

	ErrOverflow = reverts.New("staker: arithmetic overflow")
)

func mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

func add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// mulDiv returns x*y/d truncated, with a 512 bit intermediate product.
func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Accrue brings the global accumulator up to now.
// Emission stops at ProgramEndTick. Intervals without any principal are forfeited.
// The units emitted to stakers are added to Owed.
func (p *Pool) Accrue(now uint64) error {
	effective := min(now, p.ProgramEndTick)
	if !p.TotalPrincipal.IsZero() && effective > p.LastUpdateTick {
		emitted, err := mul(uint256.NewInt(effective-p.LastUpdateTick), p.RewardRate)
		if err != nil {
			return err
		}
		delta, err := mulDiv(emitted, scale, p.TotalPrincipal)
		if err != nil {
			return err
		}
		stored, err := add(p.RewardPerUnitStored, delta)
		if err != nil {
			return err
		}
		owed, err := add(p.Owed, emitted)
		if err != nil {
			return err
		}
		p.RewardPerUnitStored = stored
		p.Owed = owed
	}
	p.LastUpdateTick = max(p.LastUpdateTick, effective)
	return nil
}

// Settle moves the reward accrued by the participant since its last snapshot into SettledReward.
// The pool must have been accrued first.
func (p *Pool) Settle(part *Participant) error {
	pending, err := p.pending(part)
	if err != nil {
		return err
	}
	settled, err := add(part.SettledReward, pending)
	if err != nil {
		return err
	}
	part.SettledReward = settled
	part.RewardPerUnitPaid = p.RewardPerUnitStored.Clone()
	return nil
}

// Checkpoint is Accrue followed by Settle.
func (p *Pool) Checkpoint(now uint64, part *Participant) error {
	if err := p.Accrue(now); err != nil {
		return err
	}
	return p.Settle(part)
}

func (p *Pool) pending(part *Participant) (*uint256.Int, error) {
	// the accumulator never decreases, so a snapshot is never ahead of it
	diff := new(uint256.Int).Sub(p.RewardPerUnitStored, part.RewardPerUnitPaid)
	return mulDiv(part.Principal, diff, scale)
}

// RewardPerUnit projects the accumulator to now without mutating the pool.
func (p *Pool) RewardPerUnit(now uint64) (*uint256.Int, error) {
	projected := p.Copy()
	if err := projected.Accrue(now); err != nil {
		return nil, err
	}
	return projected.RewardPerUnitStored, nil
}

// Earned answers what checkpointing the participant at now would settle, mutating neither argument.
func (p *Pool) Earned(now uint64, part *Participant) (*uint256.Int, error) {
	projected := p.Copy()
	snapshot := part.Copy()
	if err := projected.Checkpoint(now, snapshot); err != nil {
		return nil, err
	}
	return snapshot.SettledReward, nil
}

// Leftover returns the units the running program has yet to emit at now.
func (p *Pool) Leftover(now uint64) (*uint256.Int, error) {
	if now >= p.ProgramEndTick {
		return new(uint256.Int), nil
	}
	return mul(uint256.NewInt(p.ProgramEndTick-now), p.RewardRate)
}

// ForDuration returns the total emission of the current program.
func (p *Pool) ForDuration() (*uint256.Int, error) {
	return mul(p.RewardRate, uint256.NewInt(p.ProgramDurationTicks))
}

// Pay removes amount from Owed once it has been transferred out.
func (p *Pool) Pay(amount *uint256.Int) {
	if p.Owed.Lt(amount) {
		p.Owed = new(uint256.Int)
		return
	}
	p.Owed = new(uint256.Int).Sub(p.Owed, amount)
}
