// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/staker/accrual"
	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// RewardScale is the fixed point multiplier of the reward-per-unit accumulator.
const RewardScale = accrual.RewardScale

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker is a staking pool paying a reward token to stakers of a staking token,
// in proportion to their time weighted share of the total principal.
//
// Every mutating call is atomic: it runs inside a state checkpoint and an event log mark,
// and on any failure both are rolled back, token balances included, since the ledgers
// write to the same state. Staker is not safe for concurrent use; callers serialize
// all calls against a pool (see runtime.Runtime).
type Staker struct {
	addr         thor.Address
	state        *state.State
	events       *tx.Log
	clock        TickSource
	stakingToken Ledger
	rewardToken  Ledger
	opts         Options
	storage      *storage
}

// New create a new instance.
func New(
	addr thor.Address,
	state *state.State,
	events *tx.Log,
	clock TickSource,
	stakingToken Ledger,
	rewardToken Ledger,
	opts Options,
) *Staker {
	return &Staker{
		addr:         addr,
		state:        state,
		events:       events,
		clock:        clock,
		stakingToken: stakingToken,
		rewardToken:  rewardToken,
		opts:         opts,
		storage:      newStorage(solidity.NewContext(addr, state)),
	}
}

// Address returns the pool address, which holds the staked and reward tokens.
func (s *Staker) Address() thor.Address { return s.addr }

// Policy returns the overlap policy the pool was created with.
func (s *Staker) Policy() Policy { return s.opts.Policy }

// SameToken reports whether stakes and rewards are paid in the same token.
func (s *Staker) SameToken() bool {
	return s.stakingToken.Address() == s.rewardToken.Address()
}

//
// Getters - no state change
//

// BalanceOf returns the principal staked by participant.
func (s *Staker) BalanceOf(participant thor.Address) (*uint256.Int, error) {
	p, err := s.storage.getParticipant(participant)
	if err != nil {
		return nil, err
	}
	return p.Principal, nil
}

// TotalSupply returns the total principal staked in the pool.
func (s *Staker) TotalSupply() (*uint256.Int, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return nil, err
	}
	return pool.TotalPrincipal, nil
}

// Participant returns a copy of the stored participant record.
func (s *Staker) Participant(participant thor.Address) (*accrual.Participant, error) {
	return s.storage.getParticipant(participant)
}

// Program returns a copy of the pool state.
func (s *Staker) Program() (*accrual.Pool, error) {
	return s.storage.getPool()
}

// Earned returns the reward participant could claim right now.
func (s *Staker) Earned(participant thor.Address) (*uint256.Int, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return nil, err
	}
	p, err := s.storage.getParticipant(participant)
	if err != nil {
		return nil, err
	}
	return pool.Earned(s.clock.Tick(), p)
}

// RewardPerUnit returns the accumulator projected to the current tick.
func (s *Staker) RewardPerUnit() (*uint256.Int, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return nil, err
	}
	return pool.RewardPerUnit(s.clock.Tick())
}

// LastTickRewardApplicable returns the current tick capped at the program end.
func (s *Staker) LastTickRewardApplicable() (uint64, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return 0, err
	}
	return min(s.clock.Tick(), pool.ProgramEndTick), nil
}

// RewardForDuration returns the total emission of the current program.
func (s *Staker) RewardForDuration() (*uint256.Int, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return nil, err
	}
	return pool.ForDuration()
}

//
// Setters - state change
//

// Stake deposits amount of the staking token from participant, who must have approved the pool.
func (s *Staker) Stake(participant thor.Address, amount *uint256.Int) error {
	return s.transact("stake", func(now uint64) error {
		if amount.IsZero() {
			return ErrInvalidAmount
		}
		pool, p, err := s.checkpoint(now, participant)
		if err != nil {
			return err
		}
		if p.Principal, err = addAmount(p.Principal, amount); err != nil {
			return err
		}
		if pool.TotalPrincipal, err = addAmount(pool.TotalPrincipal, amount); err != nil {
			return err
		}
		if err := s.save(pool, participant, p); err != nil {
			return err
		}
		if err := s.pull(s.stakingToken, participant, amount); err != nil {
			return err
		}
		s.emit(now, &Staked{Participant: participant, Amount: amount.Clone()})
		logger.Debug("staked", "participant", participant, "amount", amount, "total", pool.TotalPrincipal)
		return nil
	})
}

// Withdraw returns amount of principal to participant.
func (s *Staker) Withdraw(participant thor.Address, amount *uint256.Int) error {
	return s.transact("withdraw", func(now uint64) error {
		_, err := s.withdraw(now, participant, amount)
		return err
	})
}

// GetReward pays the settled reward of participant. Claiming nothing is a silent no-op:
// it returns zero, transfers nothing and emits nothing.
func (s *Staker) GetReward(participant thor.Address) (*uint256.Int, error) {
	var paid *uint256.Int
	err := s.transact("claim", func(now uint64) (err error) {
		paid, err = s.claim(now, participant)
		if err == nil && paid.IsZero() {
			return errNoop
		}
		return err
	})
	if err == errNoop {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// Exit withdraws the full principal and claims the reward in one call.
func (s *Staker) Exit(participant thor.Address) (withdrawn *uint256.Int, paid *uint256.Int, err error) {
	err = s.transact("exit", func(now uint64) error {
		p, err := s.storage.getParticipant(participant)
		if err != nil {
			return err
		}
		if withdrawn, err = s.withdraw(now, participant, p.Principal); err != nil {
			return err
		}
		paid, err = s.claim(now, participant)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return withdrawn, paid, nil
}

// AddFunding moves amount of the reward token from funder into the pool.
// It does not change the emission rate; ActivateReward spends the funds.
func (s *Staker) AddFunding(funder thor.Address, amount *uint256.Int) error {
	return s.transact("fund", func(now uint64) error {
		if amount.IsZero() {
			return ErrInvalidAmount
		}
		if err := s.pull(s.rewardToken, funder, amount); err != nil {
			return err
		}
		s.emit(now, &Funded{Funder: funder, Amount: amount.Clone()})
		logger.Debug("funded", "funder", funder, "amount", amount)
		return nil
	})
}

// ActivateReward starts a program emitting totalAmount over durationTicks, starting now.
// The caller must be authorized by auth. While a program is still emitting, the pool policy
// decides between ErrProgramActive and folding the leftover into the new program.
// The pool must hold enough unpromised reward tokens to cover the whole emission.
func (s *Staker) ActivateReward(auth Authorizer, caller thor.Address, totalAmount *uint256.Int, durationTicks uint64) error {
	return s.transact("activate", func(now uint64) error {
		if auth == nil {
			return ErrUnauthorized
		}
		ok, err := auth.Authorized(caller)
		if err != nil {
			return errors.Wrap(err, "authorize")
		}
		if !ok {
			return ErrUnauthorized.Withf("%s", caller)
		}
		if durationTicks == 0 {
			return ErrInvalidDuration
		}

		pool, err := s.storage.getPool()
		if err != nil {
			return err
		}
		if err := pool.Accrue(now); err != nil {
			return err
		}

		leftover := new(uint256.Int)
		if pool.Active(now) {
			if s.opts.Policy != PolicyExtend {
				return ErrProgramActive.Withf("ends at tick %d", pool.ProgramEndTick)
			}
			if leftover, err = pool.Leftover(now); err != nil {
				return err
			}
		}

		need, err := addAmount(leftover, totalAmount)
		if err != nil {
			return err
		}
		available, err := s.available(pool)
		if err != nil {
			return err
		}
		if available.Lt(need) {
			return ErrInsufficientFunding.Withf("available %s, need %s", available.Dec(), need.Dec())
		}

		rate := new(uint256.Int).Div(need, uint256.NewInt(durationTicks))
		if rate.IsZero() {
			return ErrInvalidAmount.Withf("reward %s over %d ticks emits nothing", need.Dec(), durationTicks)
		}
		end := now + durationTicks
		if end < now {
			return ErrArithmeticOverflow
		}

		pool.RewardRate = rate
		pool.ProgramDurationTicks = durationTicks
		pool.ProgramEndTick = end
		pool.LastUpdateTick = now
		if err := s.storage.setPool(pool); err != nil {
			return err
		}

		s.emit(now, &DurationUpdated{Duration: durationTicks})
		s.emit(now, &RewardUpdated{Amount: totalAmount.Clone()})
		metricActivations().AddWithLabel(1, map[string]string{
			"policy":   s.opts.Policy.String(),
			"extended": boolLabel(!leftover.IsZero()),
		})
		logger.Info("reward program activated",
			"caller", caller, "amount", totalAmount, "leftover", leftover,
			"rate", rate, "start", now, "end", end)
		return nil
	})
}

// available returns the reward tokens held by the pool and not yet promised to anyone.
func (s *Staker) available(pool *accrual.Pool) (*uint256.Int, error) {
	bal, err := s.rewardToken.BalanceOf(s.addr)
	if err != nil {
		return nil, errors.Wrap(err, "reward balance")
	}
	reserved := pool.Owed.Clone()
	if s.SameToken() {
		if reserved, err = addAmount(reserved, pool.TotalPrincipal); err != nil {
			return nil, err
		}
	}
	if bal.Lt(reserved) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(bal, reserved), nil
}

//
// internals, run inside transact
//

// transact runs fn atomically against the current tick.
func (s *Staker) transact(op string, fn func(now uint64) error) error {
	now := s.clock.Tick()
	rev := s.state.NewCheckpoint()
	mark := s.events.Len()

	err := fn(now)
	if err != nil {
		s.state.RevertTo(rev)
		s.events.Truncate(mark)
	}

	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "status": opStatus(err)})
	if err == nil {
		s.observe()
	} else if err != errNoop {
		logger.Debug("call reverted", "op", op, "tick", now, "err", err)
	}
	return err
}

// checkpoint loads the pool and participant and brings both up to now.
func (s *Staker) checkpoint(now uint64, participant thor.Address) (*accrual.Pool, *accrual.Participant, error) {
	pool, err := s.storage.getPool()
	if err != nil {
		return nil, nil, err
	}
	p, err := s.storage.getParticipant(participant)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Checkpoint(now, p); err != nil {
		return nil, nil, err
	}
	return pool, p, nil
}

func (s *Staker) save(pool *accrual.Pool, participant thor.Address, p *accrual.Participant) error {
	if err := s.storage.setPool(pool); err != nil {
		return err
	}
	return s.storage.setParticipant(participant, p)
}

func (s *Staker) withdraw(now uint64, participant thor.Address, amount *uint256.Int) (*uint256.Int, error) {
	pool, p, err := s.checkpoint(now, participant)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() || p.Principal.Lt(amount) {
		return nil, ErrInsufficientBalance.Withf("principal %s, requested %s", p.Principal.Dec(), amount.Dec())
	}
	amount = amount.Clone()
	p.Principal = new(uint256.Int).Sub(p.Principal, amount)
	pool.TotalPrincipal = new(uint256.Int).Sub(pool.TotalPrincipal, amount)
	if err := s.save(pool, participant, p); err != nil {
		return nil, err
	}
	if err := s.push(s.stakingToken, participant, amount); err != nil {
		return nil, err
	}
	s.emit(now, &Withdrawn{Participant: participant, Amount: amount.Clone()})
	logger.Debug("withdrawn", "participant", participant, "amount", amount, "total", pool.TotalPrincipal)
	return amount, nil
}

func (s *Staker) claim(now uint64, participant thor.Address) (*uint256.Int, error) {
	pool, p, err := s.checkpoint(now, participant)
	if err != nil {
		return nil, err
	}
	reward := p.SettledReward
	if reward.IsZero() {
		return reward, nil
	}
	p.SettledReward = new(uint256.Int)
	pool.Pay(reward)
	if err := s.save(pool, participant, p); err != nil {
		return nil, err
	}
	if err := s.push(s.rewardToken, participant, reward); err != nil {
		return nil, err
	}
	s.emit(now, &RewardPaid{Participant: participant, Amount: reward.Clone()})
	logger.Debug("reward paid", "participant", participant, "amount", reward)
	return reward, nil
}

// pull moves amount from account into the pool.
func (s *Staker) pull(token Ledger, account thor.Address, amount *uint256.Int) error {
	ok, err := token.TransferFrom(s.addr, account, s.addr, amount)
	if err != nil {
		return errors.Wrap(err, "transferFrom")
	}
	if !ok {
		return ErrExternalTransferFailed.Withf("transferFrom %s of %s", account, amount.Dec())
	}
	return nil
}

// push moves amount from the pool to account.
func (s *Staker) push(token Ledger, account thor.Address, amount *uint256.Int) error {
	ok, err := token.Transfer(s.addr, account, amount)
	if err != nil {
		return errors.Wrap(err, "transfer")
	}
	if !ok {
		return ErrExternalTransferFailed.Withf("transfer to %s of %s", account, amount.Dec())
	}
	return nil
}

func (s *Staker) emit(now uint64, ev tx.Event) {
	s.events.Emit(s.addr, now, ev)
}

func addAmount(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

func isRevert(err error) bool {
	return reverts.IsRevertErr(err)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
