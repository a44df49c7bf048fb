// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/authority"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "scenario")

var (
	PoolAddress      = thor.BytesToAddress([]byte("stakepool"))
	StakingAddress   = thor.BytesToAddress([]byte("staking-token"))
	RewardAddress    = thor.BytesToAddress([]byte("reward-token"))
	AuthorityAddress = thor.BytesToAddress([]byte("authority"))
)

// Env is a runtime hosting one pool, its tokens and its admin registry.
type Env struct {
	Runtime   *runtime.Runtime
	Staking   *token.Token
	Reward    *token.Token
	Authority *authority.Authority
	Pool      *staker.Staker
}

// NewEnv deploys a pool at tick 0. Admins are granted by owner.
func NewEnv(policy staker.Policy, sameToken bool, owner thor.Address, admins []thor.Address) (*Env, error) {
	rt := runtime.New(state.New(), tx.NewLog(), 0)

	stk := token.New(StakingAddress, "STK", rt.State(), rt.Events(), rt)
	rwd := stk
	if !sameToken {
		rwd = token.New(RewardAddress, "RWD", rt.State(), rt.Events(), rt)
	}
	auth := authority.New(AuthorityAddress, rt.State())
	auth.SetOwner(owner)

	env := &Env{
		Runtime:   rt,
		Staking:   stk,
		Reward:    rwd,
		Authority: auth,
		Pool:      staker.New(PoolAddress, rt.State(), rt.Events(), rt, stk, rwd, staker.Options{Policy: policy}),
	}
	for _, admin := range admins {
		if r := rt.Execute("grant", owner, func() error {
			_, err := auth.Add(owner, admin)
			return err
		}); r.Reverted {
			return nil, errors.Wrapf(r.Err, "grant %s", admin)
		}
	}
	rt.Commit()
	return env, nil
}

// Mint credits amounts of both tokens to addr and optionally approves the pool for both.
func (e *Env) Mint(addr thor.Address, staking, reward *uint256.Int, approve bool) error {
	r := e.Runtime.Execute("mint", addr, func() error {
		if !staking.IsZero() {
			if err := e.Staking.Mint(addr, staking); err != nil {
				return err
			}
		}
		if !reward.IsZero() {
			if err := e.Reward.Mint(addr, reward); err != nil {
				return err
			}
		}
		if !approve {
			return nil
		}
		if _, err := e.Staking.Approve(addr, PoolAddress, token.Infinite()); err != nil {
			return err
		}
		_, err := e.Reward.Approve(addr, PoolAddress, token.Infinite())
		return err
	})
	return r.Err
}

// MoveTo moves the clock to tick. When it changes, the pending clauses are committed first
// and the sealed block is returned.
func (e *Env) MoveTo(tick uint64) (*runtime.Block, error) {
	cur := e.Runtime.Tick()
	if tick == cur {
		return nil, nil
	}
	if tick < cur {
		return nil, e.Runtime.SetTick(tick)
	}
	blk := e.Runtime.Commit()
	return blk, e.Runtime.SetTick(tick)
}

// Op executes one pool operation and returns its receipt along with the claimed reward, if any.
// Approve sets the allowance of the pool over the caller's tokens to amount.
func (e *Env) Op(op string, from thor.Address, amount *uint256.Int, duration uint64, tokenName string) (*tx.Receipt, *uint256.Int) {
	paid := new(uint256.Int)
	r := e.Runtime.Execute(op, from, func() error {
		switch op {
		case "stake":
			return e.Pool.Stake(from, amount)
		case "withdraw":
			return e.Pool.Withdraw(from, amount)
		case "claim":
			reward, err := e.Pool.GetReward(from)
			if err == nil {
				paid = reward
			}
			return err
		case "exit":
			_, reward, err := e.Pool.Exit(from)
			if err == nil {
				paid = reward
			}
			return err
		case "fund":
			return e.Pool.AddFunding(from, amount)
		case "activate":
			return e.Pool.ActivateReward(e.Authority, from, amount, duration)
		case "approve":
			tok := e.Staking
			if tokenName == "reward" {
				tok = e.Reward
			}
			_, err := tok.Approve(from, PoolAddress, amount)
			return err
		default:
			return errors.Errorf("unknown op %q", op)
		}
	})
	return r, paid
}
