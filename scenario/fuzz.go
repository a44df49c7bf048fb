// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"fmt"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/thor"
)

var fuzzOps = []string{"stake", "stake", "withdraw", "claim", "exit", "fund", "activate", "approve"}

// FuzzOptions configures a randomized run.
type FuzzOptions struct {
	Policy    staker.Policy
	SameToken bool
	// Stakers is the number of participants, 3 when zero.
	Stakers int
	// MaxAmount bounds the amount of a single operation, 1000 when zero.
	MaxAmount uint64
}

// InvariantError reports a broken pool invariant.
type InvariantError struct {
	Seed      int64
	Step      int
	Op        string
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("seed %d step %d (%s): %s violated: %s", e.Seed, e.Step, e.Op, e.Invariant, e.Detail)
}

// FuzzReport summarizes a randomized run.
type FuzzReport struct {
	Seed     int64
	Steps    int
	Clauses  int
	Reverted int
	Blocks   int
	Reverts  map[string]int
	Program  string
}

type fuzzOp struct {
	Kind     int
	Who      int
	Amount   uint64
	Duration uint64
	Advance  uint64
}

// Fuzz drives steps random operations against a fresh pool, deterministically for seed,
// and checks the pool invariants after every step:
//
//   - conservation: total supply equals the sum of principals
//   - the reward per unit accumulator never decreases
//   - custody: the pool holds at least the total principal in staking tokens
//   - solvency: the pool holds every owed reward on top of the principal when tokens are shared,
//     and owed covers what participants have earned
//   - a reverted clause leaves state and events untouched
func Fuzz(seed int64, steps int, opts FuzzOptions) (*FuzzReport, error) {
	if opts.Stakers <= 0 {
		opts.Stakers = 3
	}
	if opts.MaxAmount == 0 {
		opts.MaxAmount = 1000
	}
	owner := mustAddressOf("owner")
	admin := mustAddressOf("admin")
	env, err := NewEnv(opts.Policy, opts.SameToken, owner, []thor.Address{admin})
	if err != nil {
		return nil, err
	}

	stakers := make([]thor.Address, opts.Stakers)
	for i := range stakers {
		stakers[i] = mustAddressOf(fmt.Sprintf("staker-%d", i))
		bal := uint256.NewInt(opts.MaxAmount * 10)
		if err := env.Mint(stakers[i], bal, new(uint256.Int), true); err != nil {
			return nil, err
		}
	}
	if err := env.Mint(admin, new(uint256.Int), uint256.NewInt(opts.MaxAmount*uint64(steps+1)), true); err != nil {
		return nil, err
	}
	callers := append([]thor.Address{admin}, stakers...)

	maxAmount := opts.MaxAmount
	f := fuzz.NewWithSeed(seed).NilChance(0).Funcs(func(op *fuzzOp, c fuzz.Continue) {
		op.Kind = c.Intn(len(fuzzOps))
		op.Who = c.Intn(len(callers))
		op.Amount = c.Uint64() % (maxAmount + 1)
		op.Duration = c.Uint64() % 50
		op.Advance = c.Uint64() % 4
	})

	report := &FuzzReport{Seed: seed, Steps: steps, Reverts: make(map[string]int)}
	chk := &checker{env: env, seed: seed, stakers: callers, sameToken: opts.SameToken, lastRPU: new(uint256.Int)}

	for i := range steps {
		var op fuzzOp
		f.Fuzz(&op)
		name := fuzzOps[op.Kind]
		chk.step, chk.op = i, name

		if blk, err := env.MoveTo(env.Runtime.Tick() + op.Advance); err != nil {
			return report, err
		} else if blk != nil {
			report.Blocks++
		}

		amount := uint256.NewInt(op.Amount)
		if name == "approve" && op.Amount%2 == 0 {
			amount = token.Infinite()
		}
		root := env.Runtime.State().Hash()
		mark := env.Runtime.Events().Len()

		receipt, _ := env.Op(name, callers[op.Who], amount, op.Duration, "staking")
		report.Clauses++
		if receipt.Reverted {
			report.Reverted++
			reason := ErrorName(receipt.Err)
			if reason == "" {
				return report, chk.fail("revert classification", fmt.Sprintf("unexpected failure %v", receipt.Err))
			}
			report.Reverts[reason]++
			if got := env.Runtime.State().Hash(); got != root {
				return report, chk.fail("rollback", fmt.Sprintf("state root moved from %s to %s", root, got))
			}
			if got := env.Runtime.Events().Len(); got != mark {
				return report, chk.fail("rollback", fmt.Sprintf("%d events left behind", got-mark))
			}
		}
		if err := chk.check(); err != nil {
			return report, err
		}
	}

	env.Runtime.Commit()
	report.Blocks++
	if prog, err := env.Pool.Program(); err == nil {
		report.Program = fmt.Sprintf("rate=%s end=%d owed=%s total=%s", prog.RewardRate.Dec(), prog.ProgramEndTick,
			prog.Owed.Dec(), prog.TotalPrincipal.Dec())
	}
	logger.Debug("fuzz run finished", "seed", seed, "steps", steps, "reverted", report.Reverted, "blocks", report.Blocks)
	return report, nil
}

type checker struct {
	env       *Env
	seed      int64
	step      int
	op        string
	// every caller, since any of them may stake
	stakers   []thor.Address
	sameToken bool
	lastRPU   *uint256.Int
}

func (c *checker) fail(invariant, detail string) error {
	return &InvariantError{Seed: c.seed, Step: c.step, Op: c.op, Invariant: invariant, Detail: detail}
}

func (c *checker) check() error {
	pool := c.env.Pool

	sum := new(uint256.Int)
	earned := new(uint256.Int)
	for _, addr := range c.stakers {
		bal, err := pool.BalanceOf(addr)
		if err != nil {
			return err
		}
		sum.Add(sum, bal)
		e, err := pool.Earned(addr)
		if err != nil {
			return err
		}
		earned.Add(earned, e)
	}
	total, err := pool.TotalSupply()
	if err != nil {
		return err
	}
	if !total.Eq(sum) {
		return c.fail("conservation", fmt.Sprintf("total supply %s, sum of balances %s", total.Dec(), sum.Dec()))
	}

	rpu, err := pool.RewardPerUnit()
	if err != nil {
		return err
	}
	if rpu.Lt(c.lastRPU) {
		return c.fail("monotonic accumulator", fmt.Sprintf("%s after %s", rpu.Dec(), c.lastRPU.Dec()))
	}
	c.lastRPU = rpu

	held, err := c.env.Staking.BalanceOf(PoolAddress)
	if err != nil {
		return err
	}
	if held.Lt(total) {
		return c.fail("custody", fmt.Sprintf("pool holds %s, total principal %s", held.Dec(), total.Dec()))
	}

	prog, err := pool.Program()
	if err != nil {
		return err
	}
	if err := prog.Accrue(c.env.Runtime.Tick()); err != nil {
		return err
	}
	if prog.Owed.Lt(earned) {
		return c.fail("solvency", fmt.Sprintf("owed %s, earned %s", prog.Owed.Dec(), earned.Dec()))
	}
	rewards, err := c.env.Reward.BalanceOf(PoolAddress)
	if err != nil {
		return err
	}
	reserved := prog.Owed.Clone()
	if c.sameToken {
		reserved.Add(reserved, total)
	}
	if rewards.Lt(reserved) {
		return c.fail("solvency", fmt.Sprintf("pool holds %s rewards, reserved %s", rewards.Dec(), reserved.Dec()))
	}
	return nil
}
