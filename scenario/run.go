// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/accrual"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

// ExpectationError reports the first expectation a scenario failed.
type ExpectationError struct {
	Scenario string
	Step     int
	Tick     uint64
	Msg      string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: step %d at tick %d: %s", e.Scenario, e.Step, e.Tick, e.Msg)
}

// AccountView is the final state of a named account.
type AccountView struct {
	Participant    *accrual.Participant
	Earned         *uint256.Int
	StakingBalance *uint256.Int
	RewardBalance  *uint256.Int
}

// Report is the outcome of a scenario run.
type Report struct {
	Name      string
	Receipts  tx.Receipts
	Blocks    []*runtime.Block
	Paid      map[string]*uint256.Int
	Program   *accrual.Pool
	Accounts  map[string]*AccountView
	FinalTick uint64
}

// Names returns the account names of the report, sorted.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Accounts))
	for name := range r.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type runner struct {
	sc     *Scenario
	env    *Env
	report *Report
	step   int
}

// Run executes the scenario against a fresh pool.
// It returns the report, and an *ExpectationError for the first failed expectation.
func Run(sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	admins := make([]thor.Address, 0, len(sc.Admins))
	for _, name := range sc.Admins {
		admins = append(admins, mustAddressOf(name))
	}
	env, err := NewEnv(sc.Policy, sc.SameToken, mustAddressOf(sc.Owner), admins)
	if err != nil {
		return nil, err
	}

	r := &runner{
		sc:  sc,
		env: env,
		report: &Report{
			Name:     sc.Name,
			Paid:     make(map[string]*uint256.Int),
			Accounts: make(map[string]*AccountView),
		},
	}

	names := make([]string, 0, len(sc.Accounts))
	for name := range sc.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		acc := sc.Accounts[name]
		if err := env.Mint(mustAddressOf(name), acc.Staking.Value(), acc.Reward.Value(), !acc.NoApprove); err != nil {
			return nil, errors.Wrapf(err, "mint %s", name)
		}
		r.report.Paid[name] = new(uint256.Int)
	}

	for i, step := range sc.Steps {
		r.step = i
		if err := r.run(step); err != nil {
			if ferr := r.finish(); ferr != nil {
				logger.Warn("incomplete report", "name", sc.Name, "err", ferr)
			}
			return r.report, err
		}
	}
	if err := r.finish(); err != nil {
		return r.report, err
	}
	logger.Info("scenario passed", "name", sc.Name, "steps", len(sc.Steps), "clauses", len(r.report.Receipts),
		"reverted", r.report.Receipts.RevertedCount())
	return r.report, nil
}

func (r *runner) fail(format string, args ...any) error {
	return &ExpectationError{
		Scenario: r.sc.Name,
		Step:     r.step,
		Tick:     r.env.Runtime.Tick(),
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (r *runner) run(step *Step) error {
	tick := r.env.Runtime.Tick() + step.Advance
	if step.At != nil {
		tick = *step.At
	}
	blk, err := r.env.MoveTo(tick)
	if err != nil {
		return r.fail("%v", err)
	}
	if blk != nil {
		r.report.Blocks = append(r.report.Blocks, blk)
	}

	if step.Op != "" {
		from := mustAddressOf(step.From)
		amount := step.Amount.Value()
		if step.Op == "approve" && step.Amount == nil {
			amount = token.Infinite()
		}
		receipt, paid := r.env.Op(step.Op, from, amount, step.Duration, step.Token)
		if acc, ok := r.report.Paid[step.From]; ok {
			acc.Add(acc, paid)
		} else {
			r.report.Paid[step.From] = paid
		}

		switch {
		case step.ExpectError == "" && receipt.Reverted:
			return r.fail("%s by %s reverted: %v", step.Op, step.From, receipt.Err)
		case step.ExpectError != "" && !receipt.Reverted:
			return r.fail("%s by %s succeeded, want %s", step.Op, step.From, step.ExpectError)
		case step.ExpectError != "" && ErrorName(receipt.Err) != step.ExpectError:
			return r.fail("%s by %s failed with %v, want %s", step.Op, step.From, receipt.Err, step.ExpectError)
		}
	}

	if step.Expect != nil {
		return r.check(step.Expect)
	}
	return nil
}

func (r *runner) check(exp *Expect) error {
	pool := r.env.Pool
	tolerance := exp.Tolerance.Value()

	for _, name := range sortedKeys(exp.Earned) {
		earned, err := pool.Earned(mustAddressOf(name))
		if err != nil {
			return err
		}
		if want := exp.Earned[name].Value(); !within(earned, want, tolerance) {
			return r.fail("earned of %s is %s, want %s±%s", name, earned.Dec(), want.Dec(), tolerance.Dec())
		}
	}
	for _, name := range sortedKeys(exp.Staked) {
		staked, err := pool.BalanceOf(mustAddressOf(name))
		if err != nil {
			return err
		}
		if want := exp.Staked[name].Value(); !staked.Eq(want) {
			return r.fail("staked of %s is %s, want %s", name, staked.Dec(), want.Dec())
		}
	}
	if exp.TotalSupply != nil {
		total, err := pool.TotalSupply()
		if err != nil {
			return err
		}
		if want := exp.TotalSupply.Value(); !total.Eq(want) {
			return r.fail("total supply is %s, want %s", total.Dec(), want.Dec())
		}
	}
	for _, name := range sortedKeys(exp.RewardBalance) {
		bal, err := r.env.Reward.BalanceOf(mustAddressOf(name))
		if err != nil {
			return err
		}
		if want := exp.RewardBalance[name].Value(); !bal.Eq(want) {
			return r.fail("reward balance of %s is %s, want %s", name, bal.Dec(), want.Dec())
		}
	}
	return nil
}

// finish seals the pending clauses and fills in the final pool and account views.
func (r *runner) finish() error {
	env := r.env
	r.report.Blocks = append(r.report.Blocks, env.Runtime.Commit())
	r.report.Receipts = env.Runtime.Receipts()
	r.report.FinalTick = env.Runtime.Tick()

	prog, err := env.Pool.Program()
	if err != nil {
		return errors.Wrap(err, "read program")
	}
	r.report.Program = prog
	for name := range r.report.Paid {
		view, err := r.accountView(mustAddressOf(name))
		if err != nil {
			return errors.Wrapf(err, "read account %s", name)
		}
		r.report.Accounts[name] = view
	}
	return nil
}

func (r *runner) accountView(addr thor.Address) (*AccountView, error) {
	var (
		view = &AccountView{}
		err  error
	)
	if view.Participant, err = r.env.Pool.Participant(addr); err != nil {
		return nil, err
	}
	if view.Earned, err = r.env.Pool.Earned(addr); err != nil {
		return nil, err
	}
	if view.StakingBalance, err = r.env.Staking.BalanceOf(addr); err != nil {
		return nil, err
	}
	if view.RewardBalance, err = r.env.Reward.BalanceOf(addr); err != nil {
		return nil, err
	}
	return view, nil
}

func within(got, want, tolerance *uint256.Int) bool {
	diff := new(uint256.Int)
	if got.Gt(want) {
		diff.Sub(got, want)
	} else {
		diff.Sub(want, got)
	}
	return !diff.Gt(tolerance)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
