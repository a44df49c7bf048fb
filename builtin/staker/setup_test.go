// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/authority"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var (
	poolAddr  = thor.BytesToAddress([]byte("stkr"))
	adminAddr = thor.BytesToAddress([]byte("admin"))
	ownerAddr = thor.BytesToAddress([]byte("owner"))
)

type testClock struct {
	tick uint64
}

func (c *testClock) Tick() uint64 { return c.tick }

// failingLedger refuses transfers out of the pool while fail is set.
type failingLedger struct {
	*token.Token
	fail bool
}

func (f *failingLedger) Transfer(caller, to thor.Address, amount *uint256.Int) (bool, error) {
	if f.fail {
		return false, nil
	}
	return f.Token.Transfer(caller, to, amount)
}

type StakerTest struct {
	*Staker
	t       *testing.T
	clock   *testClock
	events  *tx.Log
	stk     *token.Token
	rwd     *token.Token
	auth    *authority.Authority
	ledger  *failingLedger
	rwdFail *failingLedger
}

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func newTest(t *testing.T, policy Policy) *StakerTest {
	return newTestWith(t, policy, false)
}

func newTestWith(t *testing.T, policy Policy, sameToken bool) *StakerTest {
	st := state.New()
	events := tx.NewLog()
	clock := &testClock{}

	stk := token.New(thor.BytesToAddress([]byte("stk")), "STK", st, events, clock)
	rwd := stk
	if !sameToken {
		rwd = token.New(thor.BytesToAddress([]byte("rwd")), "RWD", st, events, clock)
	}

	auth := authority.New(thor.BytesToAddress([]byte("auth")), st)
	auth.SetOwner(ownerAddr)
	_, err := auth.Add(ownerAddr, adminAddr)
	require.NoError(t, err)

	ledger := &failingLedger{Token: stk}
	rwdFail := ledger
	if !sameToken {
		rwdFail = &failingLedger{Token: rwd}
	}

	staker := New(poolAddr, st, events, clock, ledger, rwdFail, Options{Policy: policy})
	st.Commit()

	return &StakerTest{
		Staker:  staker,
		t:       t,
		clock:   clock,
		events:  events,
		stk:     stk,
		rwd:     rwd,
		auth:    auth,
		ledger:  ledger,
		rwdFail: rwdFail,
	}
}

func (ts *StakerTest) State() *state.State {
	return ts.state
}

// At moves the clock to tick.
func (ts *StakerTest) At(tick uint64) *StakerTest {
	require.GreaterOrEqual(ts.t, tick, ts.clock.tick, "ticks never go backwards")
	ts.clock.tick = tick
	return ts
}

// Account mints staking tokens to addr and approves the pool.
func (ts *StakerTest) Account(addr thor.Address, amount uint64) *StakerTest {
	require.NoError(ts.t, ts.stk.Mint(addr, u(amount)))
	_, err := ts.stk.Approve(addr, poolAddr, token.Infinite())
	require.NoError(ts.t, err)
	return ts
}

// Fund mints reward tokens to the admin and moves them into the pool.
func (ts *StakerTest) Fund(amount uint64) *StakerTest {
	require.NoError(ts.t, ts.rwd.Mint(adminAddr, u(amount)))
	_, err := ts.rwd.Approve(adminAddr, poolAddr, token.Infinite())
	require.NoError(ts.t, err)
	require.NoError(ts.t, ts.AddFunding(adminAddr, u(amount)))
	return ts
}

func (ts *StakerTest) Activate(amount, duration uint64) *StakerTest {
	require.NoError(ts.t, ts.ActivateReward(ts.auth, adminAddr, u(amount), duration))
	return ts
}

func (ts *StakerTest) DoStake(addr thor.Address, amount uint64) *StakerTest {
	require.NoError(ts.t, ts.Stake(addr, u(amount)))
	return ts
}

func (ts *StakerTest) DoWithdraw(addr thor.Address, amount uint64) *StakerTest {
	require.NoError(ts.t, ts.Withdraw(addr, u(amount)))
	return ts
}

func (ts *StakerTest) AssertEarned(addr thor.Address, expected uint64) *StakerTest {
	earned, err := ts.Earned(addr)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, earned.Uint64(), "earned of %s at tick %d", addr, ts.clock.tick)
	return ts
}

func (ts *StakerTest) AssertStaked(addr thor.Address, expected uint64) *StakerTest {
	bal, err := ts.BalanceOf(addr)
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, bal.Uint64())
	return ts
}

func (ts *StakerTest) AssertTotalSupply(expected uint64) *StakerTest {
	total, err := ts.TotalSupply()
	require.NoError(ts.t, err)
	assert.Equal(ts.t, expected, total.Uint64())
	return ts
}

func (ts *StakerTest) RewardBalance(addr thor.Address) uint64 {
	bal, err := ts.rwd.BalanceOf(addr)
	require.NoError(ts.t, err)
	return bal.Uint64()
}

func (ts *StakerTest) StakingBalance(addr thor.Address) uint64 {
	bal, err := ts.stk.BalanceOf(addr)
	require.NoError(ts.t, err)
	return bal.Uint64()
}

// AssertReverts runs fn and checks it fails with target while leaving state and events untouched.
func (ts *StakerTest) AssertReverts(target error, fn func() error) *StakerTest {
	hash := ts.state.Hash()
	n := ts.events.Len()
	err := fn()
	require.Error(ts.t, err)
	assert.ErrorIs(ts.t, err, target)
	assert.Equal(ts.t, hash, ts.state.Hash(), "state changed by reverted call")
	assert.Equal(ts.t, n, ts.events.Len(), "events left by reverted call")
	return ts
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ts *StakerTest

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ts *StakerTest) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), ts: ts}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(tick uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.ts.At(tick)
	})
}

func (st *TestSequence) Stake(addr thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Stake(addr, u(amount)); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, addr, err)
		}
		t.Logf("staked %d for %s at %d", amount, addr, st.ts.clock.tick)
	})
}

func (st *TestSequence) Withdraw(addr thor.Address, amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Withdraw(addr, u(amount)); err != nil {
			t.Fatalf("failed to withdraw %d for %s: %v", amount, addr, err)
		}
		t.Logf("withdrawn %d for %s at %d", amount, addr, st.ts.clock.tick)
	})
}

func (st *TestSequence) Claim(addr thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.ts.GetReward(addr)
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", addr, err)
		}
		assert.Equal(t, expected, paid.Uint64(), "claim of %s", addr)
	})
}

func (st *TestSequence) Earned(addr thor.Address, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.ts.AssertEarned(addr, expected)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}

	t.Logf("All test functions executed successfully")
}
