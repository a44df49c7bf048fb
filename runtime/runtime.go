// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/staker/reverts"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "runtime")

// ErrTickBackwards is returned when moving the clock to a tick before the current one.
var ErrTickBackwards = errors.New("runtime: tick must not go backwards")

// Clause is a unit of execution. A clause that returns an error is reverted.
type Clause func() error

// Block summarizes a commit.
type Block struct {
	Number   uint32
	Tick     uint64
	Root     thor.Bytes32
	Clauses  int
	Reverted int
	Slots    int
}

// Runtime hosts contracts sharing one state and one event log.
// It is the tick source of the contracts and serializes every clause executed against them.
type Runtime struct {
	mu     sync.Mutex
	state  *state.State
	events *tx.Log
	tick   atomic.Uint64

	number   uint32
	receipts tx.Receipts
	pending  tx.Receipts
}

// New create a Runtime object starting at tick.
func New(state *state.State, events *tx.Log, tick uint64) *Runtime {
	rt := &Runtime{
		state:  state,
		events: events,
	}
	rt.tick.Store(tick)
	return rt
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Events() *tx.Log      { return rt.events }

// Tick returns the current tick. It never blocks, so contracts may read it while a clause runs.
func (rt *Runtime) Tick() uint64 {
	return rt.tick.Load()
}

// SetTick moves the clock to tick.
func (rt *Runtime) SetTick(tick uint64) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if cur := rt.tick.Load(); tick < cur {
		return errors.Wrapf(ErrTickBackwards, "at %d, requested %d", cur, tick)
	}
	rt.tick.Store(tick)
	return nil
}

// Advance moves the clock forward by delta ticks and returns the new tick.
func (rt *Runtime) Advance(delta uint64) (uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	cur := rt.tick.Load()
	next := cur + delta
	if next < cur {
		return cur, errors.Errorf("runtime: advancing %d ticks from %d overflows", delta, cur)
	}
	rt.tick.Store(next)
	return next, nil
}

// Execute runs clause on behalf of caller and returns its receipt.
// A failed clause is reverted: state changes and events emitted by it are discarded.
func (rt *Runtime) Execute(op string, caller thor.Address, clause Clause) *tx.Receipt {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	tick := rt.tick.Load()

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()
	mark := rt.events.Len()

	receipt := &tx.Receipt{Op: op, Caller: caller, Tick: tick}
	if err := clause(); err != nil {
		rt.state.RevertTo(checkpoint)
		rt.events.Truncate(mark)
		receipt.Reverted = true
		receipt.Err = err
		if reverts.IsRevertErr(err) {
			logger.Debug("clause reverted", "op", op, "caller", caller, "tick", tick, "err", err)
		} else {
			logger.Warn("clause failed", "op", op, "caller", caller, "tick", tick, "err", err)
		}
	} else {
		receipt.Events = rt.events.Since(mark)
	}
	rt.pending = append(rt.pending, receipt)

	labels := map[string]string{"op": op, "reverted": boolLabel(receipt.Reverted)}
	metricClauseDuration().ObserveWithLabels(time.Since(start).Microseconds(), labels)
	metricClauseEvents().ObserveWithLabels(int64(len(receipt.Events)), labels)
	return receipt
}

// View runs fn under the runtime lock without recording a receipt.
// Any state change made by fn is discarded.
func (rt *Runtime) View(fn func() error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	checkpoint := rt.state.NewCheckpoint()
	mark := rt.events.Len()
	defer func() {
		rt.state.RevertTo(checkpoint)
		rt.events.Truncate(mark)
	}()
	return fn()
}

// Commit seals the clauses executed since the last commit into a block.
func (rt *Runtime) Commit() *Block {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.number++
	blk := &Block{
		Number:   rt.number,
		Tick:     rt.tick.Load(),
		Clauses:  len(rt.pending),
		Reverted: rt.pending.RevertedCount(),
		Slots:    rt.state.Commit(),
	}
	blk.Root = rt.state.Hash()

	rt.receipts = append(rt.receipts, rt.pending...)
	rt.pending = nil

	metricBlocksCount().Add(1)
	metricBlockClauses().Observe(int64(blk.Clauses))
	logger.Debug("committed block", "number", blk.Number, "tick", blk.Tick, "clauses", blk.Clauses,
		"reverted", blk.Reverted, "slots", blk.Slots, "root", blk.Root)
	return blk
}

// Receipts returns the receipts of every executed clause, committed or not.
func (rt *Runtime) Receipts() tx.Receipts {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out := make(tx.Receipts, 0, len(rt.receipts)+len(rt.pending))
	out = append(out, rt.receipts...)
	return append(out, rt.pending...)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
