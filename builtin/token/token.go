// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/thor"
	"github.com/vechain/stakepool/tx"
)

var (
	totalSupplyKey = thor.Blake2b([]byte("total-supply"))

	logger = log.WithContext("pkg", "token")
)

func balanceKey(addr thor.Address) thor.Bytes32 {
	return thor.Blake2b([]byte("balance"), addr.Bytes())
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b([]byte("allowance"), owner.Bytes(), spender.Bytes())
}

// Token is a fungible token ledger with ERC-20 semantics.
// Transfers that cannot be satisfied return false rather than an error; errors are storage faults.
// An allowance of 2^256-1 is treated as infinite and never decremented.
type Token struct {
	addr   thor.Address
	symbol string
	ctx    *solidity.Context
	events *tx.Log
	clock  Clock
}

// New create a token stored under addr.
func New(addr thor.Address, symbol string, state *state.State, events *tx.Log, clock Clock) *Token {
	return &Token{
		addr:   addr,
		symbol: symbol,
		ctx:    solidity.NewContext(addr, state),
		events: events,
		clock:  clock,
	}
}

func (t *Token) Address() thor.Address { return t.addr }
func (t *Token) Symbol() string        { return t.symbol }

func (t *Token) emit(ev tx.Event) {
	var tick uint64
	if t.clock != nil {
		tick = t.clock.Tick()
	}
	if t.events != nil {
		t.events.Emit(t.addr, tick, ev)
	}
}

func (t *Token) balance(addr thor.Address) *solidity.Uint256 {
	return solidity.NewUint256(t.ctx, balanceKey(addr))
}

func (t *Token) allowance(owner, spender thor.Address) *solidity.Uint256 {
	return solidity.NewUint256(t.ctx, allowanceKey(owner, spender))
}

// TotalSupply returns the amount of tokens in existence.
func (t *Token) TotalSupply() (*uint256.Int, error) {
	return solidity.NewUint256(t.ctx, totalSupplyKey).Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	return t.balance(addr).Get()
}

// Allowance returns how much spender may still move out of owner's balance.
func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	return t.allowance(owner, spender).Get()
}

// Mint creates amount tokens for to.
func (t *Token) Mint(to thor.Address, amount *uint256.Int) error {
	if err := solidity.NewUint256(t.ctx, totalSupplyKey).Add(amount); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := t.balance(to).Add(amount); err != nil {
		return errors.Wrap(err, "mint")
	}
	t.emit(&Transfer{From: thor.Address{}, To: to, Value: amount.Clone()})
	logger.Trace("minted", "symbol", t.symbol, "to", to, "amount", amount)
	return nil
}

// Approve sets the allowance of spender over caller's tokens.
func (t *Token) Approve(caller, spender thor.Address, amount *uint256.Int) (bool, error) {
	t.allowance(caller, spender).Set(amount)
	t.emit(&Approval{Owner: caller, Spender: spender, Value: amount.Clone()})
	return true, nil
}

// Transfer moves amount from caller to to.
func (t *Token) Transfer(caller, to thor.Address, amount *uint256.Int) (bool, error) {
	return t.move(caller, to, amount)
}

// TransferFrom moves amount from from to to on behalf of caller, spending caller's allowance.
// No allowance is needed when caller is from.
func (t *Token) TransferFrom(caller, from, to thor.Address, amount *uint256.Int) (bool, error) {
	if caller != from {
		slot := t.allowance(from, caller)
		allowed, err := slot.Get()
		if err != nil {
			return false, err
		}
		if allowed.Lt(amount) {
			logger.Debug("allowance exceeded", "symbol", t.symbol, "owner", from, "spender", caller, "allowed", allowed, "amount", amount)
			return false, nil
		}
		ok, err := t.move(from, to, amount)
		if err != nil || !ok {
			return ok, err
		}
		if !isInfinite(allowed) {
			slot.Set(new(uint256.Int).Sub(allowed, amount))
		}
		return true, nil
	}
	return t.move(from, to, amount)
}

func (t *Token) move(from, to thor.Address, amount *uint256.Int) (bool, error) {
	fromSlot := t.balance(from)
	bal, err := fromSlot.Get()
	if err != nil {
		return false, err
	}
	if bal.Lt(amount) {
		logger.Debug("insufficient balance", "symbol", t.symbol, "from", from, "balance", bal, "amount", amount)
		return false, nil
	}
	if from != to {
		fromSlot.Set(new(uint256.Int).Sub(bal, amount))
		if err := t.balance(to).Add(amount); err != nil {
			return false, errors.Wrap(err, "transfer")
		}
	}
	t.emit(&Transfer{From: from, To: to, Value: amount.Clone()})
	return true, nil
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(maxUint256)
}

var maxUint256 = new(uint256.Int).SetAllOne()

// Infinite returns the allowance value that never decreases.
func Infinite() *uint256.Int {
	return maxUint256.Clone()
}
