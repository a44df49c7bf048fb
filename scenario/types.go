// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/builtin/staker"
)

// Scenario is a scripted sequence of pool operations with expectations.
type Scenario struct {
	Name      string              `yaml:"name"`
	Policy    staker.Policy       `yaml:"policy"`
	SameToken bool                `yaml:"sameToken"`
	Owner     string              `yaml:"owner"`
	Admins    []string            `yaml:"admins"`
	Accounts  map[string]*Account `yaml:"accounts"`
	Steps     []*Step             `yaml:"steps"`
}

// Account is minted its balances and, unless NoApprove is set,
// approves the pool to spend them before the first step.
type Account struct {
	Staking   *Amount `yaml:"staking"`
	Reward    *Amount `yaml:"reward"`
	NoApprove bool    `yaml:"noApprove"`
}

// Step moves the clock, optionally executes one operation and checks expectations.
type Step struct {
	Advance     uint64  `yaml:"advance"`
	At          *uint64 `yaml:"at"`
	Op          string  `yaml:"op"`
	From        string  `yaml:"from"`
	Amount      *Amount `yaml:"amount"`
	Duration    uint64  `yaml:"duration"`
	Token       string  `yaml:"token"`
	ExpectError string  `yaml:"expectError"`
	Expect      *Expect `yaml:"expect"`
}

// Expect lists views to compare after a step. Earned values may deviate by Tolerance.
type Expect struct {
	Earned        map[string]*Amount `yaml:"earned"`
	Staked        map[string]*Amount `yaml:"staked"`
	TotalSupply   *Amount            `yaml:"totalSupply"`
	RewardBalance map[string]*Amount `yaml:"rewardBalance"`
	Tolerance     *Amount            `yaml:"tolerance"`
}

// Amount is a token amount written as a decimal or 0x prefixed hex scalar.
// Underscores are allowed as digit separators.
type Amount struct {
	uint256.Int
}

func NewAmount(v uint64) *Amount {
	return &Amount{Int: *uint256.NewInt(v)}
}

// Value returns a copy of the amount, zero for nil.
func (a *Amount) Value() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a.Int.Clone()
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	return a.UnmarshalText([]byte(value.Value))
}

func (a *Amount) UnmarshalText(text []byte) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(text)), "_", "")
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q", string(text))
	}
	a.Int = *v
	return nil
}

func (a *Amount) MarshalYAML() (any, error) {
	return a.Int.Dec(), nil
}

var errorNames = map[string]error{
	"insufficient-balance": staker.ErrInsufficientBalance,
	"unauthorized":         staker.ErrUnauthorized,
	"program-active":       staker.ErrProgramActive,
	"insufficient-funding": staker.ErrInsufficientFunding,
	"transfer-failed":      staker.ErrExternalTransferFailed,
	"invalid-amount":       staker.ErrInvalidAmount,
	"invalid-duration":     staker.ErrInvalidDuration,
	"overflow":             staker.ErrArithmeticOverflow,
}

// ErrorName returns the scenario name of a staker revert, or an empty string.
func ErrorName(err error) string {
	for name, target := range errorNames {
		if errors.Is(err, target) {
			return name
		}
	}
	return ""
}
