// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/thor"
)

var ops = map[string]bool{
	"":         true,
	"stake":    true,
	"withdraw": true,
	"claim":    true,
	"exit":     true,
	"fund":     true,
	"activate": true,
	"approve":  true,
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	var sc Scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks names, operations and expected errors.
func (sc *Scenario) Validate() error {
	if sc.Owner == "" {
		sc.Owner = "owner"
	}
	if _, err := addressOf(sc.Owner); err != nil {
		return err
	}
	for _, admin := range sc.Admins {
		if _, err := addressOf(admin); err != nil {
			return err
		}
	}
	for name, acc := range sc.Accounts {
		if _, err := addressOf(name); err != nil {
			return err
		}
		if acc == nil {
			sc.Accounts[name] = &Account{}
		}
	}

	for i, step := range sc.Steps {
		if step == nil {
			return errors.Errorf("step %d: empty", i)
		}
		if step.At != nil && step.Advance != 0 {
			return errors.Errorf("step %d: at and advance are exclusive", i)
		}
		if !ops[step.Op] {
			return errors.Errorf("step %d: unknown op %q", i, step.Op)
		}
		if step.Op != "" {
			if step.From == "" {
				return errors.Errorf("step %d: %s needs from", i, step.Op)
			}
			if _, err := addressOf(step.From); err != nil {
				return errors.Wrapf(err, "step %d", i)
			}
		}
		switch step.Op {
		case "stake", "withdraw", "fund", "activate":
			if step.Amount == nil {
				return errors.Errorf("step %d: %s needs amount", i, step.Op)
			}
		}
		switch step.Token {
		case "", "staking", "reward":
		default:
			return errors.Errorf("step %d: unknown token %q", i, step.Token)
		}
		if exp := step.Expect; exp != nil {
			for _, names := range [][]string{sortedKeys(exp.Earned), sortedKeys(exp.Staked), sortedKeys(exp.RewardBalance)} {
				for _, name := range names {
					if _, err := addressOf(name); err != nil {
						return errors.Wrapf(err, "step %d", i)
					}
				}
			}
		}
		if step.ExpectError != "" {
			if step.Op == "" {
				return errors.Errorf("step %d: expectError without op", i)
			}
			if _, ok := errorNames[step.ExpectError]; !ok {
				return errors.Errorf("step %d: unknown error %q", i, step.ExpectError)
			}
		}
	}
	return nil
}

// addressOf maps a scenario name to an address. Hex addresses are taken as is,
// anything else is used as the right aligned bytes of the address.
func addressOf(name string) (thor.Address, error) {
	if strings.HasPrefix(name, "0x") {
		return thor.ParseAddress(name)
	}
	if name == "" || len(name) > len(thor.Address{}) {
		return thor.Address{}, errors.Errorf("invalid account name %q", name)
	}
	return thor.BytesToAddress([]byte(name)), nil
}

func mustAddressOf(name string) thor.Address {
	addr, err := addressOf(name)
	if err != nil {
		panic(err)
	}
	return addr
}
