// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"fmt"
	"strings"
)

// Policy decides what activating a program does while another one is still emitting.
type Policy uint8

const (
	// PolicyStrict refuses the activation with ErrProgramActive.
	PolicyStrict Policy = iota
	// PolicyExtend folds the un-emitted leftover of the running program into the new one.
	PolicyExtend
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyExtend:
		return "extend"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "strict" and "extend".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "extend":
		return PolicyExtend, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Options configures a Staker.
type Options struct {
	Policy Policy
}
