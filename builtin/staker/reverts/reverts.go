// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a user facing failure. The call that produced it left no state change behind.
type ErrRevert struct {
	message string
	parent  *ErrRevert
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Unwrap returns the sentinel this revert was derived from, if any.
func (e *ErrRevert) Unwrap() error {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Withf returns a revert that carries extra detail and still matches e with errors.Is.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		message: e.message + ": " + fmt.Sprintf(format, args...),
		parent:  e,
	}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
