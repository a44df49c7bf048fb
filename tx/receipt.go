// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/stakepool/thor"
)

// Receipt represents the result of an executed clause.
type Receipt struct {
	Op       string
	Caller   thor.Address
	Tick     uint64
	Reverted bool
	// Err is the failure of a reverted clause.
	Err    error
	Events []*Record
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RevertedCount returns how many clauses were reverted.
func (rs Receipts) RevertedCount() int {
	n := 0
	for _, r := range rs {
		if r.Reverted {
			n++
		}
	}
	return n
}
