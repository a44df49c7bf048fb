// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/metrics"
)

var (
	metricOpsCount       = metrics.LazyLoadCounterVec("staker_ops_count", []string{"op", "status"})
	metricActivations    = metrics.LazyLoadCounterVec("staker_activations_count", []string{"policy", "extended"})
	metricTotalPrincipal = metrics.LazyLoadGauge("staker_total_principal")
	metricPoolRewards    = metrics.LazyLoadGaugeVec("staker_pool_rewards", []string{"pool", "kind"})
)

func opStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case err == errNoop:
		return "noop"
	case isRevert(err):
		return "reverted"
	default:
		return "error"
	}
}

// observe publishes the pool gauges after a successful call.
func (s *Staker) observe() {
	total, err := s.TotalSupply()
	if err != nil {
		return
	}
	metricTotalPrincipal().Set(gaugeValue(total))

	pool, err := s.storage.getPool()
	if err != nil {
		return
	}
	avail, err := s.available(pool)
	if err != nil {
		return
	}
	name := s.addr.String()
	metricPoolRewards().SetWithLabel(gaugeValue(pool.Owed), map[string]string{"pool": name, "kind": "owed"})
	metricPoolRewards().SetWithLabel(gaugeValue(avail), map[string]string{"pool": name, "kind": "available"})
}

// gaugeValue clamps amounts that do not fit a gauge.
func gaugeValue(v *uint256.Int) int64 {
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Uint64())
}
