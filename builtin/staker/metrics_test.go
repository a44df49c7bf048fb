// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/metrics"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func metricsText(t *testing.T) string {
	var buf bytes.Buffer
	require.NoError(t, metrics.WriteText(&buf))
	return buf.String()
}

func TestPoolRewardMetrics(t *testing.T) {
	ts := newTest(t, PolicyStrict).Account(alice, 10).Fund(100).Activate(100, 10).DoStake(alice, 10)

	rewards := func(kind string, v uint64) string {
		return fmt.Sprintf(`stakepool_staker_pool_rewards{kind="%s",pool="%s"} %d`, kind, poolAddr, v)
	}

	// 40 emitted by tick 4, none paid yet
	ts.At(4).DoWithdraw(alice, 5)
	out := metricsText(t)
	assert.Contains(t, out, rewards("owed", 40))
	assert.Contains(t, out, rewards("available", 60))
	assert.Contains(t, out, "stakepool_staker_total_principal 5")

	_, err := ts.GetReward(alice)
	require.NoError(t, err)
	out = metricsText(t)
	assert.Contains(t, out, rewards("owed", 0))
	assert.Contains(t, out, rewards("available", 60))
	assert.Contains(t, out, `stakepool_staker_ops_count{op="claim",status="ok"}`)
}
