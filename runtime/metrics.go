// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/stakepool/metrics"

var (
	metricClauseDuration = metrics.LazyLoadHistogramVec("runtime_clause_duration_us", []string{"op", "reverted"}, metrics.BucketMicros)
	metricClauseEvents   = metrics.LazyLoadHistogramVec("runtime_clause_events", []string{"op", "reverted"}, metrics.BucketEvents)
	metricBlockClauses   = metrics.LazyLoadHistogram("runtime_block_clauses", metrics.BucketEvents)
	metricBlocksCount    = metrics.LazyLoadCounter("runtime_blocks_count")
)
