// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

func initMetrics(ctx *cli.Context) {
	if ctx.Bool(metricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func printMetrics(ctx *cli.Context, w io.Writer) error {
	if !ctx.Bool(metricsFlag.Name) {
		return nil
	}
	fmt.Fprintln(w, ">> Metrics <<")
	return metrics.WriteText(w)
}

// policyOverride returns the policy given on the command line, if any.
func policyOverride(ctx *cli.Context) (staker.Policy, bool, error) {
	if !ctx.IsSet(policyFlag.Name) {
		return staker.PolicyStrict, false, nil
	}
	p, err := staker.ParsePolicy(ctx.String(policyFlag.Name))
	if err != nil {
		return staker.PolicyStrict, false, err
	}
	return p, true, nil
}

func sortedReasons(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
