// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/scenario"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakesim",
		Usage:     "Staking pool reward simulator",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:      "run",
				Usage:     "run scenario files and check their expectations",
				ArgsUsage: "<scenario.yaml>...",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					policyFlag,
					metricsFlag,
					dumpFlag,
				},
				Action: runAction,
			},
			{
				Name:  "fuzz",
				Usage: "drive random operations against fresh pools and check the pool invariants",
				Flags: []cli.Flag{
					verbosityFlag,
					jsonLogsFlag,
					policyFlag,
					metricsFlag,
					seedsFlag,
					firstSeedFlag,
					stepsFlag,
					stakersFlag,
					sameTokenFlag,
					parallelFlag,
				},
				Action: fuzzAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	initLogger(ctx)
	initMetrics(ctx)

	if ctx.NArg() == 0 {
		return cli.ShowCommandHelp(ctx, "run")
	}
	policy, override, err := policyOverride(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range ctx.Args() {
		sc, err := scenario.Load(file)
		if err != nil {
			return err
		}
		if override {
			sc.Policy = policy
		}
		report, err := scenario.Run(sc)
		if report != nil {
			printReport(os.Stdout, report, ctx.Bool(dumpFlag.Name))
		}
		if err != nil {
			log.Error("scenario failed", "name", sc.Name, "err", err)
			failed++
			continue
		}
		fmt.Printf("PASS %s\n", sc.Name)
	}

	if err := printMetrics(ctx, os.Stdout); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, ctx.NArg())
	}
	return nil
}

func printReport(w io.Writer, report *scenario.Report, dump bool) {
	fmt.Fprintf(w, "== %s: %d clauses, %d reverted, %d blocks, final tick %d\n",
		report.Name, len(report.Receipts), report.Receipts.RevertedCount(), len(report.Blocks), report.FinalTick)
	for _, name := range report.Names() {
		acc := report.Accounts[name]
		fmt.Fprintf(w, "   %-12s staked=%s earned=%s paid=%s reward-balance=%s\n",
			name, acc.Participant.Principal.Dec(), acc.Earned.Dec(), report.Paid[name].Dec(), acc.RewardBalance.Dec())
	}
	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(w, report.Program)
		cfg.Fdump(w, report.Accounts)
	}
}

func fuzzAction(ctx *cli.Context) error {
	initLogger(ctx)
	initMetrics(ctx)

	policy, _, err := policyOverride(ctx)
	if err != nil {
		return err
	}
	opts := scenario.FuzzOptions{
		Policy:    policy,
		SameToken: ctx.Bool(sameTokenFlag.Name),
		Stakers:   ctx.Int(stakersFlag.Name),
	}
	var (
		seeds     = ctx.Int(seedsFlag.Name)
		firstSeed = ctx.Int64(firstSeedFlag.Name)
		steps     = ctx.Int(stepsFlag.Name)
		parallel  = ctx.Int(parallelFlag.Name)
	)
	if seeds <= 0 || steps <= 0 {
		return fmt.Errorf("seeds and steps must be positive")
	}
	if parallel <= 0 {
		parallel = goruntime.NumCPU()
	}

	fmt.Printf(">> Fuzzing %d seeds of %d steps, policy %s <<\n", seeds, steps, policy)
	bar := pb.New(seeds).SetMaxWidth(90).Start()
	defer func() { bar.NotPrint = true }()

	start := time.Now()
	var (
		mu      sync.Mutex
		reports = make([]*scenario.FuzzReport, 0, seeds)
	)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(parallel)
	for i := range seeds {
		seed := firstSeed + int64(i)
		g.Go(func() error {
			report, err := scenario.Fuzz(seed, steps, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			bar.Increment()
			return nil
		})
	}
	err = g.Wait()
	bar.Finish()
	if err != nil {
		return err
	}

	var clauses, reverted int
	reasons := make(map[string]int)
	for _, r := range reports {
		clauses += r.Clauses
		reverted += r.Reverted
		for reason, n := range r.Reverts {
			reasons[reason] += n
		}
	}
	fmt.Printf("PASS %d seeds, %d clauses, %d reverted in %v\n", seeds, clauses, reverted, time.Since(start).Round(time.Millisecond))
	for _, reason := range sortedReasons(reasons) {
		fmt.Printf("   %-22s %d\n", reason, reasons[reason])
	}
	return printMetrics(ctx, os.Stdout)
}
