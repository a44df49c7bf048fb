// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	policyFlag = cli.StringFlag{
		Name:  "policy",
		Usage: "overlap policy (strict|extend), overrides the scenario files",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "collect metrics and print them in text format on exit",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the final pool state of every scenario",
	}
	seedsFlag = cli.IntFlag{
		Name:  "seeds",
		Value: 16,
		Usage: "number of seeds to fuzz",
	}
	firstSeedFlag = cli.Int64Flag{
		Name:  "first-seed",
		Value: 1,
		Usage: "first seed, following seeds are consecutive",
	}
	stepsFlag = cli.IntFlag{
		Name:  "steps",
		Value: 1000,
		Usage: "operations per seed",
	}
	stakersFlag = cli.IntFlag{
		Name:  "stakers",
		Value: 3,
		Usage: "participants per seed",
	}
	sameTokenFlag = cli.BoolFlag{
		Name:  "same-token",
		Usage: "stake and reward with the same token",
	}
	parallelFlag = cli.IntFlag{
		Name:  "parallel",
		Usage: "seeds run in parallel, number of CPUs when zero",
	}
)
