// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/scenario"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{verbosityFlag, jsonLogsFlag, policyFlag, metricsFlag, dumpFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestPolicyOverride(t *testing.T) {
	p, ok, err := policyOverride(newContext(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, staker.PolicyStrict, p)

	p, ok, err = policyOverride(newContext(t, "--policy", "extend"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, staker.PolicyExtend, p)

	_, _, err = policyOverride(newContext(t, "--policy", "sometimes"))
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	lvl := initLogger(newContext(t, "--verbosity", "5", "--json-logs"))
	assert.Equal(t, "DEBUG-4", lvl.Level().String())
}

func TestPrintReport(t *testing.T) {
	sc, err := scenario.Load("../../scenario/testdata/proportional.yaml")
	require.NoError(t, err)
	report, err := scenario.Run(sc)
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, report, true)
	out := buf.String()
	assert.Contains(t, out, "== proportional:")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "TotalPrincipal")
}

func TestSortedReasons(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedReasons(map[string]int{"c": 1, "a": 2, "b": 3}))
}
