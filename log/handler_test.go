// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(NewTerminalHandler(buf, false))

	l.Info("staked", "amount", uint256.NewInt(20), "total", big.NewInt(100), "note", "two words")
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "INFO ["), out)
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, "amount=20")
	assert.Contains(t, out, "total=100")
	assert.Contains(t, out, )
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTerminalHandlerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	l := NewLogger(NewTerminalHandlerWithLevel(buf, &lvl, false))

	l.Debug("hidden")
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "err", errors.New("boom"))
	assert.Contains(t, buf.String(), "WARN ")
	assert.Contains(t, buf.String(), "err=boom")

	lvl.Set(LevelTrace)
	buf.Reset()
	l.Trace("now visible")
	assert.Contains(t, buf.String(), "TRACE")
}

func TestTerminalHandlerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(NewTerminalHandler(buf, false)).With("pkg", "staker")
	l.Info("hello", "k", 1)
	assert.Contains(t, buf.String(), "pkg=staker")
	assert.Contains(t, buf.String(), "k=1")
}

func TestJSONHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(JSONHandler(buf))
	l.Error("failed", "amount", uint256.NewInt(7), "nilInt", (*big.Int)(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "error", rec["lvl"])
	assert.Equal(t, "failed", rec["msg"])
	assert.Equal(t, "7", rec["amount"])
	assert.Equal(t, "<nil>", rec["nilInt"])
	assert.Contains(t, rec, "t")
}

func TestLogfmtHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	l := NewLogger(LogfmtHandlerWithLevel(buf, &lvl))
	l.Debug("hidden")
	l.Info("shown", "amount", uint256.NewInt(3))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "lvl=info")
	assert.Contains(t, buf.String(), "amount=3")
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))

	assert.Equal(t, "warn", LevelString(LevelWarn))
	assert.Equal(t, "INFO ", LevelAlignedString(LevelInfo))
	assert.Equal(t, "unknown", LevelString(slog.Level(3)))
}

func TestFormatSlogValue(t *testing.T) {
	assert.Equal(t, "<nil>", FormatSlogValue(slog.AnyValue((*uint256.Int)(nil))))
	assert.Equal(t, "true", FormatSlogValue(slog.BoolValue(true)))
	assert.Equal(t, `""`, FormatSlogValue(slog.StringValue("")))
	assert.Equal(t, `"a b"`, FormatSlogValue(slog.StringValue("a b")))
	assert.Equal(t, "42", FormatSlogValue(slog.Uint64Value(42)))
}
