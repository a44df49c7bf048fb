// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBytes32(t *testing.T) {
	hex := "0x00000000000000000000000000000000000000000000000000006d6173746572"

	b, err := ParseBytes32(hex)
	assert.NoError(t, err)
	assert.Equal(t, hex, b.String())
	assert.Equal(t, BytesToBytes32([]byte("master")), b)

	_, err = ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseBytes32("zz00000000000000000000000000000000000000000000000000006d6173746572")
	assert.EqualError(t, err, "invalid prefix")

	assert.Panics(t, func() { MustParseBytes32("bad") })
	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, b.IsZero())
}

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))
	assert.Equal(t, "0x000000000000000000000000000000616c696365", addr.String())

	parsed, err := ParseAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x12")
	assert.EqualError(t, err, "invalid length")

	text, err := addr.MarshalText()
	assert.NoError(t, err)

	var decoded Address
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("nope")))

	assert.True(t, Address{}.IsZero())
	assert.Panics(t, func() { MustParseAddress("0x") })
}
