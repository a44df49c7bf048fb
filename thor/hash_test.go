// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/blake2b"
)

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Bytes32(blake2b.Sum256([]byte("foo"))), Blake2b([]byte("foo")))
	assert.Equal(t, Bytes32(blake2b.Sum256([]byte("foobar"))), Blake2b([]byte("foo"), []byte("bar")))
	// pooled hashers are reset between uses
	assert.Equal(t, Blake2b([]byte("a"), []byte("b")), Blake2b([]byte("a"), []byte("b")))
}

func BenchmarkBlake2b(b *testing.B) {
	data := make([]byte, 64)
	for b.Loop() {
		Blake2b(data, data)
	}
}
