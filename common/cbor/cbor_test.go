// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package cbor_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/tss-core/common/cbor"
)

type record struct {
	N     []byte   `cbor:"1,keyasint"`
	Parts [][]byte `cbor:"2,keyasint"`
	Name  string   `cbor:"3,keyasint,omitempty"`
}

func TestDeterministicEncoding(t *testing.T) {
	a := record{N: []byte{1, 2, 3}, Parts: [][]byte{{4}, {5, 6}}}
	bz1, err := cbor.Marshal(a)
	require.NoError(t, err)
	bz2, err := cbor.Marshal(&a)
	require.NoError(t, err)
	assert.Equal(t, bz1, bz2)

	var b record
	require.NoError(t, cbor.Unmarshal(bz1, &b))
	assert.Equal(t, a, b)
}

func TestMapKeysSorted(t *testing.T) {
	bz, err := cbor.Marshal(map[string]int{"bb": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	// keys sort by the bytewise order of their encodings
	assert.Equal(t, []byte{0xa3, 0x61, 'a', 0x01, 0x61, 'c', 0x03, 0x62, 'b', 'b', 0x02}, bz)
}

func TestRejectDuplicateKeys(t *testing.T) {
	// {1: h'01', 1: h'02'}
	dup := []byte{0xa2, 0x01, 0x41, 0x01, 0x01, 0x41, 0x02}
	var r record
	assert.Error(t, cbor.Unmarshal(dup, &r))
}

func TestRejectIndefiniteLength(t *testing.T) {
	// [_ 1]
	indef := []byte{0x9f, 0x01, 0xff}
	var v []int
	assert.Error(t, cbor.Unmarshal(indef, &v))
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	in := record{N: []byte{9}, Name: "x"}
	require.NoError(t, cbor.NewEncoder(&buf).Encode(in))
	var out record
	require.NoError(t, cbor.NewDecoder(&buf).Decode(&out))
	assert.Equal(t, in, out)
}
