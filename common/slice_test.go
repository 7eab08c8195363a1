// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/binance-chain/tss-core/common"
)

func TestSignedBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x00, 0x80}},
		{256, []byte{0x01, 0x00}},
		{-1, []byte{0xff}},
		{-128, []byte{0x80}},
		{-129, []byte{0xff, 0x7f}},
		{-256, []byte{0xff, 0x00}},
	}
	for _, tt := range tests {
		bz := SignedBytes(big.NewInt(tt.in))
		assert.Equal(t, tt.want, bz, "encode %d", tt.in)
		assert.Equal(t, tt.in, SetSignedBytes(bz).Int64(), "decode %d", tt.in)
	}
}

func TestSignedBytesLarge(t *testing.T) {
	for i := 0; i < 50; i++ {
		x := MustGetRandomInt(nil, 2048)
		assert.Equal(t, 0, x.Cmp(SetSignedBytes(SignedBytes(x))))
		x.Neg(x)
		assert.Equal(t, 0, x.Cmp(SetSignedBytes(SignedBytes(x))))
	}
}

func TestNonEmptyMultiBytes(t *testing.T) {
	assert.True(t, NonEmptyMultiBytes([][]byte{{1}, {2}}, 2))
	assert.False(t, NonEmptyMultiBytes([][]byte{{1}, {2}}, 3))
	assert.False(t, NonEmptyMultiBytes([][]byte{{1}, {}}))
	assert.False(t, NonEmptyMultiBytes(nil))
}

func TestPadToLengthBytesInPlace(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1}, PadToLengthBytesInPlace([]byte{1}, 3))
	assert.Equal(t, []byte{1, 2}, PadToLengthBytesInPlace([]byte{1, 2}, 1))
}
