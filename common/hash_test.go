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

func digest(bz ...byte) []byte {
	return bz
}

func TestSHA512_256(t *testing.T) {
	assert.Equal(t,
		digest(155, 131, 203, 249, 98, 196, 229, 70, 2, 28, 211, 87, 227, 190, 237, 33, 234, 222,
			237, 187, 64, 76, 128, 71, 25, 78, 154, 136, 22, 45, 51, 41),
		SHA512_256([]byte("one")))
	assert.Equal(t,
		digest(123, 126, 124, 145, 206, 51, 245, 169, 8, 47, 212, 46, 66, 170, 66, 11, 82, 160,
			117, 28, 8, 114, 142, 122, 134, 191, 158, 155, 65, 179, 239, 4),
		SHA512_256([]byte("hello"), []byte("world")))
}

func TestSHA512_256i(t *testing.T) {
	a, b := big.NewInt(12345678), big.NewInt(34567890)
	tests := []struct {
		name string
		in   []*big.Int
		want []byte
	}{{
		name: "single",
		in:   []*big.Int{a},
		want: digest(67, 219, 167, 235, 231, 133, 107, 20, 13, 26, 137, 209, 227, 44, 166, 243, 178,
			187, 225, 8, 188, 216, 190, 110, 158, 214, 125, 4, 251, 94, 93, 188),
	}, {
		name: "pair",
		in:   []*big.Int{a, b},
		want: digest(204, 108, 54, 96, 23, 83, 16, 141, 6, 196, 205, 169, 56, 190, 16, 86, 190, 140,
			255, 179, 57, 7, 138, 28, 226, 9, 15, 169, 24, 135, 190, 32),
	}, {
		name: "zero encodes as empty",
		in:   []*big.Int{a, big.NewInt(0), b},
		want: digest(139, 229, 38, 79, 150, 188, 146, 98, 69, 214, 76, 111, 80, 122, 155, 236, 73, 128,
			40, 100, 24, 163, 191, 55, 178, 177, 13, 12, 133, 150, 138, 209),
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SHA512_256i(tt.in...).Bytes())
		})
	}
}

func TestSHA512_256i_TAGGED(t *testing.T) {
	a, b := big.NewInt(12345678), big.NewInt(34567890)
	tests := []struct {
		tag  string
		in   []*big.Int
		want []byte
	}{{
		tag: "tag-a",
		in:  []*big.Int{a},
		want: digest(62, 229, 129, 172, 169, 125, 219, 131, 105, 95, 195, 233, 170, 196, 197, 213, 236,
			163, 114, 155, 156, 196, 165, 198, 67, 235, 246, 30, 140, 248, 88, 95),
	}, {
		tag: "tag-b",
		in:  []*big.Int{a, b},
		want: digest(27, 182, 159, 219, 92, 228, 45, 221, 84, 231, 52, 154, 154, 33, 20, 84, 83, 190,
			12, 89, 205, 95, 64, 217, 176, 132, 5, 157, 75, 168, 73, 38),
	}, {
		tag: "tag-c",
		in:  []*big.Int{a, big.NewInt(0), b},
		want: digest(213, 63, 56, 234, 196, 75, 69, 74, 68, 71, 105, 213, 75, 149, 4, 237, 211, 185, 20,
			151, 149, 84, 187, 218, 108, 208, 171, 58, 202, 185, 168, 189),
	}}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, SHA512_256i_TAGGED([]byte(tt.tag), tt.in...).Bytes())
		})
	}
}

func TestTaggedDiffersFromUntagged(t *testing.T) {
	a := big.NewInt(12345678)
	assert.NotEqual(t, 0, SHA512_256i(a).Cmp(SHA512_256i_TAGGED([]byte("session"), a)))
	assert.NotEqual(t, 0, SHA512_256i_TAGGED([]byte("session-1"), a).Cmp(SHA512_256i_TAGGED([]byte("session-2"), a)))
}

func TestRejectionSample(t *testing.T) {
	eHash := new(big.Int).SetBytes(SHA512_256([]byte("hello"), []byte("world")))
	assert.Equal(t, int64(4), RejectionSample(big.NewInt(16), eHash).Int64())

	q := MustGetRandomInt(nil, 256)
	e := RejectionSample(q, SHA512_256iOne(big.NewInt(123)))
	assert.True(t, IsInInterval(e, q))
}
