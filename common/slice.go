// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"
)

func BigIntsToBytes(bigInts []*big.Int) [][]byte {
	bzs := make([][]byte, len(bigInts))
	for i := range bzs {
		if bigInts[i] == nil {
			continue
		}
		bzs[i] = bigInts[i].Bytes()
	}
	return bzs
}

func MultiBytesToBigInts(bytes [][]byte) []*big.Int {
	ints := make([]*big.Int, len(bytes))
	for i := range ints {
		ints[i] = new(big.Int).SetBytes(bytes[i])
	}
	return ints
}

// Returns true when the byte slice is non-nil and non-empty
func NonEmptyBytes(bz []byte) bool {
	return bz != nil && 0 < len(bz)
}

// Returns true when all of the slices in the multi-dimensional byte slice are non-nil and non-empty
func NonEmptyMultiBytes(bzs [][]byte, expectLen ...int) bool {
	if len(bzs) == 0 {
		return false
	}
	// variadic (optional) arg test
	if 0 < len(expectLen) && expectLen[0] != len(bzs) {
		return false
	}
	for _, bz := range bzs {
		if !NonEmptyBytes(bz) {
			return false
		}
	}
	return true
}

// SignedBytes is the minimal big-endian two's complement encoding of x. Zero encodes as a single 0x00.
func SignedBytes(x *big.Int) []byte {
	switch x.Sign() {
	case 0:
		return []byte{0x00}
	case 1:
		bz := x.Bytes()
		if bz[0]&0x80 != 0 {
			bz = append([]byte{0x00}, bz...)
		}
		return bz
	}
	// -x = ^(|x|-1)
	m := new(big.Int).Neg(x)
	bz := m.Sub(m, one).Bytes()
	for i := range bz {
		bz[i] = ^bz[i]
	}
	if len(bz) == 0 || bz[0]&0x80 == 0 {
		bz = append([]byte{0xff}, bz...)
	}
	return bz
}

// SetSignedBytes decodes the output of SignedBytes.
func SetSignedBytes(bz []byte) *big.Int {
	if len(bz) == 0 || bz[0]&0x80 == 0 {
		return new(big.Int).SetBytes(bz)
	}
	inv := make([]byte, len(bz))
	for i := range bz {
		inv[i] = ^bz[i]
	}
	m := new(big.Int).SetBytes(inv)
	m.Add(m, one)
	return m.Neg(m)
}

// PadToLengthBytesInPlace pads {src} with zeros until it is {length} bytes long.
func PadToLengthBytesInPlace(src []byte, length int) []byte {
	oriLen := len(src)
	if oriLen < length {
		for i := 0; i < length-oriLen; i++ {
			src = append([]byte{0}, src...)
		}
	}
	return src
}
