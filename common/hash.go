// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto"
	_ "crypto/sha512"
	"encoding/binary"
	"math/big"
)

const (
	hashInputDelimiter = byte('$')
)

// SHA-512/256 is protected against length extension attacks and is more performant than SHA-256 on 64-bit architectures.
// https://en.wikipedia.org/wiki/Template:Comparison_of_SHA_functions
//
// The digest covers an optional tag (pre-hashed and written twice), the little-endian uint64 count of the inputs,
// then every input followed by the delimiter and its own little-endian uint64 length.
// Other parties reproduce this layout byte for byte, so it must never change.
func SHA512_256(in ...[]byte) []byte {
	return sha512_256(nil, in)
}

// SHA512_256_TAGGED domain-separates the digest with `tag`.
func SHA512_256_TAGGED(tag []byte, in ...[]byte) []byte {
	return sha512_256(tagDigest(tag), in)
}

func SHA512_256i(in ...*big.Int) *big.Int {
	return new(big.Int).SetBytes(sha512_256(nil, intsToBytes(in)))
}

func SHA512_256i_TAGGED(tag []byte, in ...*big.Int) *big.Int {
	return new(big.Int).SetBytes(sha512_256(tagDigest(tag), intsToBytes(in)))
}

// SHA512_256iOne hashes the magnitude of a single integer with no framing.
func SHA512_256iOne(in *big.Int) *big.Int {
	if in == nil {
		return nil
	}
	state := crypto.SHA512_256.New()
	if _, err := state.Write(in.Bytes()); err != nil {
		Logger.Errorf("SHA512_256iOne Write() failed: %v", err)
		return nil
	}
	return new(big.Int).SetBytes(state.Sum(nil))
}

func tagDigest(tag []byte) []byte {
	return sha512_256(nil, [][]byte{tag})
}

func sha512_256(tagBz []byte, in [][]byte) []byte {
	state := crypto.SHA512_256.New()
	bzSize := 0
	for _, bz := range in {
		bzSize += len(bz)
	}
	data := make([]byte, 0, 2*len(tagBz)+8+bzSize+len(in)*9)
	if tagBz != nil {
		data = append(data, tagBz...)
		data = append(data, tagBz...)
	}
	// prevent hash collisions with this prefix containing the block count
	data = appendUint64(data, uint64(len(in)))
	for _, bz := range in {
		data = append(data, bz...)
		data = append(data, hashInputDelimiter) // safety delimiter
		data = appendUint64(data, uint64(len(bz)))
	}
	// n < len(data) or an error will never happen.
	// see: https://golang.org/pkg/hash/#Hash and https://github.com/golang/go/wiki/Hashing#the-hashhash-interface
	if _, err := state.Write(data); err != nil {
		Logger.Errorf("SHA512_256 Write() failed: %v", err)
		return nil
	}
	return state.Sum(nil)
}

func appendUint64(dst []byte, v uint64) []byte {
	var bz [8]byte
	binary.LittleEndian.PutUint64(bz[:], v)
	return append(dst, bz[:]...)
}

func intsToBytes(in []*big.Int) [][]byte {
	bzs := make([][]byte, len(in))
	for i, n := range in {
		if n == nil {
			continue
		}
		bzs[i] = n.Bytes()
	}
	return bzs
}
