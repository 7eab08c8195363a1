// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package hash derives the session tags that domain-separate Fiat-Shamir challenges.
package hash

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// StrHash maps an identifier to an integer: Keccak-256 of the string, then SHA3-256 of that digest.
func StrHash(id string) *big.Int {
	keccak256 := sha3.NewLegacyKeccak256()
	_, _ = keccak256.Write([]byte(id))

	sha3256 := sha3.New256()
	_, _ = sha3256.Write(keccak256.Sum(nil))
	return new(big.Int).SetBytes(sha3256.Sum(nil))
}

// SessionTag binds a protocol run to its identifiers. Each component is length-prefixed
// so that ("ab", "c") and ("a", "bc") produce different tags.
func SessionTag(components ...string) []byte {
	h := sha3.New256()
	var lenBz [8]byte
	for _, c := range components {
		binary.BigEndian.PutUint64(lenBz[:], uint64(len(c)))
		_, _ = h.Write(lenBz[:])
		_, _ = h.Write([]byte(c))
	}
	return StrHash(string(h.Sum(nil))).Bytes()
}
