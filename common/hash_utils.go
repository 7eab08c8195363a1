// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"
)

// RejectionSample maps a Fiat-Shamir digest into [0, q).
func RejectionSample(q *big.Int, eHash *big.Int) *big.Int { // e' = eHash
	return new(big.Int).Mod(eHash, q)
}
