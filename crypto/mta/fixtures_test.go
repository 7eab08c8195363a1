// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mta

import (
	"crypto/elliptic"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/hash"
	"github.com/binance-chain/tss-core/crypto/paillier"
	"github.com/binance-chain/tss-core/tss"
)

// The Paillier modulus must exceed q^5 + q^2 for the share protocol to decrypt correctly,
// so 1536 bits is the smallest convenient size for 256-bit curves.
const (
	testPaillierPrimeBits = 768
	testNTildePrimeBits   = 512
)

var (
	Session = hash.SessionTag("mta", "test-run", "1")

	testCurves = []elliptic.Curve{tss.S256(), tss.P256(), tss.Edwards()}

	fixtureOnce sync.Once
	fixtureErr  error
	testSK      *paillier.PrivateKey
	testNTildes [2]*crypto.NTildei
)

func fixtures(t *testing.T) (*paillier.PrivateKey, *paillier.PublicKey, *crypto.NTildei, *crypto.NTildei) {
	fixtureOnce.Do(func() {
		var P, Q *big.Int
		if P, fixtureErr = common.GetRandomPrimeInt(nil, testPaillierPrimeBits); fixtureErr != nil {
			return
		}
		if Q, fixtureErr = common.GetRandomPrimeInt(nil, testPaillierPrimeBits); fixtureErr != nil {
			return
		}
		testSK = paillier.NewPrivateKey(P, Q)
		for i := range testNTildes {
			var p0, p1 *big.Int
			if p0, fixtureErr = common.GetRandomPrimeInt(nil, testNTildePrimeBits); fixtureErr != nil {
				return
			}
			if p1, fixtureErr = common.GetRandomPrimeInt(nil, testNTildePrimeBits); fixtureErr != nil {
				return
			}
			if testNTildes[i], fixtureErr = crypto.GenerateNTildei(nil, [2]*big.Int{p0, p1}); fixtureErr != nil {
				return
			}
		}
	})
	require.NoError(t, fixtureErr)
	return testSK, &testSK.PublicKey, testNTildes[0], testNTildes[1]
}
