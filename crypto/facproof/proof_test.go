// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package facproof_test

import (
	"crypto/elliptic"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto"
	. "github.com/binance-chain/tss-core/crypto/facproof"
	"github.com/binance-chain/tss-core/tss"
)

// Production moduli are 2048 bits; smaller primes keep the test fast.
const (
	testPrimeBits = 256
)

var (
	Session = []byte("session")
)

type facParams struct {
	N0, N0p, N0q *big.Int
	nt           *crypto.NTildei
}

func newFacParams(test *testing.T) *facParams {
	N0p, err := common.GetRandomPrimeInt(nil, testPrimeBits)
	require.NoError(test, err)
	N0q, err := common.GetRandomPrimeInt(nil, testPrimeBits)
	require.NoError(test, err)

	p0, err := common.GetRandomPrimeInt(nil, testPrimeBits)
	require.NoError(test, err)
	p1, err := common.GetRandomPrimeInt(nil, testPrimeBits)
	require.NoError(test, err)
	nt, err := crypto.GenerateNTildei(nil, [2]*big.Int{p0, p1})
	require.NoError(test, err)

	return &facParams{N0: new(big.Int).Mul(N0p, N0q), N0p: N0p, N0q: N0q, nt: nt}
}

func TestFac(test *testing.T) {
	ec := tss.EC()
	for i := 0; i < 4; i++ {
		ps := newFacParams(test)
		proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
		require.NoError(test, err)

		ok := proof.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2)
		assert.True(test, ok, "proof must verify")
	}
}

func TestFacP256(test *testing.T) {
	ec := tss.P256()
	ps := newFacParams(test)
	proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
	require.NoError(test, err)
	assert.True(test, proof.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2))
}

func TestFacRandomized(test *testing.T) {
	if testing.Short() {
		test.Skip("randomized trials")
	}
	for _, ec := range []elliptic.Curve{tss.S256(), tss.P256(), tss.Edwards()} {
		for i := 0; i < 100; i++ {
			ps := newFacParams(test)
			proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
			require.NoError(test, err)

			bzs := proof.Bytes()
			decoded, err := NewProofFromBytes(bzs[:])
			require.NoError(test, err)
			require.True(test, decoded.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2), "%s trial %d", ec.Params().Name, i)
		}
	}
}

func TestFacBytesRoundTrip(test *testing.T) {
	ec := tss.EC()
	ps := newFacParams(test)
	proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
	require.NoError(test, err)

	bzs := proof.Bytes()
	decoded, err := NewProofFromBytes(bzs[:])
	require.NoError(test, err)
	assert.Equal(test, 0, proof.V.Cmp(decoded.V), "V must survive the signed encoding")
	assert.Equal(test, 0, proof.Z1.Cmp(decoded.Z1))
	assert.True(test, decoded.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2))
}

func TestFacNegativeV(test *testing.T) {
	ec := tss.EC()
	ps := newFacParams(test)
	proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
	require.NoError(test, err)

	// a negated V only verifies when t^(2V) = 1
	neg := *proof
	neg.V = new(big.Int).Neg(proof.V)
	if proof.V.Sign() != 0 {
		assert.False(test, neg.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2))
	}

	bzs := neg.Bytes()
	decoded, err := NewProofFromBytes(bzs[:])
	require.NoError(test, err)
	assert.Equal(test, 0, neg.V.Cmp(decoded.V))
}

func TestFacRejects(test *testing.T) {
	ec := tss.EC()
	ps := newFacParams(test)
	proof, err := NewProof(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2, ps.N0p, ps.N0q, nil)
	require.NoError(test, err)

	assert.False(test, proof.Verify([]byte("other"), ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2), "wrong session")

	other := newFacParams(test)
	assert.False(test, proof.Verify(Session, ec, other.N0, ps.nt.N, ps.nt.H1, ps.nt.H2), "wrong N0")

	tampered := *proof
	tampered.W1 = new(big.Int).Add(proof.W1, big.NewInt(1))
	assert.False(test, tampered.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2), "tampered w1")

	tampered = *proof
	q := ec.Params().N
	bound := new(big.Int).Mul(new(big.Int).Exp(q, big.NewInt(3), nil), new(big.Int).Sqrt(ps.N0))
	tampered.Z2 = bound
	assert.False(test, tampered.Verify(Session, ec, ps.N0, ps.nt.N, ps.nt.H1, ps.nt.H2), "z2 out of range")
}

func TestFacMalformedBytes(test *testing.T) {
	_, err := NewProofFromBytes(make([][]byte, ProofFacBytesParts))
	assert.ErrorIs(test, err, ErrMalformedProof)

	bzs := make([][]byte, ProofFacBytesParts-1)
	for i := range bzs {
		bzs[i] = []byte{1}
	}
	_, err = NewProofFromBytes(bzs)
	assert.ErrorIs(test, err, ErrMalformedProof)

	_, err = NewProof(Session, nil, big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1), nil)
	assert.ErrorIs(test, err, ErrNilValues)
}
