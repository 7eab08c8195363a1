// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mta

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto/paillier"
)

const (
	RangeProofAliceBytesParts = 6
)

type (
	RangeProofAlice struct {
		Z, U, W, S, S1, S2 *big.Int
	}
)

var (
	one = big.NewInt(1)
)

// ProveRangeAlice implements Alice's range proof used in the MtA and MtAwc protocols from GG18Spec (9) Fig. 9.
func ProveRangeAlice(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, c, NTilde, h1, h2, m, r *big.Int, rand io.Reader) (*RangeProofAlice, error) {
	if ec == nil || pk == nil || c == nil || NTilde == nil || h1 == nil || h2 == nil || m == nil || r == nil {
		return nil, ErrNilArgument
	}

	q := ec.Params().N
	q3 := new(big.Int).Mul(q, q)
	q3 = new(big.Int).Mul(q, q3)
	qNTilde := new(big.Int).Mul(q, NTilde)
	q3NTilde := new(big.Int).Mul(q3, NTilde)

	smp := &sampler{rand: rand}
	// 1.
	alpha := smp.below(q3)
	// 2.
	beta := smp.unit(pk.N)
	// 3.
	gamma := smp.below(q3NTilde)
	// 4.
	rho := smp.below(qNTilde)
	if smp.err != nil {
		return nil, errors.Wrap(smp.err, "ProveRangeAlice")
	}

	modNTilde := common.ModInt(NTilde)
	modNSquared := common.ModInt(pk.NSquare())

	// 5.
	z := modNTilde.Exp(h1, m)
	z = modNTilde.Mul(z, modNTilde.Exp(h2, rho))

	// 6.
	u := modNSquared.Exp(pk.Gamma(), alpha)
	u = modNSquared.Mul(u, modNSquared.Exp(beta, pk.N))

	// 7.
	w := modNTilde.Exp(h1, alpha)
	w = modNTilde.Mul(w, modNTilde.Exp(h2, gamma))

	// 8-9. e'
	e := aliceChallenge(Session, q, pk, c, z, u, w)

	// 10.
	modN := common.ModInt(pk.N)
	s := modN.Exp(r, e)
	s = modN.Mul(s, beta)

	// 11. s1 = e * m + alpha
	s1 := new(big.Int).Mul(e, m)
	s1 = s1.Add(s1, alpha)

	// 12. s2 = e * rho + gamma
	s2 := new(big.Int).Mul(e, rho)
	s2 = s2.Add(s2, gamma)

	return &RangeProofAlice{Z: z, U: u, W: w, S: s, S1: s1, S2: s2}, nil
}

func aliceChallenge(Session []byte, q *big.Int, pk *paillier.PublicKey, c, z, u, w *big.Int) *big.Int {
	eHash := common.SHA512_256i_TAGGED(Session, append(pk.AsInts(), c, z, u, w)...)
	return common.RejectionSample(q, eHash)
}

func RangeProofAliceFromBytes(bzs [][]byte) (*RangeProofAlice, error) {
	if !common.NonEmptyMultiBytes(bzs, RangeProofAliceBytesParts) {
		return nil, errors.Wrapf(ErrMalformedProof, "expected %d non-empty byte parts for RangeProofAlice", RangeProofAliceBytesParts)
	}
	return &RangeProofAlice{
		Z:  new(big.Int).SetBytes(bzs[0]),
		U:  new(big.Int).SetBytes(bzs[1]),
		W:  new(big.Int).SetBytes(bzs[2]),
		S:  new(big.Int).SetBytes(bzs[3]),
		S1: new(big.Int).SetBytes(bzs[4]),
		S2: new(big.Int).SetBytes(bzs[5]),
	}, nil
}

func (pf *RangeProofAlice) Verify(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c *big.Int) bool {
	if pf == nil || !pf.ValidateBasic() || ec == nil || pk == nil || pk.N == nil || NTilde == nil || h1 == nil || h2 == nil || c == nil {
		return false
	}
	if pk.N.Sign() != 1 || NTilde.Sign() != 1 {
		return false
	}

	N2 := pk.NSquare()
	q := ec.Params().N
	q3 := new(big.Int).Mul(q, q)
	q3 = new(big.Int).Mul(q, q3)

	if !common.IsInInterval(pf.Z, NTilde) ||
		!common.IsInInterval(pf.U, N2) ||
		!common.IsInInterval(pf.W, NTilde) ||
		!common.IsInInterval(pf.S, pk.N) {
		return false
	}
	if !coprime(pf.Z, NTilde) || !coprime(pf.U, N2) || !coprime(pf.W, NTilde) || !coprime(pf.S, pk.N) {
		return false
	}
	if !coprime(c, N2) {
		return false
	}

	// 3.
	if pf.S1.Cmp(q3) == 1 {
		common.Logger.Debugf("mta: RangeProofAlice s1 > q^3")
		return false
	}

	// 1-2. e'
	e := aliceChallenge(Session, q, pk, c, pf.Z, pf.U, pf.W)
	minusE := new(big.Int).Neg(e)

	// 4. gamma^s_1 * s^N * c^-e
	modN2 := common.ModInt(N2)
	cExpMinusE, err := modN2.ExpSigned(c, minusE)
	if err != nil {
		return false
	}
	products := modN2.Mul(modN2.Exp(pk.Gamma(), pf.S1), modN2.Exp(pf.S, pk.N))
	products = modN2.Mul(products, cExpMinusE)
	// u != (4)
	if pf.U.Cmp(products) != 0 {
		common.Logger.Debugf("mta: RangeProofAlice ciphertext equation failed")
		return false
	}

	// 5. h_1^s_1 * h_2^s_2 * z^-e
	modNTilde := common.ModInt(NTilde)
	zExpMinusE, err := modNTilde.ExpSigned(pf.Z, minusE)
	if err != nil {
		return false
	}
	products = modNTilde.Mul(modNTilde.Exp(h1, pf.S1), modNTilde.Exp(h2, pf.S2))
	products = modNTilde.Mul(products, zExpMinusE)
	// w != (5)
	if pf.W.Cmp(products) != 0 {
		common.Logger.Debugf("mta: RangeProofAlice commitment equation failed")
		return false
	}
	return true
}

func (pf *RangeProofAlice) ValidateBasic() bool {
	return pf.Z != nil &&
		pf.U != nil &&
		pf.W != nil &&
		pf.S != nil &&
		pf.S1 != nil &&
		pf.S2 != nil
}

func (pf *RangeProofAlice) Bytes() [RangeProofAliceBytesParts][]byte {
	return [...][]byte{
		pf.Z.Bytes(),
		pf.U.Bytes(),
		pf.W.Bytes(),
		pf.S.Bytes(),
		pf.S1.Bytes(),
		pf.S2.Bytes(),
	}
}
