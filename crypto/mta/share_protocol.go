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
	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/paillier"
)

var (
	ErrRangeProofAlice = errors.New("mta: RangeProofAlice.Verify() returned false")
	ErrProofBob        = errors.New("mta: ProofBob.Verify() returned false")
	ErrProofBobWC      = errors.New("mta: ProofBobWC.Verify() returned false")
)

// AliceInit encrypts Alice's share a under her own key and proves it is small, against Bob's NTilde.
func AliceInit(
	Session []byte,
	ec elliptic.Curve,
	pkA *paillier.PublicKey,
	a, NTildeB, h1B, h2B *big.Int,
	rand io.Reader,
) (cA *big.Int, pf *RangeProofAlice, err error) {
	ct, err := pkA.Encrypt(rand, a)
	if err != nil {
		return nil, nil, err
	}
	pf, err = ProveRangeAlice(Session, ec, pkA, ct.Cypher, NTildeB, h1B, h2B, a, ct.Randomness, rand)
	if err != nil {
		return nil, nil, err
	}
	return ct.Cypher, pf, nil
}

// BobMid answers with cB = b·cA + E(beta') and keeps beta = -beta' mod q as his additive share.
func BobMid(
	Session []byte,
	ec elliptic.Curve,
	pkA *paillier.PublicKey,
	pf *RangeProofAlice,
	b, cA, NTildeA, h1A, h2A, NTildeB, h1B, h2B *big.Int,
	rand io.Reader,
) (beta, cB, betaPrm *big.Int, piB *ProofBob, err error) {
	if !pf.Verify(Session, ec, pkA, NTildeB, h1B, h2B, cA) {
		err = ErrRangeProofAlice
		return
	}
	q := ec.Params().N
	var cRand *big.Int
	if betaPrm, cB, cRand, err = bobCipher(ec, pkA, b, cA, rand); err != nil {
		return
	}
	beta = common.ModInt(q).Neg(betaPrm)
	piB, err = ProveBob(Session, ec, pkA, NTildeA, h1A, h2A, cA, cB, b, betaPrm, cRand, rand)
	return
}

// BobMidWC is BobMid with the proof bound to Bob's public point B = b·G.
func BobMidWC(
	Session []byte,
	ec elliptic.Curve,
	pkA *paillier.PublicKey,
	pf *RangeProofAlice,
	b, cA, NTildeA, h1A, h2A, NTildeB, h1B, h2B *big.Int,
	B *crypto.ECPoint,
	rand io.Reader,
) (beta, cB, betaPrm *big.Int, piB *ProofBobWC, err error) {
	if B == nil {
		err = ErrNilArgument
		return
	}
	if !pf.Verify(Session, ec, pkA, NTildeB, h1B, h2B, cA) {
		err = ErrRangeProofAlice
		return
	}
	q := ec.Params().N
	var cRand *big.Int
	if betaPrm, cB, cRand, err = bobCipher(ec, pkA, b, cA, rand); err != nil {
		return
	}
	beta = common.ModInt(q).Neg(betaPrm)
	piB, err = ProveBobWC(Session, ec, pkA, NTildeA, h1A, h2A, cA, cB, b, betaPrm, cRand, B, rand)
	return
}

// bobCipher samples beta' < q^5 and computes cB = cA^b · E(beta').
func bobCipher(ec elliptic.Curve, pkA *paillier.PublicKey, b, cA *big.Int, rand io.Reader) (betaPrm, cB, cRand *big.Int, err error) {
	q := ec.Params().N
	q5 := new(big.Int).Exp(q, big.NewInt(5), nil)
	if betaPrm, err = common.GetRandomPositiveInt(rand, q5); err != nil {
		return
	}
	cBetaPrm, err := pkA.Encrypt(rand, betaPrm)
	if err != nil {
		return
	}
	cB = pkA.HomoMult(b, cA)
	cB = pkA.HomoAdd(cB, cBetaPrm.Cypher)
	cRand = cBetaPrm.Randomness
	return
}

// AliceEnd checks Bob's proof and decrypts her additive share alpha = a·b + beta' mod q.
func AliceEnd(
	Session []byte,
	ec elliptic.Curve,
	pkA *paillier.PublicKey,
	pf *ProofBob,
	h1A, h2A, cA, cB, NTildeA *big.Int,
	sk *paillier.PrivateKey,
) (alphaIJ *big.Int, err error) {
	if !pf.Verify(Session, ec, pkA, NTildeA, h1A, h2A, cA, cB) {
		err = ErrProofBob
		return
	}
	if alphaIJ, err = sk.Decrypt(cB); err != nil {
		return
	}
	q := ec.Params().N
	alphaIJ.Mod(alphaIJ, q)
	return
}

func AliceEndWC(
	Session []byte,
	ec elliptic.Curve,
	pkA *paillier.PublicKey,
	pf *ProofBobWC,
	B *crypto.ECPoint,
	cA, cB, NTildeA, h1A, h2A *big.Int,
	sk *paillier.PrivateKey,
) (muIJ *big.Int, err error) {
	if B == nil || !pf.Verify(Session, ec, pkA, NTildeA, h1A, h2A, cA, cB, B) {
		err = ErrProofBobWC
		return
	}
	if muIJ, err = sk.Decrypt(cB); err != nil {
		return
	}
	q := ec.Params().N
	muIJ.Mod(muIJ, q)
	return
}
