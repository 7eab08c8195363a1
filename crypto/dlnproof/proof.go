// Copyright © 2019-2020 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Zero-knowledge proof of knowledge of the discrete logarithm over safe prime product

// A proof of knowledge of the discrete log of an element h2 = hx1 with respect to h1.
// In our protocol, we will run two of these in parallel to prove that two elements h1,h2 generate the same group modN.

package dlnproof

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	cmts "github.com/binance-chain/tss-core/crypto/commitments"
)

const Iterations = 128

var ErrLengthMismatch = errors.New("dlnproof: wrong number of serialized values")

type (
	Proof struct {
		Alpha,
		T [Iterations]*big.Int
	}
)

var one = big.NewInt(1)

// NewDLNProof proves knowledge of x with h2 = h1^x mod N. p and q are the Sophie Germain primes
// of the safe primes whose product is N, so p·q is the order of the group generated by h1.
func NewDLNProof(h1, h2, x, p, q, N *big.Int, rand io.Reader) (*Proof, error) {
	pMulQ := new(big.Int).Mul(p, q)
	modN, modPQ := common.ModInt(N), common.ModInt(pMulQ)
	a := make([]*big.Int, Iterations)
	alpha := [Iterations]*big.Int{}
	for i := range alpha {
		ai, err := common.GetRandomPositiveInt(rand, pMulQ)
		if err != nil {
			return nil, errors.Wrap(err, "NewDLNProof")
		}
		a[i] = ai
		alpha[i] = modN.Exp(h1, a[i])
	}
	c := challenge(h1, h2, N, alpha[:])
	t := [Iterations]*big.Int{}
	cIBI := new(big.Int)
	for i := range t {
		cIBI = cIBI.SetInt64(int64(c.Bit(i)))
		t[i] = modPQ.Add(a[i], modPQ.Mul(cIBI, x))
	}
	return &Proof{alpha, t}, nil
}

func (p *Proof) Verify(h1, h2, N *big.Int) bool {
	if p == nil || h1 == nil || h2 == nil || N == nil {
		return false
	}
	if N.Sign() != 1 {
		return false
	}
	modN := common.ModInt(N)
	h1_ := new(big.Int).Mod(h1, N)
	if h1_.Cmp(one) != 1 || h1_.Cmp(N) != -1 {
		return false
	}
	h2_ := new(big.Int).Mod(h2, N)
	if h2_.Cmp(one) != 1 || h2_.Cmp(N) != -1 {
		return false
	}
	if h1_.Cmp(h2_) == 0 {
		return false
	}
	for i := 0; i < Iterations; i++ {
		if p.Alpha[i] == nil || p.T[i] == nil {
			return false
		}
		a := new(big.Int).Mod(p.T[i], N)
		if a.Cmp(one) != 1 || a.Cmp(N) != -1 {
			return false
		}
		a = new(big.Int).Mod(p.Alpha[i], N)
		if a.Cmp(one) != 1 || a.Cmp(N) != -1 {
			return false
		}
	}
	c := challenge(h1, h2, N, p.Alpha[:])
	cIBI := new(big.Int)
	for i := 0; i < Iterations; i++ {
		cIBI = cIBI.SetInt64(int64(c.Bit(i)))
		h1ExpTi := modN.Exp(h1, p.T[i])
		h2ExpCi := modN.Exp(h2, cIBI)
		alphaIMulH2ExpCi := modN.Mul(p.Alpha[i], h2ExpCi)
		if h1ExpTi.Cmp(alphaIMulH2ExpCi) != 0 {
			common.Logger.Debugf("dlnproof: repetition %d failed", i)
			return false
		}
	}
	return true
}

func challenge(h1, h2, N *big.Int, alpha []*big.Int) *big.Int {
	msg := make([]*big.Int, 0, 3+len(alpha))
	msg = append(msg, h1, h2, N)
	msg = append(msg, alpha...)
	return common.SHA512_256i(msg...)
}

// Serialize packs Alpha and T as the two parts of a Secrets list.
func (p *Proof) Serialize() ([][]byte, error) {
	cb := cmts.NewBuilder()
	cb = cb.AddPart(p.Alpha[:])
	cb = cb.AddPart(p.T[:])
	ints, err := cb.Secrets()
	if err != nil {
		return nil, err
	}
	bzs := make([][]byte, len(ints))
	for i, part := range ints {
		if part == nil {
			bzs[i] = []byte{}
			continue
		}
		bzs[i] = part.Bytes()
	}
	return bzs, nil
}

func UnmarshalDLNProof(bzs [][]byte) (*Proof, error) {
	bis := make([]*big.Int, len(bzs))
	for i := range bis {
		bis[i] = new(big.Int).SetBytes(bzs[i])
	}
	parsed, err := cmts.ParseSecrets(bis)
	if err != nil {
		return nil, err
	}
	if len(parsed) != 2 {
		return nil, errors.Wrapf(ErrLengthMismatch, "expected 2 parts but got %d", len(parsed))
	}
	if len(parsed[0]) != Iterations || len(parsed[1]) != Iterations {
		return nil, errors.Wrapf(ErrLengthMismatch, "expected %d values per part but got %d and %d",
			Iterations, len(parsed[0]), len(parsed[1]))
	}
	pf := new(Proof)
	copy(pf.Alpha[:], parsed[0])
	copy(pf.T[:], parsed[1])
	return pf, nil
}
