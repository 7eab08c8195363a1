// Copyright © 2019-2023 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package modproof proves that a modulus N is a Paillier-Blum modulus, i.e. N = PQ with
// P, Q = 3 mod 4 and gcd(N, phi(N)) = 1.
package modproof

import (
	"context"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/binance-chain/tss-core/common"
)

const (
	Iterations         = 80
	ProofModBytesParts = Iterations*2 + 3

	compositeCheckReps = 30
)

var (
	ErrMalformedProof = errors.Errorf("modproof: expected %d non-empty byte parts", ProofModBytesParts)
	ErrNoFourthRoot   = errors.New("modproof: no fourth root found, N is not a Blum integer")

	errCheckFailed = errors.New("modproof: check failed")

	one  = big.NewInt(1)
	four = big.NewInt(4)
)

type (
	ProofMod struct {
		W *big.Int
		X [Iterations]*big.Int
		A *big.Int
		B *big.Int
		Z [Iterations]*big.Int
	}
)

// isQuadraticResidue checks Euler criterion
func isQuadraticResidue(X, N *big.Int) bool {
	return big.Jacobi(X, N) == 1
}

// challenges derives y_i from the session, W, N and every earlier y.
func challenges(Session []byte, W, N *big.Int) [Iterations]*big.Int {
	Y := [Iterations]*big.Int{}
	seed := make([]*big.Int, 0, Iterations+2)
	seed = append(seed, W, N)
	for i := range Y {
		ei := common.SHA512_256i_TAGGED(Session, seed...)
		Y[i] = common.RejectionSample(N, ei)
		seed = append(seed, Y[i])
	}
	return Y
}

// NewProof builds the proof for N = P*Q. A nil rand means crypto/rand.
func NewProof(Session []byte, N, P, Q *big.Int, rand ...io.Reader) (*ProofMod, error) {
	var r io.Reader
	if 0 < len(rand) {
		r = rand[0]
	}
	Phi := new(big.Int).Mul(new(big.Int).Sub(P, one), new(big.Int).Sub(Q, one))
	// Fig 16.1
	W, err := common.GetRandomQuadraticNonResidue(r, N)
	if err != nil {
		return nil, errors.Wrap(err, "modproof.NewProof")
	}

	// Fig 16.2
	Y := challenges(Session, W, N)

	// Fig 16.3
	modN, modPhi := common.ModInt(N), common.ModInt(Phi)
	invN, err := modPhi.ModInverse(N)
	if err != nil {
		return nil, errors.Wrap(err, "modproof.NewProof: N is not invertible mod phi(N)")
	}
	X := [Iterations]*big.Int{}
	// Fix bitLen of A and B
	A := new(big.Int).Lsh(one, Iterations)
	B := new(big.Int).Lsh(one, Iterations)
	Z := [Iterations]*big.Int{}

	// for fourth-root
	expo := new(big.Int).Add(Phi, four)
	expo = new(big.Int).Rsh(expo, 3)
	expo = modPhi.Mul(expo, expo)

	for i := range Y {
		for j := 0; j < 4; j++ {
			a, b := j&1, j&2>>1
			Yi := new(big.Int).Set(Y[i])
			if a > 0 {
				Yi = modN.Neg(Yi)
			}
			if b > 0 {
				Yi = modN.Mul(W, Yi)
			}
			if isQuadraticResidue(Yi, P) && isQuadraticResidue(Yi, Q) {
				X[i], Z[i] = modN.Exp(Yi, expo), modN.Exp(Y[i], invN)
				A.SetBit(A, i, uint(a))
				B.SetBit(B, i, uint(b))
				break
			}
		}
		if X[i] == nil {
			return nil, errors.Wrapf(ErrNoFourthRoot, "iteration %d", i)
		}
	}

	pf := &ProofMod{W: W, X: X, A: A, B: B, Z: Z}
	return pf, nil
}

func NewProofFromBytes(bzs [][]byte) (*ProofMod, error) {
	if !common.NonEmptyMultiBytes(bzs, ProofModBytesParts) {
		return nil, ErrMalformedProof
	}
	bis := common.MultiBytesToBigInts(bzs)

	X := [Iterations]*big.Int{}
	copy(X[:], bis[1:(Iterations+1)])

	Z := [Iterations]*big.Int{}
	copy(Z[:], bis[(Iterations+3):])

	return &ProofMod{
		W: bis[0],
		X: X,
		A: bis[Iterations+1],
		B: bis[Iterations+2],
		Z: Z,
	}, nil
}

func (pf *ProofMod) Verify(Session []byte, N *big.Int) bool {
	if pf == nil || !pf.ValidateBasic() || N == nil || N.Sign() != 1 {
		return false
	}
	// big.Jacobi requires an odd modulus
	if N.Bit(0) == 0 {
		return false
	}
	if pf.W.Sign() != 1 || pf.W.Cmp(N) != -1 {
		return false
	}
	if big.Jacobi(pf.W, N) != -1 {
		common.Logger.Debugf("modproof: W is not a quadratic non-residue")
		return false
	}
	for i := range pf.Z {
		if pf.Z[i].Sign() != 1 || pf.Z[i].Cmp(N) != -1 {
			return false
		}
	}
	for i := range pf.X {
		if pf.X[i].Sign() != 1 || pf.X[i].Cmp(N) != -1 {
			return false
		}
	}
	if pf.A.BitLen() != Iterations+1 {
		return false
	}
	if pf.B.BitLen() != Iterations+1 {
		return false
	}

	// Fig 16. Verification
	if common.DefaultPrimeTester().IsPrimeWithReps(N, compositeCheckReps) {
		return false
	}

	modN := common.ModInt(N)
	Y := challenges(Session, pf.W, N)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < Iterations; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			left := modN.Exp(pf.Z[i], N)
			if left.Cmp(Y[i]) != 0 {
				common.Logger.Debugf("modproof: z^N check failed at %d", i)
				return errCheckFailed
			}
			return nil
		})

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			left := modN.Exp(pf.X[i], four)
			right := Y[i]
			if pf.A.Bit(i) > 0 {
				right = modN.Neg(right)
			}
			if pf.B.Bit(i) > 0 {
				right = modN.Mul(pf.W, right)
			}
			if left.Cmp(right) != 0 {
				common.Logger.Debugf("modproof: fourth root check failed at %d", i)
				return errCheckFailed
			}
			return nil
		})
	}
	return g.Wait() == nil
}

func (pf *ProofMod) ValidateBasic() bool {
	if pf.W == nil {
		return false
	}
	for i := range pf.X {
		if pf.X[i] == nil {
			return false
		}
	}
	if pf.A == nil {
		return false
	}
	if pf.B == nil {
		return false
	}
	for i := range pf.Z {
		if pf.Z[i] == nil {
			return false
		}
	}
	return true
}

func (pf *ProofMod) Bytes() [ProofModBytesParts][]byte {
	bzs := [ProofModBytesParts][]byte{}
	bzs[0] = pf.W.Bytes()
	for i := range pf.X {
		if pf.X[i] != nil {
			bzs[1+i] = pf.X[i].Bytes()
		}
	}
	bzs[Iterations+1] = pf.A.Bytes()
	bzs[Iterations+2] = pf.B.Bytes()
	for i := range pf.Z {
		if pf.Z[i] != nil {
			bzs[Iterations+3+i] = pf.Z[i].Bytes()
		}
	}
	return bzs
}
