// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package paillier

import (
	"context"
	"math/big"
	"strconv"
	"sync"

	"github.com/otiai10/primes"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto"
)

const (
	ProofIters = 13

	// moduli with a prime factor below this bound are rejected by Verify
	verifyPrimesBound = 1000
)

// Proof is an implementation of Gennaro, R., Micciancio, D., Rabin, T.:
// An efficient non-interactive statistical zero-knowledge proof system for quasi-safe prime products.
// In: In Proc. of the 5th ACM Conference on Computer and Communications Security (CCS-98. Citeseer (1998)
//
// It shows that N is coprime to phi(N) by publishing N-th roots of challenge values bound to k and a curve point.
type Proof []*big.Int

var (
	smallPrimes     []int64
	smallPrimesOnce sync.Once

	errNotNthRoot = errors.New("not an N-th root")

	ErrNotCoprimeToPhi = errors.New("paillier proof: N is not invertible mod phi(N)")
)

// primes.Until fills a package cache that is not safe for concurrent use
func verifyPrimes() []int64 {
	smallPrimesOnce.Do(func() {
		smallPrimes = primes.Until(verifyPrimesBound).List()
	})
	return smallPrimes
}

// NewProof fails with ErrNotCoprimeToPhi when gcd(N, phi(N)) != 1, which happens when one prime divides the other minus one.
func NewProof(privateKey *PrivateKey, k *big.Int, point *crypto.ECPoint) (Proof, error) {
	if privateKey == nil || privateKey.N == nil || privateKey.PhiN == nil || k == nil || point == nil {
		return nil, errors.New("paillier proof: nil argument")
	}
	M := new(big.Int).ModInverse(privateKey.N, privateKey.PhiN)
	if M == nil {
		return nil, ErrNotCoprimeToPhi
	}
	x, y := point.XY()
	xs := GenerateXs(privateKey.N, k, x, y)
	modN := common.ModInt(privateKey.N)
	pi := make(Proof, ProofIters)
	for i, xi := range xs {
		pi[i] = modN.Exp(xi, M)
	}
	return pi, nil
}

func (proof Proof) Verify(publicKey *PublicKey, k *big.Int, point *crypto.ECPoint) bool {
	if publicKey == nil || publicKey.N == nil || publicKey.N.Sign() != 1 || k == nil || point == nil {
		return false
	}
	if len(proof) != ProofIters {
		common.Logger.Debugf("paillier proof: expected %d values, got %d", ProofIters, len(proof))
		return false
	}
	N := publicKey.N
	for _, yi := range proof {
		if yi == nil {
			return false
		}
	}
	bigPrm := new(big.Int)
	for _, prm := range verifyPrimes() {
		if new(big.Int).Mod(N, bigPrm.SetInt64(prm)).Sign() == 0 {
			common.Logger.Debugf("paillier proof: modulus is divisible by %d", prm)
			return false
		}
	}
	x, y := point.XY()
	xs := GenerateXs(N, k, x, y)

	g, ctx := errgroup.WithContext(context.Background())
	modN := common.ModInt(N)
	for i := range xs {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			xiModN := new(big.Int).Mod(xs[i], N)
			if modN.Exp(proof[i], N).Cmp(xiModN) != 0 {
				return errors.Wrapf(errNotNthRoot, "value %d", i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		common.Logger.Debugf("paillier proof: %v", err)
		return false
	}
	return true
}

// ----- utils

// GenerateXs derives the ProofIters challenge values from (N, k, x, y).
// Each value is the concatenation of ceil(bitlen(N)/256) digests
// SHA512_256(i, j, t, k, x, y, N) where i, j and the trial counter t are decimal strings.
// A value outside Z*_N is discarded and t advances; t is not reset between values.
func GenerateXs(N, k, x, y *big.Int) []*big.Int {
	ret := make([]*big.Int, ProofIters)
	kb, xb, yb, Nb := intBytes(k), intBytes(x), intBytes(y), intBytes(N)
	blocks := (N.BitLen() + 255) / 256
	t := 0
	for i := 0; i < ProofIters; {
		ib := []byte(strconv.Itoa(i))
		tb := []byte(strconv.Itoa(t))
		xi := make([]byte, 0, blocks*32)
		for j := 0; j < blocks; j++ {
			jb := []byte(strconv.Itoa(j))
			xi = append(xi, common.SHA512_256(ib, jb, tb, kb, xb, yb, Nb)...) // xi1||···||xib
		}
		ret[i] = new(big.Int).SetBytes(xi)
		if common.IsNumberInMultiplicativeGroup(N, ret[i]) {
			i++
		} else {
			t++
		}
	}
	return ret
}

// intBytes is the big-endian magnitude with zero written as a single zero byte.
func intBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	return v.Bytes()
}
