// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"context"
	cryptorand "crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/otiai10/primes"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMillerRabinReps = 20

	// values below this bound are answered from the bit mask alone
	smallPrimeMaskBound = 64
)

// the trial-division primes are split into two disjoint sets whose products each fit in 32 bits;
// together they cover every odd prime from 3 to 53.
var trialDivisionSetB = map[int64]bool{29: true, 31: true, 41: true, 43: true, 47: true, 53: true}

var errComposite = errors.New("composite")

// PrimeTester holds the precomputed tables used by IsPrime. Build it once and share it.
type PrimeTester struct {
	reps int
	rand io.Reader

	smallMask    uint64 // bit i set iff i is prime, i < 64
	setA, setB   []uint64
	prodA, prodB uint64
	prodAB       uint64
}

var (
	defaultPrimeTester     *PrimeTester
	defaultPrimeTesterOnce sync.Once
)

// DefaultPrimeTester returns the shared tester with the default Miller-Rabin repetition count.
func DefaultPrimeTester() *PrimeTester {
	defaultPrimeTesterOnce.Do(func() {
		defaultPrimeTester = NewPrimeTester(defaultMillerRabinReps)
	})
	return defaultPrimeTester
}

func NewPrimeTester(reps int) *PrimeTester {
	if reps < 1 {
		reps = defaultMillerRabinReps
	}
	pt := &PrimeTester{reps: reps, rand: cryptorand.Reader}
	pt.prodA, pt.prodB = 1, 1
	for _, p := range primes.Until(smallPrimeMaskBound - 1).List() {
		pt.smallMask |= 1 << uint(p)
		if p == 2 || 53 < p {
			continue
		}
		if trialDivisionSetB[p] {
			pt.setB = append(pt.setB, uint64(p))
			pt.prodB *= uint64(p)
		} else {
			pt.setA = append(pt.setA, uint64(p))
			pt.prodA *= uint64(p)
		}
	}
	pt.prodAB = pt.prodA * pt.prodB
	return pt
}

// WithRand returns a copy of the tester drawing its Miller-Rabin bases from rand.
func (pt *PrimeTester) WithRand(rand io.Reader) *PrimeTester {
	cpy := *pt
	cpy.rand = Reader(rand)
	return &cpy
}

func (pt *PrimeTester) Reps() int {
	return pt.reps
}

// IsPrime reports whether x is probably prime using the tester's repetition count.
func (pt *PrimeTester) IsPrime(x *big.Int) bool {
	return pt.IsPrimeWithReps(x, pt.reps)
}

func (pt *PrimeTester) IsPrimeWithReps(x *big.Int, reps int) bool {
	if x == nil || x.Sign() <= 0 {
		return false
	}
	if x.BitLen() <= 6 {
		return pt.smallMask&(1<<x.Uint64()) != 0
	}
	if x.Bit(0) == 0 {
		return false
	}
	if !pt.passesTrialDivision(x) {
		return false
	}
	return pt.MillerRabin(x, reps)
}

func (pt *PrimeTester) passesTrialDivision(x *big.Int) bool {
	r := new(big.Int).Mod(x, new(big.Int).SetUint64(pt.prodAB)).Uint64()
	rA, rB := r%pt.prodA, r%pt.prodB
	for _, p := range pt.setA {
		if rA%p == 0 {
			return false
		}
	}
	for _, p := range pt.setB {
		if rB%p == 0 {
			return false
		}
	}
	return true
}

// MillerRabin runs `reps` rounds on an odd n > 3. The last base is always 2 and the others are
// uniform in [2, n-2]. Rounds run in parallel and n is reported prime only if every round passes.
func (pt *PrimeTester) MillerRabin(n *big.Int, reps int) bool {
	if reps < 1 {
		reps = 1
	}
	nm1 := new(big.Int).Sub(n, one)
	k := nm1.TrailingZeroBits()
	q := new(big.Int).Rsh(nm1, k)
	nm3 := new(big.Int).Sub(n, big.NewInt(3))

	bases := make([]*big.Int, reps)
	for i := 0; i < reps-1; i++ {
		a, err := cryptorand.Int(pt.rand, nm3)
		if err != nil {
			Logger.Errorf("MillerRabin: failed to sample a base: %v", err)
			return false
		}
		bases[i] = a.Add(a, two)
	}
	bases[reps-1] = two

	g, ctx := errgroup.WithContext(context.Background())
	for _, a := range bases {
		a := a
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if !millerRabinRound(n, nm1, q, k, a) {
				return errComposite
			}
			return nil
		})
	}
	return g.Wait() == nil
}

func millerRabinRound(n, nm1, q *big.Int, k uint, a *big.Int) bool {
	y := new(big.Int).Exp(a, q, n)
	if y.Cmp(one) == 0 || y.Cmp(nm1) == 0 {
		return true
	}
	for j := uint(1); j < k; j++ {
		y.Mul(y, y).Mod(y, n)
		if y.Cmp(nm1) == 0 {
			return true
		}
		if y.Cmp(one) == 0 {
			return false
		}
	}
	return false
}

// IsPrime is shorthand for DefaultPrimeTester().IsPrime(x).
func IsPrime(x *big.Int) bool {
	return DefaultPrimeTester().IsPrime(x)
}
