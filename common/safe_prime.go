// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"context"
	"io"
	"math/big"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

const (
	primeTestN = 30

	// Miller-Rabin rounds applied to q before the Pocklington check on p
	safePrimeQReps = 20

	// number of odd offsets scanned from each random starting candidate
	safePrimeDeltaWindow = 1 << 19
)

type (
	GermainSafePrime struct {
		q,
		p *big.Int // p = 2q + 1
	}

	// SafePrimeConfig tunes the concurrent safe prime search.
	SafePrimeConfig struct {
		// Concurrency is the number of search workers; <= 0 means runtime.NumCPU().
		Concurrency int
		// MaxAttempts bounds the candidate windows each worker scans; <= 0 means unbounded.
		MaxAttempts int
		// Rand is the entropy source; nil means crypto/rand.
		Rand io.Reader
		// Tester performs the Miller-Rabin screening of q; nil means DefaultPrimeTester().
		Tester *PrimeTester
	}
)

// NewGermainSafePrime validates q and p = 2q+1 before wrapping them.
func NewGermainSafePrime(q *big.Int) (*GermainSafePrime, error) {
	if q == nil {
		return nil, errors.New("the prime is nil")
	}
	sgp := &GermainSafePrime{q: new(big.Int).Set(q), p: getSafePrime(q)}
	if !sgp.Validate() {
		return nil, errors.New("the prime is not a Sophie Germain prime")
	}
	return sgp, nil
}

func (sgp *GermainSafePrime) Prime() *big.Int {
	return sgp.q
}

func (sgp *GermainSafePrime) SafePrime() *big.Int {
	return sgp.p
}

func (sgp *GermainSafePrime) Validate() bool {
	return probablyPrime(sgp.q) &&
		getSafePrime(sgp.q).Cmp(sgp.p) == 0 &&
		probablyPrime(sgp.p)
}

// ----- //

func getSafePrime(p *big.Int) *big.Int {
	i := new(big.Int)
	i.Mul(p, two)
	i.Add(i, one)
	return i
}

func probablyPrime(prime *big.Int) bool {
	return prime != nil && prime.ProbablyPrime(primeTestN)
}

// ----- //

// It is an implementation of the algorithm described in "Safe Prime Generation with a Combined Sieve" https://eprint.iacr.org/2003/186.pdf
//
// Having q which can be prime, we first check whether q%3=1. If that's true, there is no chance p=2q+1 is prime.
// Before we run a primality test for q, we check q and p=2q+1 against the primes between 3-53
// (limited by the uint64 range of their product). If all those conditions are met, q is
// Miller-Rabin tested and p is checked with the Pocklington criterion.

// smallPrimes is a list of small, prime numbers that allows us to rapidly
// exclude some fraction of composite candidates when searching for a random
// prime. It does not include two because we ensure that the candidates are
// odd by construction.
var smallPrimes = []uint8{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
}

// smallPrimesProduct is the product of the values in smallPrimes.
var smallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)

// ErrGeneratorCancelled is an error returned from GetRandomSafePrimesConcurrent
// when the work of the generator has been cancelled as a result of the context
// being done (cancellation or timeout).
var ErrGeneratorCancelled = errors.New("generator work cancelled")

func DefaultSafePrimeConfig() SafePrimeConfig {
	return SafePrimeConfig{Concurrency: runtime.NumCPU()}
}

// GetRandomSafePrimesConcurrent tries to find safe primes concurrently.
// The returned results are safe primes `p` and prime `q` such that `p=2q+1`.
// If a safe prime could not be found before the context is done, ErrGeneratorCancelled is returned.
//
// How fast we generate a prime number is mostly a matter of luck, so the search runs on
// several workers, accepts the first valid results and cancels the rest of the work.
// Which of several concurrently valid candidates wins is not deterministic.
func GetRandomSafePrimesConcurrent(ctx context.Context, bitLen, numPrimes int, concurrency int) ([]*GermainSafePrime, error) {
	cfg := DefaultSafePrimeConfig()
	cfg.Concurrency = concurrency
	return GetRandomSafePrimesWithConfig(ctx, bitLen, numPrimes, cfg)
}

// GetRandomSafePrimesWithConfig is GetRandomSafePrimesConcurrent with an explicit configuration.
// When cfg.MaxAttempts is set and every worker exhausts its attempts, ErrNotFound is returned.
func GetRandomSafePrimesWithConfig(ctx context.Context, bitLen, numPrimes int, cfg SafePrimeConfig) ([]*GermainSafePrime, error) {
	if bitLen < 6 {
		return nil, errors.New("safe prime size must be at least 6 bits")
	}
	if numPrimes < 1 {
		return nil, errors.New("numPrimes should be > 0")
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	tester := cfg.Tester
	if tester == nil {
		tester = DefaultPrimeTester()
	}
	rand := newLockedReader(cfg.Rand)

	primeCh := make(chan *GermainSafePrime, concurrency*numPrimes)
	errCh := make(chan error, concurrency)
	primes := make([]*GermainSafePrime, 0, numPrimes)

	waitGroup := &sync.WaitGroup{}
	defer waitGroup.Wait()

	generatorCtx, cancelGeneratorCtx := context.WithCancel(ctx)
	defer cancelGeneratorCtx()

	for i := 0; i < concurrency; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			runGenPrimeRoutine(generatorCtx, primeCh, errCh, rand, tester, bitLen, cfg.MaxAttempts)
		}()
	}

	exhausted := 0
	for {
		select {
		case result := <-primeCh:
			primes = append(primes, result)
			if len(primes) >= numPrimes {
				return primes[:numPrimes], nil
			}
		case err := <-errCh:
			if errors.Is(err, ErrNotFound) {
				if exhausted++; exhausted < concurrency {
					continue
				}
			}
			return nil, err
		case <-ctx.Done():
			return nil, ErrGeneratorCancelled
		}
	}
}

// runGenPrimeRoutine searches for a safe prime of the specified `pBitLen` until the context is done
// or `maxAttempts` candidate windows have been scanned.
// Prime `p` has a bit length equal to `pBitLen` and prime `q` has a bit length equal to `pBitLen-1`.
//
// The algorithm is as follows:
//  1. Generate a random odd number `q` of length `pBitLen-1` with the two most
//     significant bits set to `1`.
//  2. Walk at most safePrimeDeltaWindow odd offsets from `q`, skipping offsets where
//     `q` or `p = 2q+1` shares a factor with `smallPrimes`, or where `q = 1 (mod 3)`
//     (then `p` is a multiple of 3).
//  3. Miller-Rabin test `q`, then check Pocklington's criterion `2^{p-1} = 1 (mod p)`,
//     then run the strict primality check on both.
func runGenPrimeRoutine(
	ctx context.Context,
	primeCh chan<- *GermainSafePrime,
	errCh chan<- error,
	rand io.Reader,
	tester *PrimeTester,
	pBitLen int,
	maxAttempts int,
) {
	qBitLen := pBitLen - 1
	b := uint(qBitLen % 8)
	if b == 0 {
		b = 8
	}
	bytes := make([]byte, (qBitLen+7)/8)
	bigMod := new(big.Int)
	three := big.NewInt(3)

	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := io.ReadFull(rand, bytes); err != nil {
			errCh <- errors.Wrap(err, "safe prime search failed to read entropy")
			return
		}

		// Clear bits in the first byte to make sure the candidate has a size <= bits.
		bytes[0] &= uint8(int(1<<b) - 1)
		// Set the most significant two bits, so that the product of two of these values
		// is never one bit short.
		if b >= 2 {
			bytes[0] |= 3 << (b - 2)
		} else {
			bytes[0] |= 1
			if len(bytes) > 1 {
				bytes[1] |= 0x80
			}
		}
		// Make the value odd since an even number this large certainly isn't prime.
		bytes[len(bytes)-1] |= 1

		q := new(big.Int).SetBytes(bytes)
		bigMod.Mod(q, smallPrimesProduct)
		mod := bigMod.Uint64()

		found := false
	NextDelta:
		for delta := uint64(0); delta < 2*safePrimeDeltaWindow; delta += 2 {
			m := mod + delta
			for _, prime := range smallPrimes {
				if m%uint64(prime) == 0 && (qBitLen > 6 || m != uint64(prime)) {
					continue NextDelta
				}
			}
			cand := new(big.Int).Add(q, bigMod.SetUint64(delta))
			if new(big.Int).Mod(cand, three).Cmp(one) == 0 {
				continue NextDelta
			}
			if !isPrimeCandidate(getSafePrime(cand)) {
				continue NextDelta
			}
			q, found = cand, true
			break
		}
		if !found {
			continue
		}
		p := getSafePrime(q)

		// adding delta may have made the candidate one bit too long
		if q.BitLen() != qBitLen ||
			!tester.MillerRabin(q, safePrimeQReps) ||
			!isPocklingtonCriterionSatisfied(p) {
			continue
		}
		if sgp := (&GermainSafePrime{p: p, q: q}); sgp.Validate() {
			select {
			case primeCh <- sgp:
			case <-ctx.Done():
				return
			}
		}
	}
	select {
	case errCh <- ErrNotFound:
	case <-ctx.Done():
	}
}

// Pocklington's criterion can be used to prove the primality of `p = 2q + 1`
// once one has proven the primality of `q`.
// With `q` prime, `p = 2q + 1`, and `p` passing Fermat's primality test to base
// `2` that `2^{p-1} = 1 (mod p)` then `p` is prime as well.
func isPocklingtonCriterionSatisfied(p *big.Int) bool {
	return new(big.Int).Exp(
		two,
		new(big.Int).Sub(p, one),
		p,
	).Cmp(one) == 0
}

func isPrimeCandidate(number *big.Int) bool {
	m := new(big.Int).Mod(number, smallPrimesProduct).Uint64()
	for _, prime := range smallPrimes {
		if m%uint64(prime) == 0 && m != uint64(prime) {
			return false
		}
	}
	return true
}
