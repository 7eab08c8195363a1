// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	cryptorand "crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

const (
	randomIntMinBits = 1
	randomIntMaxBits = 5000

	// upper bound on resampling loops; hitting it means the modulus is degenerate
	maxSamplingAttempts = 1 << 16
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)

	ErrBitsOutOfRange = errors.Errorf("bits should be in [%d, %d]", randomIntMinBits, randomIntMaxBits)
	ErrEvenModulus    = errors.New("modulus must be odd")
	ErrNotFound       = errors.New("no suitable value found within the attempt limit")
)

// Reader returns rand, or the crypto/rand reader when rand is nil.
func Reader(rand io.Reader) io.Reader {
	if rand == nil {
		return cryptorand.Reader
	}
	return rand
}

// GetRandomInt returns a uniform integer in [0, 2^bits).
func GetRandomInt(rand io.Reader, bits int) (*big.Int, error) {
	if bits < randomIntMinBits || randomIntMaxBits < bits {
		return nil, ErrBitsOutOfRange
	}
	max := new(big.Int).Lsh(one, uint(bits))
	n, err := cryptorand.Int(Reader(rand), max)
	if err != nil {
		return nil, errors.Wrap(err, "rand.Int failure in GetRandomInt")
	}
	return n, nil
}

// MustGetRandomInt panics if it is unable to gather entropy from `io.Reader` or when `bits` is out of range
func MustGetRandomInt(rand io.Reader, bits int) *big.Int {
	n, err := GetRandomInt(rand, bits)
	if err != nil {
		panic(errors.Wrap(err, "MustGetRandomInt"))
	}
	return n
}

// GetRandomPositiveInt returns a uniform integer in [0, lessThan).
func GetRandomPositiveInt(rand io.Reader, lessThan *big.Int) (*big.Int, error) {
	if lessThan == nil || lessThan.Sign() != 1 {
		return nil, ErrZeroModulus
	}
	if bits := lessThan.BitLen(); randomIntMaxBits < bits {
		return nil, ErrBitsOutOfRange
	}
	n, err := cryptorand.Int(Reader(rand), lessThan)
	if err != nil {
		return nil, errors.Wrap(err, "rand.Int failure in GetRandomPositiveInt")
	}
	return n, nil
}

func GetRandomPrimeInt(rand io.Reader, bits int) (*big.Int, error) {
	if bits < 2 || randomIntMaxBits < bits {
		return nil, ErrBitsOutOfRange
	}
	return cryptorand.Prime(Reader(rand), bits)
}

// Generate a random element in the group of all the elements in Z/nZ that
// has a multiplicative inverse.
func GetRandomPositiveRelativelyPrimeInt(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() != 1 {
		return nil, ErrZeroModulus
	}
	for i := 0; i < maxSamplingAttempts; i++ {
		try, err := GetRandomPositiveInt(rand, n)
		if err != nil {
			return nil, err
		}
		if IsNumberInMultiplicativeGroup(n, try) {
			return try, nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, "GetRandomPositiveRelativelyPrimeInt")
}

func IsNumberInMultiplicativeGroup(n, v *big.Int) bool {
	if n == nil || v == nil || zero.Cmp(n) != -1 {
		return false
	}
	gcd := big.NewInt(0)
	return v.Cmp(n) < 0 && v.Cmp(one) >= 0 &&
		gcd.GCD(nil, nil, v, n).Cmp(one) == 0
}

//	Return a random generator of RQn with high probability.
//	THIS METHOD ONLY WORKS IF N IS THE PRODUCT OF TWO SAFE PRIMES!
//
// https://github.com/didiercrunch/paillier/blob/d03e8850a8e4c53d04e8016a2ce8762af3278b71/utils.go#L39
func GetRandomGeneratorOfTheQuadraticResidue(rand io.Reader, n *big.Int) (*big.Int, error) {
	f, err := GetRandomPositiveRelativelyPrimeInt(rand, n)
	if err != nil {
		return nil, err
	}
	fSq := new(big.Int).Mul(f, f)
	return fSq.Mod(fSq, n), nil
}

// GetRandomQuadraticNonResidue returns a value w in [1, n) with Jacobi(w, n) = -1.
func GetRandomQuadraticNonResidue(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() != 1 {
		return nil, ErrZeroModulus
	}
	if n.Bit(0) == 0 {
		return nil, ErrEvenModulus
	}
	for i := 0; i < maxSamplingAttempts; i++ {
		w, err := GetRandomPositiveInt(rand, n)
		if err != nil {
			return nil, err
		}
		if big.Jacobi(w, n) == -1 {
			return w, nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, "GetRandomQuadraticNonResidue")
}

// GetRandomBytes returns random bytes of length.
func GetRandomBytes(rand io.Reader, length int) ([]byte, error) {
	if length <= 0 {
		return nil, errors.New("invalid length")
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(Reader(rand), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// lockedReader serialises reads so that a caller-supplied reader can be shared by search workers.
type lockedReader struct {
	mtx sync.Mutex
	r   io.Reader
}

func newLockedReader(r io.Reader) io.Reader {
	if r == nil || r == cryptorand.Reader {
		return cryptorand.Reader
	}
	return &lockedReader{r: r}
}

func (lr *lockedReader) Read(p []byte) (int, error) {
	lr.mtx.Lock()
	defer lr.mtx.Unlock()
	return lr.r.Read(p)
}
