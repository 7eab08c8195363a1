// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// The Paillier Crypto-system is an additive crypto-system. This means that given two ciphertexts, one can perform operations equivalent to adding the respective plain texts.
// Additionally, Paillier Crypto-system supports further computations:
//
// * Encrypted integers can be added together
// * Encrypted integers can be multiplied by an unencrypted integer
// * Encrypted integers and unencrypted integers can be added together
//
// The generator is fixed to g = N+1 and the primes are safe primes.
package paillier

import (
	"context"
	"io"
	"math/big"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/common/cbor"
)

const (
	// the primes must differ in their top bits: bitlen(p-q) >= bitlen(p) - pqBitLenDifference
	pqBitLenDifference = 3
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)

	ErrMessageTooLong   = errors.New("the message is too large or < 0")
	ErrMessageMalformed = errors.New("the message is malformed")
)

type (
	PublicKey struct {
		N *big.Int
	}

	PrivateKey struct {
		PublicKey
		P, Q    *big.Int // P > Q
		PhiN    *big.Int // (P-1)(Q-1)
		LambdaN *big.Int // lcm(P-1, Q-1)
	}

	Ciphertext struct {
		Cypher     *big.Int
		Randomness *big.Int
	}

	// KeyGenConfig tunes GenerateKeyPairWithConfig.
	KeyGenConfig struct {
		ModulusBitLen int
		// Concurrency is the number of safe prime search workers; <= 0 means runtime.NumCPU().
		Concurrency int
		// MaxAttempts bounds the number of prime pairs drawn; <= 0 means unbounded.
		MaxAttempts int
		Rand        io.Reader
	}
)

// GenerateKeyPair draws a key whose modulus is modulusBitLen bits long (each prime = modulusBitLen / 2).
func GenerateKeyPair(ctx context.Context, modulusBitLen int, optionalConcurrency ...int) (*PrivateKey, *PublicKey, error) {
	cfg := KeyGenConfig{ModulusBitLen: modulusBitLen}
	if 0 < len(optionalConcurrency) {
		if 1 < len(optionalConcurrency) {
			panic(errors.New("GenerateKeyPair: expected 0 or 1 item in `optionalConcurrency`"))
		}
		cfg.Concurrency = optionalConcurrency[0]
	}
	return GenerateKeyPairWithConfig(ctx, cfg)
}

func GenerateKeyPairWithConfig(ctx context.Context, cfg KeyGenConfig) (*PrivateKey, *PublicKey, error) {
	if cfg.ModulusBitLen < 16 || cfg.ModulusBitLen%2 != 0 {
		return nil, nil, errors.Errorf("GenerateKeyPair: invalid modulus length %d", cfg.ModulusBitLen)
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	start := time.Now()
	P, Q, err := genPQ(ctx, cfg.ModulusBitLen/2, concurrency, cfg.MaxAttempts, cfg.Rand)
	if err != nil {
		return nil, nil, err
	}
	common.Logger.Infof("paillier: generated a %d-bit modulus in %v", cfg.ModulusBitLen, time.Since(start))
	privateKey := NewPrivateKey(P, Q)
	return privateKey, &privateKey.PublicKey, nil
}

// NewPrivateKey derives the key from its two primes, swapping them so that P > Q.
func NewPrivateKey(P, Q *big.Int) *PrivateKey {
	if P.Cmp(Q) < 0 {
		P, Q = Q, P
	}
	N := new(big.Int).Mul(P, Q)
	PMinus1, QMinus1 := new(big.Int).Sub(P, one), new(big.Int).Sub(Q, one)
	phiN := new(big.Int).Mul(PMinus1, QMinus1)
	gcd := new(big.Int).GCD(nil, nil, PMinus1, QMinus1)
	lambdaN := new(big.Int).Div(phiN, gcd)
	return &PrivateKey{
		PublicKey: PublicKey{N: N},
		P:         new(big.Int).Set(P),
		Q:         new(big.Int).Set(Q),
		PhiN:      phiN,
		LambdaN:   lambdaN,
	}
}

// genPQ draws pairs of safe primes of bitLen bits until the pair is far enough apart.
func genPQ(ctx context.Context, bitLen, concurrency, maxAttempts int, rand io.Reader) (*big.Int, *big.Int, error) {
	minSub := bitLen - pqBitLenDifference
	sCfg := common.SafePrimeConfig{Concurrency: concurrency, Rand: rand}
	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		sgps, err := common.GetRandomSafePrimesWithConfig(ctx, bitLen, 2, sCfg)
		if err != nil {
			return nil, nil, errors.Wrap(err, "paillier: safe prime search failed")
		}
		P, Q := sgps[0].SafePrime(), sgps[1].SafePrime()
		if P.Cmp(Q) < 0 {
			P, Q = Q, P
		}
		if new(big.Int).Sub(P, Q).BitLen() >= minSub {
			return P, Q, nil
		}
	}
	return nil, nil, errors.Wrap(common.ErrNotFound, "paillier: no prime pair is far enough apart")
}

// ----- //

func (publicKey *PublicKey) EncryptWithRandomness(m, x *big.Int) (*big.Int, error) {
	if m == nil || m.Cmp(zero) == -1 || m.Cmp(publicKey.N) != -1 { // m < 0 || m >= N ?
		return nil, ErrMessageTooLong
	}
	N2 := common.ModInt(publicKey.NSquare())
	// 1. gamma^m mod N2
	Gm := N2.Exp(publicKey.Gamma(), m)
	// 2. x^N mod N2
	xN := N2.Exp(x, publicKey.N)
	// 3. (1) * (2) mod N2
	return N2.Mul(Gm, xN), nil
}

func (publicKey *PublicKey) Encrypt(rand io.Reader, m *big.Int) (*Ciphertext, error) {
	if m == nil || m.Cmp(zero) == -1 || m.Cmp(publicKey.N) != -1 {
		return nil, ErrMessageTooLong
	}
	x, err := common.GetRandomPositiveRelativelyPrimeInt(rand, publicKey.N)
	if err != nil {
		return nil, errors.Wrap(err, "paillier encrypt")
	}
	c, err := publicKey.EncryptWithRandomness(m, x)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Cypher: c, Randomness: x}, nil
}

// HomoAdd returns the encryption of m1 + m2 given c1 = E(m1) and c2 = E(m2).
func (publicKey *PublicKey) HomoAdd(c1, c2 *big.Int) *big.Int {
	N2 := publicKey.NSquare()
	c1m := new(big.Int).Mod(c1, N2)
	c2m := new(big.Int).Mod(c2, N2)
	return common.ModInt(N2).Mul(c1m, c2m)
}

// HomoMult returns the encryption of m * m1 given c1 = E(m1).
func (publicKey *PublicKey) HomoMult(m, c1 *big.Int) *big.Int {
	N2 := publicKey.NSquare()
	mm := new(big.Int).Mod(m, publicKey.N)
	c1m := new(big.Int).Mod(c1, N2)
	return common.ModInt(N2).Exp(c1m, mm)
}

func (publicKey *PublicKey) NSquare() *big.Int {
	return new(big.Int).Mul(publicKey.N, publicKey.N)
}

// Gamma is the generator N+1.
func (publicKey *PublicKey) Gamma() *big.Int {
	return new(big.Int).Add(publicKey.N, one)
}

// AsInts returns the key as [N, Gamma].
func (publicKey *PublicKey) AsInts() []*big.Int {
	return []*big.Int{publicKey.N, publicKey.Gamma()}
}

// ----- //

func (privateKey *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	N2 := privateKey.NSquare()
	if c == nil || c.Cmp(zero) == -1 || c.Cmp(N2) != -1 { // c < 0 || c >= N2 ?
		return nil, ErrMessageTooLong
	}
	if new(big.Int).GCD(nil, nil, c, N2).Cmp(one) != 0 {
		return nil, ErrMessageMalformed
	}
	modN2 := common.ModInt(N2)
	// 1. L(u) = (c^LambdaN-1 mod N2) / N
	Lc := L(modN2.Exp(c, privateKey.LambdaN), privateKey.N)
	// 2. L(u) = (Gamma^LambdaN-1 mod N2) / N
	Lg := L(modN2.Exp(privateKey.Gamma(), privateKey.LambdaN), privateKey.N)
	// 3. (1) * modInv(2) mod N
	modN := common.ModInt(privateKey.N)
	inv, err := modN.ModInverse(Lg)
	if err != nil {
		return nil, errors.Wrap(err, "paillier decrypt")
	}
	return modN.Mul(Lc, inv), nil
}

// ----- //

type privateKeyCBOR struct {
	P []byte `cbor:"1,keyasint"`
	Q []byte `cbor:"2,keyasint"`
}

func (privateKey *PrivateKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&privateKeyCBOR{P: privateKey.P.Bytes(), Q: privateKey.Q.Bytes()})
}

func (privateKey *PrivateKey) UnmarshalBinary(data []byte) error {
	var aux privateKeyCBOR
	if err := cbor.Unmarshal(data, &aux); err != nil {
		return err
	}
	P, Q := new(big.Int).SetBytes(aux.P), new(big.Int).SetBytes(aux.Q)
	if P.Cmp(two) <= 0 || Q.Cmp(two) <= 0 || P.Cmp(Q) == 0 {
		return errors.New("paillier: invalid private key primes")
	}
	*privateKey = *NewPrivateKey(P, Q)
	return nil
}

// ----- utils

func L(u, N *big.Int) *big.Int {
	t := new(big.Int).Sub(u, one)
	return new(big.Int).Div(t, N)
}
