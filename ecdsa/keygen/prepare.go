// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"context"
	"io"
	"math/big"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto/paillier"
)

const (
	safePrimeBitLen = 1024
)

var (
	one = big.NewInt(1)
)

// PreParamsConfig tunes GeneratePreParamsWithConfig.
type PreParamsConfig struct {
	// SafePrimeBitLen is the size of each NTilde safe prime; the Paillier modulus is twice as long.
	SafePrimeBitLen int
	// Concurrency is split between the Paillier and the NTilde searches; <= 0 means runtime.NumCPU().
	Concurrency int
	// Rand must be safe for concurrent use; nil means crypto/rand.
	Rand io.Reader
}

// GeneratePreParams finds two safe primes and computes the Paillier secret required for the protocol.
// This can be a time consuming process so it is recommended to do it out-of-band.
// If not specified, a concurrency value equal to the number of available CPU cores will be used.
func GeneratePreParams(timeout time.Duration, optionalConcurrency ...int) (*LocalPreParams, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return GeneratePreParamsWithContext(ctx, optionalConcurrency...)
}

// GeneratePreParamsWithContext is GeneratePreParams bounded by ctx instead of a timeout.
func GeneratePreParamsWithContext(ctx context.Context, optionalConcurrency ...int) (*LocalPreParams, error) {
	cfg := PreParamsConfig{SafePrimeBitLen: safePrimeBitLen}
	if 0 < len(optionalConcurrency) {
		if 1 < len(optionalConcurrency) {
			panic(errors.New("GeneratePreParams: expected 0 or 1 item in `optionalConcurrency`"))
		}
		cfg.Concurrency = optionalConcurrency[0]
	}
	return GeneratePreParamsWithConfig(ctx, cfg)
}

func GeneratePreParamsWithConfig(ctx context.Context, cfg PreParamsConfig) (*LocalPreParams, error) {
	bitLen := cfg.SafePrimeBitLen
	if bitLen <= 0 {
		bitLen = safePrimeBitLen
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency /= 3; concurrency < 1 {
		concurrency = 1
	}

	var (
		paiSK *paillier.PrivateKey
		sgps  []*common.GermainSafePrime
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		common.Logger.Info("generating the Paillier modulus, please wait...")
		start := time.Now()
		sk, _, err := paillier.GenerateKeyPairWithConfig(gctx, paillier.KeyGenConfig{
			ModulusBitLen: 2 * bitLen,
			Concurrency:   concurrency,
			Rand:          cfg.Rand,
		})
		if err != nil {
			return errors.Wrap(err, "paillier modulus")
		}
		common.Logger.Infof("paillier modulus generated. took %s", time.Since(start))
		paiSK = sk
		return nil
	})
	g.Go(func() error {
		common.Logger.Info("generating the safe primes for the signing proofs, please wait...")
		start := time.Now()
		var err error
		sgps, err = common.GetRandomSafePrimesWithConfig(gctx, bitLen, 2, common.SafePrimeConfig{
			Concurrency: concurrency,
			Rand:        cfg.Rand,
		})
		if err != nil {
			return errors.Wrap(err, "NTilde safe primes")
		}
		common.Logger.Infof("safe primes generated. took %s", time.Since(start))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sgps == nil || sgps[0] == nil || sgps[1] == nil ||
		!sgps[0].Validate() || !sgps[1].Validate() {
		return nil, errors.New("error while generating the safe primes")
	}
	return newLocalPreParams(paiSK, sgps[0], sgps[1], cfg.Rand)
}

// newLocalPreParams derives NTilde = P·Q, h1 = f^2 and h2 = h1^alpha with beta = alpha^-1 mod p·q.
func newLocalPreParams(paiSK *paillier.PrivateKey, sgp1, sgp2 *common.GermainSafePrime, rand io.Reader) (*LocalPreParams, error) {
	P, Q := sgp1.SafePrime(), sgp2.SafePrime()
	NTildei := new(big.Int).Mul(P, Q)
	modNTildeI := common.ModInt(NTildei)

	p, q := sgp1.Prime(), sgp2.Prime()
	modPQ := common.ModInt(new(big.Int).Mul(p, q))
	f1, err := common.GetRandomPositiveRelativelyPrimeInt(rand, NTildei)
	if err != nil {
		return nil, errors.Wrap(err, "h1 generator")
	}
	alpha, err := common.GetRandomPositiveRelativelyPrimeInt(rand, modPQ.Modulus())
	if err != nil {
		return nil, errors.Wrap(err, "alpha")
	}
	beta, err := modPQ.ModInverse(alpha)
	if err != nil {
		return nil, errors.Wrap(err, "beta")
	}
	h1i := modNTildeI.Mul(f1, f1)
	h2i := modNTildeI.Exp(h1i, alpha)

	preParams := &LocalPreParams{
		PaillierSK: paiSK,
		NTildei:    NTildei,
		H1i:        h1i,
		H2i:        h2i,
		Alpha:      alpha,
		Beta:       beta,
		P:          p,
		Q:          q,
	}
	return preParams, nil
}
