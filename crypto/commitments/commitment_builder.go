// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package commitments

import (
	"math/big"

	"github.com/pkg/errors"
)

const (
	MaxParts    = 3
	MaxPartSize = 1 * 1024 * 1024 // 1 MB - rather liberal
)

var (
	ErrTooFewSecrets     = errors.New("secrets: too few elements")
	ErrTooManyParts      = errors.New("secrets: too many commitment parts")
	ErrPartTooLarge      = errors.New("secrets: commitment part too large")
	ErrInvalidPartLength = errors.New("secrets: invalid part length")
)

// builder packs up to MaxParts integer lists into one flat list where every part is
// preceded by its element count.
type builder struct {
	parts [][]*big.Int
}

func NewBuilder() *builder {
	b := new(builder)
	b.parts = make([][]*big.Int, 0, MaxParts)
	return b
}

func (b *builder) Parts() [][]*big.Int {
	return b.parts[:]
}

func (b *builder) AddPart(part []*big.Int) *builder {
	b.parts = append(b.parts, part[:])
	return b
}

func (b *builder) Secrets() ([]*big.Int, error) {
	if len(b.parts) > MaxParts {
		return nil, errors.Wrapf(ErrTooManyParts, "got %d, max %d", len(b.parts), MaxParts)
	}
	secretsLen := 0
	for _, p := range b.parts {
		secretsLen += 1 + len(p) // +1 to accommodate length prefix element
	}
	secrets := make([]*big.Int, 0, secretsLen)
	for i, p := range b.parts {
		if MaxPartSize < len(p) {
			return nil, errors.Wrapf(ErrPartTooLarge, "part %d, size %d", i, len(p))
		}
		secrets = append(secrets, big.NewInt(int64(len(p))))
		secrets = append(secrets, p...)
	}
	return secrets, nil
}

// ParseSecrets is the inverse of builder.Secrets.
func ParseSecrets(secrets []*big.Int) ([][]*big.Int, error) {
	if len(secrets) < 2 {
		return nil, errors.Wrapf(ErrTooFewSecrets, "got %d", len(secrets))
	}
	parts := make([][]*big.Int, 0, MaxParts)
	rest := secrets
	for len(rest) > 0 {
		if MaxParts <= len(parts) {
			return nil, errors.Wrapf(ErrTooManyParts, "part %d, max %d", len(parts)+1, MaxParts)
		}
		lenEl := rest[0]
		rest = rest[1:]
		if lenEl == nil || !lenEl.IsInt64() || lenEl.Sign() < 0 {
			return nil, errors.Wrapf(ErrInvalidPartLength, "%v", lenEl)
		}
		partLen := lenEl.Int64()
		if MaxPartSize < partLen {
			return nil, errors.Wrapf(ErrPartTooLarge, "part %d, size %d", len(parts), partLen)
		}
		if int64(len(rest)) < partLen {
			return nil, errors.Wrapf(ErrInvalidPartLength, "part %d states %d elements, %d remain", len(parts), partLen, len(rest))
		}
		parts = append(parts, rest[:partLen:partLen])
		rest = rest[partLen:]
	}
	return parts, nil
}
