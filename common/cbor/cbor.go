// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package cbor wraps github.com/fxamacker/cbor/v2 with the modes used to persist key material.
//
// Encoding follows the Core Deterministic Encoding of RFC 8949, so equal values always
// produce equal bytes. Decoding rejects duplicate map keys, indefinite lengths and tags.
// Integers are carried as big-endian byte strings by the callers, never as CBOR bignums.
package cbor

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const (
	MaxArrayElements = 1024 * 16
	MaxMapPairs      = 1024
)

var (
	encOptions = cbor.EncOptions{
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		TagsMd:        cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,
		TagsMd:           cbor.TagsForbidden,
		// unknown fields are tolerated so older readers accept newer files
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

func Marshal(src interface{}) ([]byte, error) {
	bz, err := encMode.Marshal(src)
	if err != nil {
		return nil, errors.Wrap(err, "cbor marshal")
	}
	return bz, nil
}

func Unmarshal(data []byte, dst interface{}) error {
	if err := decMode.Unmarshal(data, dst); err != nil {
		return errors.Wrap(err, "cbor unmarshal")
	}
	return nil
}

func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
