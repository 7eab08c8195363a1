// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package wire frames proof byte-part arrays in the protobuf wire format.
//
// The encoding equals a message with a single `repeated bytes parts = 1` field, so a
// proof produced here can be embedded as-is in any protobuf message that declares it.
package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/pkg/errors"
)

const partsField protowire.Number = 1

var ErrUnexpectedPartCount = errors.New("wire: unexpected number of parts")

// MarshalParts encodes parts as repeated bytes field 1.
func MarshalParts(parts [][]byte) []byte {
	size := 0
	for _, p := range parts {
		size += protowire.SizeTag(partsField) + protowire.SizeBytes(len(p))
	}
	bz := make([]byte, 0, size)
	for _, p := range parts {
		bz = protowire.AppendTag(bz, partsField, protowire.BytesType)
		bz = protowire.AppendBytes(bz, p)
	}
	return bz
}

// UnmarshalParts decodes the output of MarshalParts. Unknown fields are skipped.
// When expectLen > 0 the number of parts must match it.
func UnmarshalParts(bz []byte, expectLen int) ([][]byte, error) {
	parts := make([][]byte, 0, expectLen)
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "wire: bad tag")
		}
		bz = bz[n:]
		if num != partsField {
			n = protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return nil, errors.Wrap(protowire.ParseError(n), "wire: bad field")
			}
			bz = bz[n:]
			continue
		}
		if typ != protowire.BytesType {
			return nil, errors.Errorf("wire: field %d has wire type %d, want bytes", num, typ)
		}
		v, n := protowire.ConsumeBytes(bz)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "wire: bad part")
		}
		part := make([]byte, len(v))
		copy(part, v)
		parts = append(parts, part)
		bz = bz[n:]
	}
	if expectLen > 0 && len(parts) != expectLen {
		return nil, errors.Wrapf(ErrUnexpectedPartCount, "got %d, want %d", len(parts), expectLen)
	}
	return parts, nil
}
