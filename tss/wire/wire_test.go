// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestMarshalPartsLayout(t *testing.T) {
	bz := MarshalParts([][]byte{{0x01}, {}, {0xaa, 0xbb}})
	assert.Equal(t, []byte{0x0a, 0x01, 0x01, 0x0a, 0x00, 0x0a, 0x02, 0xaa, 0xbb}, bz)
	assert.Empty(t, MarshalParts(nil))
}

func TestUnmarshalParts(t *testing.T) {
	in := [][]byte{{1, 2, 3}, {}, {4}}
	out, err := UnmarshalParts(MarshalParts(in), 3)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1, 2, 3}, {}, {4}}, out)

	_, err = UnmarshalParts(MarshalParts(in), 4)
	assert.True(t, errors.Is(err, ErrUnexpectedPartCount))
}

func TestUnmarshalPartsSkipsUnknownFields(t *testing.T) {
	bz := protowire.AppendTag(nil, 2, protowire.VarintType)
	bz = protowire.AppendVarint(bz, 300)
	bz = append(bz, MarshalParts([][]byte{{7}})...)
	out, err := UnmarshalParts(bz, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{7}}, out)
}

func TestUnmarshalPartsMalformed(t *testing.T) {
	_, err := UnmarshalParts([]byte{0x0a, 0x05, 0x01}, 0)
	assert.Error(t, err)
	// field 1 as varint
	_, err = UnmarshalParts([]byte{0x08, 0x01}, 0)
	assert.Error(t, err)
}
