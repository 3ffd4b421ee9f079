// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cluon-io/cluon/wire"
)

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, 1 << 63}
	for _, v := range cases {
		b := wire.AppendVarint(nil, v)
		assert.Len(t, b, wire.SizeVarint(v))
		got, n := wire.ConsumeVarint(b)
		require.Greater(t, n, 0)
		assert.Equal(t, v, got)
		assert.Equal(t, len(b), n)
	}
}

func TestVarintTruncated(t *testing.T) {
	b := wire.AppendVarint(nil, 1<<20)
	_, n := wire.ConsumeVarint(b[:1])
	assert.Equal(t, 0, n)
}

func TestZigzag32(t *testing.T) {
	cases := []int32{0, 1, -1, 2, -2, 2147483647, -2147483648}
	for _, v := range cases {
		got := wire.DecodeZigzag32(wire.EncodeZigzag32(v))
		assert.Equal(t, v, got)
	}
	// Scenario 1 from SPEC_FULL: ZigZag(-1) == 1.
	assert.Equal(t, uint64(1), wire.EncodeZigzag32(-1))
}

func TestZigzag64(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		got := wire.DecodeZigzag64(wire.EncodeZigzag64(v))
		assert.Equal(t, v, got)
	}
}

func TestFixed32RoundTrip(t *testing.T) {
	b := wire.AppendFixed32(nil, 0xdeadbeef)
	require.Len(t, b, 4)
	got, n := wire.ConsumeFixed32(b)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint32(0xdeadbeef), got)
}

func TestFixed64RoundTrip(t *testing.T) {
	b := wire.AppendFixed64(nil, 0x0102030405060708)
	require.Len(t, b, 8)
	got, n := wire.ConsumeFixed64(b)
	assert.Equal(t, 8, n)
	assert.Equal(t, uint64(0x0102030405060708), got)
}

func TestTagRoundTrip(t *testing.T) {
	b := wire.AppendTag(nil, 2, wire.BytesType)
	num, typ, n, err := wire.ConsumeTag(b)
	require.NoError(t, err)
	assert.Equal(t, wire.Number(2), num)
	assert.Equal(t, wire.BytesType, typ)
	assert.Equal(t, len(b), n)

	// Scenario 1: tag for field id=2, string (length-delimited) is 0x12.
	assert.Equal(t, []byte{0x12}, wire.AppendTag(nil, 2, wire.BytesType))
}

func TestBytesRoundTrip(t *testing.T) {
	b := wire.AppendBytes(nil, []byte("hi"))
	assert.Equal(t, []byte{0x02, 'h', 'i'}, b)
	got, n, err := wire.ConsumeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), got)
	assert.Equal(t, len(b), n)
}

func TestConsumeBytesTruncated(t *testing.T) {
	b := wire.AppendBytes(nil, []byte("hi"))
	_, _, err := wire.ConsumeBytes(b[:1])
	require.Error(t, err)
}

func TestSkipValue(t *testing.T) {
	v := wire.AppendVarint(nil, 1<<20)
	n, err := wire.SkipValue(v, wire.VarintType)
	require.NoError(t, err)
	assert.Equal(t, len(v), n)

	f32 := wire.AppendFixed32(nil, 1)
	n, err = wire.SkipValue(f32, wire.Fixed32Type)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	bs := wire.AppendBytes(nil, []byte("abc"))
	n, err = wire.SkipValue(bs, wire.BytesType)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
}
