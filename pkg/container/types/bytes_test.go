// Copyright 2022 ColBase
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBytes(t *testing.T) {
	b := BuildBytes("hello", "", "wörld")
	require.Equal(t, 3, b.Count())
	require.Equal(t, []uint32{0, 5, 5, 11}, b.Offsets)
	require.Equal(t, "hello", b.GetString(0))
	require.Equal(t, "", b.GetString(1))
	require.Equal(t, "wörld", b.GetString(2))
	require.Equal(t, 11, b.Size())
}

func TestNewBytes(t *testing.T) {
	b := NewBytes(4)
	require.Equal(t, 4, b.Count())
	for i := int64(0); i < 4; i++ {
		require.Len(t, b.Get(i), 0)
	}

	empty := NewBytes(0)
	require.Equal(t, 0, empty.Count())
	require.Equal(t, []uint32{0}, empty.Offsets)
}

func TestBytesReset(t *testing.T) {
	b := BuildBytes("a", "bc")
	b.Reset()
	require.Equal(t, 0, b.Count())
	b.AppendOnce([]byte("xyz"))
	require.Equal(t, 1, b.Count())
	require.Equal(t, "xyz", b.GetString(0))
}

func TestTypeTags(t *testing.T) {
	require.True(t, New(T_varchar).IsString())
	require.True(t, New(T_char).IsString())
	require.False(t, New(T_int32).IsString())

	for _, tag := range []T{T_int8, T_int16, T_int32, T_int64, T_uint8, T_uint16, T_uint32, T_uint64} {
		require.True(t, tag.IsInteger(), tag.String())
	}
	require.False(t, T_varchar.IsInteger())
	require.Equal(t, 8, T_int64.TypeLen())
	require.Equal(t, 1, T_uint8.TypeLen())
}

func TestEncodeDecodeSlice(t *testing.T) {
	in := []uint32{1, 2, 3, 1 << 30}
	raw := EncodeSlice(in)
	require.Len(t, raw, 16)
	out := DecodeSlice[uint32](raw)
	require.Equal(t, in, out)

	require.Nil(t, EncodeSlice[uint64](nil))
	require.Nil(t, DecodeSlice[uint64](nil))
}
