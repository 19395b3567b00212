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

package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmapAddContains(t *testing.T) {
	bm := New(200)
	require.True(t, bm.IsEmpty())

	bm.Add(0)
	bm.Add(63)
	bm.Add(64)
	bm.Add(199)
	require.False(t, bm.IsEmpty())
	require.True(t, bm.Contains(0))
	require.True(t, bm.Contains(63))
	require.True(t, bm.Contains(64))
	require.True(t, bm.Contains(199))
	require.False(t, bm.Contains(1))
	require.False(t, bm.Contains(1000))
	require.Equal(t, 4, bm.Count())
}

func TestBitmapRemove(t *testing.T) {
	bm := New(100)
	bm.AddMany([]uint64{3, 50, 99})
	bm.Remove(50)
	require.False(t, bm.Contains(50))
	require.Equal(t, 2, bm.Count())
	bm.Remove(200)
	require.Equal(t, 2, bm.Count())
}

func TestBitmapAddRange(t *testing.T) {
	bm := New(300)
	bm.AddRange(60, 130)
	require.Equal(t, 70, bm.Count())
	require.False(t, bm.Contains(59))
	require.True(t, bm.Contains(60))
	require.True(t, bm.Contains(129))
	require.False(t, bm.Contains(130))
}

func TestBitmapClone(t *testing.T) {
	bm := New(128)
	bm.AddMany([]uint64{1, 2, 127})
	cl := bm.Clone()
	require.True(t, bm.IsSame(cl))
	cl.Add(5)
	require.False(t, bm.Contains(5))
}

func TestBitmapOrExpands(t *testing.T) {
	a := New(10)
	a.Add(1)
	b := New(100)
	b.Add(90)
	a.Or(b)
	require.True(t, a.Contains(1))
	require.True(t, a.Contains(90))
}

func TestBitmapIterator(t *testing.T) {
	bm := New(256)
	rows := []uint64{0, 7, 63, 64, 65, 200, 255}
	bm.AddMany(rows)

	var got []uint64
	itr := bm.Iterator()
	for itr.HasNext() {
		got = append(got, itr.Next())
	}
	require.Equal(t, rows, got)
	require.Equal(t, rows, bm.ToArray())
}

func TestBitmapMarshalRoundTrip(t *testing.T) {
	bm := New(150)
	bm.AddMany([]uint64{0, 64, 149})
	data := bm.Marshal()

	var out Bitmap
	out.Unmarshal(data)
	require.Equal(t, bm.Len(), out.Len())
	require.True(t, bm.IsSame(&out))
}
