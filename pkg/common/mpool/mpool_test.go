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

package mpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colbase/strvec/pkg/common/moerr"
)

func TestAllocFree(t *testing.T) {
	mp, err := NewMPool("test", 1<<20)
	require.NoError(t, err)

	buf, err := mp.Alloc(1024)
	require.NoError(t, err)
	require.Equal(t, 1024, len(buf))
	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
	require.Equal(t, int64(1024), mp.CurrNB())

	mp.Free(buf)
	require.Equal(t, int64(0), mp.CurrNB())
	require.Equal(t, int64(1024), mp.HighWater())
}

func TestAllocZero(t *testing.T) {
	mp := MustNewZero("test")
	buf, err := mp.Alloc(0)
	require.NoError(t, err)
	require.Nil(t, buf)
	mp.Free(buf)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestAllocOverCap(t *testing.T) {
	mp, err := NewMPool("small", 100)
	require.NoError(t, err)

	buf, err := mp.Alloc(100)
	require.NoError(t, err)

	_, err = mp.Alloc(1)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	// the failed alloc must not leak accounting
	require.Equal(t, int64(100), mp.CurrNB())

	mp.Free(buf)
	_, err = mp.Alloc(50)
	require.NoError(t, err)
}

func TestNegativeCap(t *testing.T) {
	_, err := NewMPool("bad", -1)
	require.Error(t, err)
}

func TestGrow(t *testing.T) {
	mp := MustNewZero("grow")
	buf, err := mp.Alloc(8)
	require.NoError(t, err)
	copy(buf, "abcdefgh")

	nb, err := mp.Grow(buf, 32)
	require.NoError(t, err)
	require.Equal(t, 32, len(nb))
	require.Equal(t, "abcdefgh", string(nb[:8]))
	mp.Free(nb)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestConcurrentAlloc(t *testing.T) {
	mp := MustNewZero("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				buf, err := mp.Alloc(64)
				if err != nil {
					panic(err)
				}
				mp.Free(buf)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(0), mp.CurrNB())
}
