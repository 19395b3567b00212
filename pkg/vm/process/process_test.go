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

package process

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colbase/strvec/pkg/common/mpool"
)

func newProc(t *testing.T, opts ...Option) *Process {
	t.Helper()
	proc := New(context.Background(), mpool.MustNewZero("test"), opts...)
	t.Cleanup(proc.Close)
	return proc
}

func TestParallelCoversAllRows(t *testing.T) {
	proc := newProc(t, WithParallelism(4), WithBatchRows(1))

	const n = 10007
	marks := make([]int32, n)
	err := proc.Parallel(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&marks[i], 1)
		}
	})
	require.NoError(t, err)
	for i, m := range marks {
		require.Equal(t, int32(1), m, "row %d", i)
	}
}

func TestParallelBarrier(t *testing.T) {
	proc := newProc(t, WithParallelism(8), WithBatchRows(1))

	// Parallel must not return before every range completed.
	const n = 4096
	var done int64
	err := proc.Parallel(n, func(start, end int) {
		atomic.AddInt64(&done, int64(end-start))
	})
	require.NoError(t, err)
	require.Equal(t, int64(n), atomic.LoadInt64(&done))
}

func TestParallelSequentialFallback(t *testing.T) {
	proc := newProc(t, WithParallelism(1))

	var calls int
	require.NoError(t, proc.Parallel(100, func(start, end int) {
		calls++
		require.Equal(t, 0, start)
		require.Equal(t, 100, end)
	}))
	require.Equal(t, 1, calls)
}

func TestParallelSmallStaysSequential(t *testing.T) {
	proc := newProc(t, WithParallelism(4), WithBatchRows(1000))

	var calls int32
	require.NoError(t, proc.Parallel(10, func(start, end int) {
		atomic.AddInt32(&calls, 1)
	}))
	require.Equal(t, int32(1), calls)
}

func TestParallelZeroRows(t *testing.T) {
	proc := newProc(t)
	require.NoError(t, proc.Parallel(0, func(start, end int) {
		t.Fatal("must not be called")
	}))
}

func TestAllocBytes(t *testing.T) {
	proc := newProc(t)
	buf, err := proc.AllocBytes(128)
	require.NoError(t, err)
	require.Equal(t, 128, len(buf))
	require.Equal(t, int64(128), proc.Mp.CurrNB())
	proc.FreeBytes(buf)
	require.Equal(t, int64(0), proc.Mp.CurrNB())
}
