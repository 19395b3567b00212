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
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/colbase/strvec/pkg/common/moerr"
	"github.com/colbase/strvec/pkg/common/mpool"
)

const defaultBatchRows = 1024

// New builds a Process around the given allocator. Without options the
// process runs with one worker per CPU.
func New(ctx context.Context, mp *mpool.MPool, opts ...Option) *Process {
	proc := &Process{
		Ctx:         ctx,
		Mp:          mp,
		Lim:         Limitation{Size: mp.Cap(), BatchRows: defaultBatchRows},
		parallelism: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(proc)
	}
	if proc.pool == nil && proc.parallelism > 1 {
		pool, err := ants.NewPool(proc.parallelism)
		if err != nil {
			panic(err)
		}
		proc.pool = pool
		proc.ownsPool = true
	}
	return proc
}

func (proc *Process) Parallelism() int {
	return proc.parallelism
}

// Close releases the submission pool if the process owns it.
func (proc *Process) Close() {
	if proc.ownsPool && proc.pool != nil {
		proc.pool.Release()
		proc.pool = nil
	}
}

// Parallel runs fn over the half-open row ranges covering [0, n). The
// call returns only after every range has completed, so it acts as the
// hard barrier between passes: callers run the size pass, scan, then
// the write pass as three Parallel/sequential steps. Ranges are
// disjoint, so fn must not touch rows outside [start, end).
func (proc *Process) Parallel(n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if proc.pool == nil || proc.parallelism <= 1 || int64(n) < proc.Lim.BatchRows {
		fn(0, n)
		return nil
	}

	nchunk := proc.parallelism
	if nchunk > n {
		nchunk = n
	}
	chunk := (n + nchunk - 1) / nchunk

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		start, end := start, end
		wg.Add(1)
		if err := proc.pool.Submit(func() {
			defer wg.Done()
			fn(start, end)
		}); err != nil {
			// The pool rejected the task; run the range inline so the
			// barrier still holds.
			fn(start, end)
			wg.Done()
		}
	}
	wg.Wait()
	return nil
}

// AllocBytes allocates through the process allocator.
func (proc *Process) AllocBytes(sz int) ([]byte, error) {
	if proc.Mp == nil {
		return nil, moerr.NewInternalError(proc.Ctx, "process has no memory pool")
	}
	return proc.Mp.Alloc(sz)
}

// FreeBytes returns a buffer to the process allocator.
func (proc *Process) FreeBytes(buf []byte) {
	if proc.Mp != nil {
		proc.Mp.Free(buf)
	}
}
