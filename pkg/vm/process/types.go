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

	"github.com/panjf2000/ants/v2"

	"github.com/colbase/strvec/pkg/common/mpool"
)

// Limitation holds the resource limits of one process.
type Limitation struct {
	// Size is the memory threshold in bytes, enforced by the mpool.
	Size int64
	// BatchRows is the minimum row count before a pass goes parallel.
	BatchRows int64
}

// Process is the ordered submission context of one invocation. It
// carries the allocator used for all output buffers and the goroutine
// pool the data parallel passes are submitted to. One invocation runs
// against exactly one Process.
type Process struct {
	Id  string
	Ctx context.Context
	Lim Limitation

	// Mp is the pool for fast allocation and deallocation of buffers.
	Mp *mpool.MPool

	pool        *ants.Pool
	parallelism int
	ownsPool    bool
}

type Option func(*Process)

// WithParallelism sets the number of workers of the submission pool.
// n <= 1 keeps all passes sequential.
func WithParallelism(n int) Option {
	return func(proc *Process) {
		proc.parallelism = n
	}
}

// WithPool attaches an externally owned goroutine pool. The process
// will not release it on Close.
func WithPool(pool *ants.Pool) Option {
	return func(proc *Process) {
		proc.pool = pool
		proc.ownsPool = false
	}
}

// WithBatchRows overrides the row count threshold below which passes
// stay sequential.
func WithBatchRows(n int64) Option {
	return func(proc *Process) {
		proc.Lim.BatchRows = n
	}
}
