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

// Package mpool is the memory resource threaded through every
// allocation the engine performs. Each pool tracks its in-use byte
// count against a fixed capacity; an allocation past the capacity
// fails with OOM instead of growing unbounded.
package mpool

import (
	"fmt"
	"sync/atomic"

	"github.com/colbase/strvec/pkg/common/moerr"
)

// NoFixed caps nothing; the pool only keeps accounting.
const NoFixed int64 = 0

type MPool struct {
	tag string
	cap int64

	currNB    atomic.Int64 // in-use bytes
	allocCnt  atomic.Int64
	highWater atomic.Int64
}

// NewMPool creates a pool. cap == NoFixed means unlimited.
func NewMPool(tag string, cap int64) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInternalError(moerr.Context(), "mpool %s with negative cap %d", tag, cap)
	}
	return &MPool{tag: tag, cap: cap}, nil
}

// MustNewZero returns an uncapped pool and panics on failure. Test and
// tool helper.
func MustNewZero(tag string) *MPool {
	mp, err := NewMPool(tag, NoFixed)
	if err != nil {
		panic(err)
	}
	return mp
}

func (mp *MPool) Tag() string {
	return mp.tag
}

func (mp *MPool) Cap() int64 {
	return mp.cap
}

// CurrNB returns the current in-use byte count.
func (mp *MPool) CurrNB() int64 {
	return mp.currNB.Load()
}

func (mp *MPool) HighWater() int64 {
	return mp.highWater.Load()
}

// Alloc returns a zeroed buffer of sz bytes charged to the pool.
func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInternalError(moerr.Context(), "mpool %s alloc size %d", mp.tag, sz)
	}
	if sz == 0 {
		return nil, nil
	}
	curr := mp.currNB.Add(int64(sz))
	if mp.cap != NoFixed && curr > mp.cap {
		mp.currNB.Add(-int64(sz))
		return nil, moerr.NewOOM(moerr.Context())
	}
	for {
		hw := mp.highWater.Load()
		if curr <= hw || mp.highWater.CompareAndSwap(hw, curr) {
			break
		}
	}
	mp.allocCnt.Add(1)
	return make([]byte, sz), nil
}

// Free returns a buffer obtained from Alloc. Freeing nil is a no-op.
func (mp *MPool) Free(buf []byte) {
	if buf == nil {
		return
	}
	if mp.currNB.Add(-int64(cap(buf))) < 0 {
		panic(fmt.Sprintf("mpool %s double free or foreign buffer", mp.tag))
	}
}

// Grow reallocates buf to at least sz bytes, keeping its content.
func (mp *MPool) Grow(buf []byte, sz int) ([]byte, error) {
	if sz <= cap(buf) {
		return buf[:sz], nil
	}
	nb, err := mp.Alloc(sz)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	mp.Free(buf)
	return nb, nil
}

func (mp *MPool) Report() string {
	return fmt.Sprintf("mpool %s: cap %d, in-use %d, high water %d, allocs %d",
		mp.tag, mp.cap, mp.CurrNB(), mp.HighWater(), mp.allocCnt.Load())
}
