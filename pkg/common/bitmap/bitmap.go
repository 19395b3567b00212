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

// Package bitmap provides a plain word-array bitmap. When len is not a
// multiple of 64, the code below assumes the trailing bits of the last
// word are zero.
package bitmap

import (
	"bytes"
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/colbase/strvec/pkg/container/types"
)

const (
	kEmptyFlagEmpty    int32 = 1
	kEmptyFlagNotEmpty int32 = -1
	kEmptyFlagUnknown  int32 = 0
)

type Bitmap struct {
	len  int64
	data []uint64

	// emptyFlag caches the result of IsEmpty: empty, not empty, or
	// unknown and must be recomputed.
	emptyFlag atomic.Int32
}

// Iterator walks the set bits of a bitmap in ascending order.
type Iterator struct {
	i       uint64
	bm      *Bitmap
	hasNext bool
}

func New(size int) *Bitmap {
	var bm Bitmap
	bm.InitWithSize(size)
	return &bm
}

func (n *Bitmap) InitWithSize(size int) {
	n.len = int64(size)
	n.emptyFlag.Store(kEmptyFlagEmpty)
	n.data = make([]uint64, (size+63)/64)
}

func (n *Bitmap) InitWith(other *Bitmap) {
	n.len = other.len
	n.emptyFlag.Store(other.emptyFlag.Load())
	n.data = append([]uint64(nil), other.data...)
}

func (n *Bitmap) Clone() *Bitmap {
	if n == nil {
		return nil
	}
	var ret Bitmap
	ret.InitWith(n)
	return &ret
}

// Len returns the number of bits in the Bitmap.
func (n *Bitmap) Len() int64 {
	return n.len
}

// Size returns the number of bytes in n.data.
func (n *Bitmap) Size() int {
	return len(n.data) * 8
}

func (n *Bitmap) Ptr() *uint64 {
	if n == nil || len(n.data) == 0 {
		return nil
	}
	return &n.data[0]
}

func (n *Bitmap) Reset() {
	n.len = 0
	n.emptyFlag.Store(kEmptyFlagEmpty)
	n.data = nil
}

// EmptyByFlag is a quick check. True means empty; false means it may or
// may not be empty.
func (n *Bitmap) EmptyByFlag() bool {
	return n == nil || n.emptyFlag.Load() == kEmptyFlagEmpty || len(n.data) == 0
}

// IsEmpty returns true if no bit in the Bitmap is set.
func (n *Bitmap) IsEmpty() bool {
	flag := n.emptyFlag.Load()
	if flag == kEmptyFlagEmpty {
		return true
	} else if flag == kEmptyFlagNotEmpty {
		return false
	}
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != 0 {
			n.emptyFlag.Store(kEmptyFlagNotEmpty)
			return false
		}
	}
	n.emptyFlag.Store(kEmptyFlagEmpty)
	return true
}

// Add assumes the bitmap has been extended to at least row.
func (n *Bitmap) Add(row uint64) {
	n.data[row>>6] |= 1 << (row & 0x3F)
	n.emptyFlag.Store(kEmptyFlagNotEmpty)
}

func (n *Bitmap) AddMany(rows []uint64) {
	for _, row := range rows {
		n.data[row>>6] |= 1 << (row & 0x3F)
	}
	n.emptyFlag.Store(kEmptyFlagNotEmpty)
}

func (n *Bitmap) Remove(row uint64) {
	if row >= uint64(n.len) {
		return
	}
	n.data[row>>6] &^= uint64(1) << (row & 0x3F)
	n.emptyFlag.CompareAndSwap(kEmptyFlagNotEmpty, kEmptyFlagUnknown)
}

// Contains returns true if row is set in the Bitmap.
func (n *Bitmap) Contains(row uint64) bool {
	if row >= uint64(n.len) {
		return false
	}
	idx := row >> 6
	return (n.data[idx] & (1 << (row & 0x3F))) != 0
}

func (n *Bitmap) AddRange(start, end uint64) {
	if start >= end {
		return
	}
	i, j := start>>6, (end-1)>>6
	if i == j {
		n.data[i] |= (^uint64(0) << uint(start&0x3F)) & (^uint64(0) >> (uint(-end) & 0x3F))
		n.emptyFlag.Store(kEmptyFlagNotEmpty)
		return
	}
	n.data[i] |= ^uint64(0) << uint(start&0x3F)
	for k := i + 1; k < j; k++ {
		n.data[k] = ^uint64(0)
	}
	n.data[j] |= ^uint64(0) >> (uint(-end) & 0x3F)
	n.emptyFlag.Store(kEmptyFlagNotEmpty)
}

func (n *Bitmap) Or(m *Bitmap) {
	n.TryExpandWithSize(int(m.len))
	size := (int(m.len) + 63) / 64
	for i := 0; i < size; i++ {
		n.data[i] |= m.data[i]
	}
	n.emptyFlag.CompareAndSwap(kEmptyFlagEmpty, kEmptyFlagUnknown)
}

func (n *Bitmap) IsSame(m *Bitmap) bool {
	if len(m.data) != len(n.data) {
		return false
	}
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != m.data[i] {
			return false
		}
	}
	return true
}

func (n *Bitmap) TryExpandWithSize(size int) {
	if int(n.len) >= size {
		return
	}
	newCap := (size + 63) / 64
	n.len = int64(size)
	if newCap > cap(n.data) {
		data := make([]uint64, newCap)
		copy(data, n.data)
		n.data = data
		return
	}
	if len(n.data) < newCap {
		n.data = n.data[:newCap]
	}
}

func (n *Bitmap) Count() int {
	var cnt int
	if n.emptyFlag.Load() == kEmptyFlagEmpty {
		return 0
	}
	for i := int64(0); i < n.len/64; i++ {
		cnt += bits.OnesCount64(n.data[i])
	}
	if offset := n.len % 64; offset > 0 {
		start := (n.len / 64) * 64
		for i, j := start, start+offset; i < j; i++ {
			if n.Contains(uint64(i)) {
				cnt++
			}
		}
	}
	if cnt > 0 {
		n.emptyFlag.Store(kEmptyFlagNotEmpty)
	} else {
		n.emptyFlag.Store(kEmptyFlagEmpty)
	}
	return cnt
}

func (n *Bitmap) Iterator() *Iterator {
	itr := Iterator{i: 0, bm: n}
	if pos, ok := itr.next(0); ok {
		itr.i = pos
		itr.hasNext = true
		return &itr
	}
	itr.hasNext = false
	return &itr
}

func (itr *Iterator) next(i uint64) (uint64, bool) {
	nwords := uint64((itr.bm.len + 63) / 64)
	word := i >> 6
	mask := ^uint64(0) << (i & 0x3F)
	for ; word < nwords; word++ {
		w := itr.bm.data[word] & mask
		if w != 0 {
			return uint64(bits.TrailingZeros64(w)) + word*64, true
		}
		mask = ^uint64(0)
	}
	return 0, false
}

func (itr *Iterator) HasNext() bool {
	return itr.hasNext
}

func (itr *Iterator) Next() uint64 {
	pos := itr.i
	if next, ok := itr.next(itr.i + 1); ok {
		itr.i = next
		itr.hasNext = true
		return pos
	}
	itr.hasNext = false
	return pos
}

func (n *Bitmap) ToArray() []uint64 {
	var rows []uint64
	if n.EmptyByFlag() {
		return rows
	}
	itr := n.Iterator()
	for itr.HasNext() {
		rows = append(rows, itr.Next())
	}
	return rows
}

func (n *Bitmap) Marshal() []byte {
	var buf bytes.Buffer
	flag := n.emptyFlag.Load()
	u1 := uint64(n.len)
	u2 := uint64(len(n.data) * 8)
	buf.Write(types.EncodeInt32(&flag))
	buf.Write(types.EncodeUint64(&u1))
	buf.Write(types.EncodeUint64(&u2))
	buf.Write(types.EncodeSlice(n.data))
	return buf.Bytes()
}

func (n *Bitmap) Unmarshal(data []byte) {
	n.emptyFlag.Store(types.DecodeInt32(data[:4]))
	data = data[4:]
	n.len = int64(types.DecodeUint64(data[:8]))
	data = data[8:]
	size := int(types.DecodeUint64(data[:8]))
	data = data[8:]
	if size == 0 {
		n.data = nil
	} else {
		n.data = append([]uint64(nil), types.DecodeSlice[uint64](data[:size])...)
	}
}

func (n *Bitmap) String() string {
	return fmt.Sprintf("%v", n.ToArray())
}
