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

// Package substring holds the row kernels of the substring engine.
// Every kernel comes in a size flavor and a write flavor driven by the
// same traversal: the size pass computes per row output byte counts
// with no output buffer, the write pass fills a buffer laid out by the
// prefix sum of those counts. Kernels take a [from, to) row range so
// the driver can split a column across workers.
package substring

import (
	"golang.org/x/exp/constraints"

	"github.com/colbase/strvec/pkg/container/nulls"
	"github.com/colbase/strvec/pkg/container/types"
)

// pass selects what the shared traversal does with a visited code
// point. Keeping one parameterized loop instead of two hand written
// ones is what guarantees the size and write passes never diverge.
type pass int

const (
	sizePass pass = iota
	writePass
)

// CharWidth returns the byte length, 1 to 4, of the code point whose
// leading byte is b. Continuation bytes are not validated; a malformed
// byte counts as a single-byte code point.
func CharWidth(b byte) int64 {
	switch {
	case b < 0x80:
		return 1
	case b>>5 == 0x6:
		return 2
	case b>>4 == 0xE:
		return 3
	case b>>3 == 0x1E:
		return 4
	}
	return 1
}

// sliceRow visits the code points of src with index in [start, stop)
// stepping by step, in order. stop < 0 means to the end of the row. In
// sizePass it returns the total byte width of the visited code points;
// in writePass it also copies their bytes into dst, in visitation
// order, and returns the bytes written. The write pass trusts offsets
// computed purely from the size pass, so both must run this exact loop.
func sliceRow(src []byte, start, stop, step int64, mode pass, dst []byte) int64 {
	var size int64
	var cp int64
	n := int64(len(src))
	for i := int64(0); i < n; {
		if stop >= 0 && cp >= stop {
			break
		}
		w := CharWidth(src[i])
		if i+w > n {
			// malformed tail, keep size and write in agreement
			w = n - i
		}
		if cp >= start && (cp-start)%step == 0 {
			if mode == writePass {
				copy(dst[size:], src[i:i+w])
			}
			size += w
		}
		cp++
		i += w
	}
	return size
}

// byteOffset returns the byte offset of code point k in src, or
// len(src) when k is at or past the last code point.
func byteOffset(src []byte, k int64) int64 {
	var i int64
	n := int64(len(src))
	for ; i < n && k > 0; k-- {
		w := CharWidth(src[i])
		if i+w > n {
			w = n - i
		}
		i += w
	}
	return i
}

// positionRange resolves a per-row (start, stop) pair into the
// contiguous byte range covering code points [start, end), where end
// follows the stop rule: negative or past-the-end stop means the row
// length. A start at or past the row length yields an empty range, as
// does an inverted pair.
func positionRange(src []byte, start, stop int64) (int64, int64) {
	if start < 0 {
		start = 0
	}
	lo := byteOffset(src, start)
	hi := int64(len(src))
	if stop >= 0 {
		hi = byteOffset(src, stop)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// SliceSizes is the size pass of the scalar extractor: for each row in
// [from, to) it stores the output byte count in sizes. Null rows
// contribute zero bytes.
func SliceSizes(src *types.Bytes, nsp *nulls.Nulls, start, stop, step int64, sizes []uint32, from, to int) {
	for i := from; i < to; i++ {
		if nulls.Contains(nsp, uint64(i)) {
			sizes[i] = 0
			continue
		}
		sizes[i] = uint32(sliceRow(src.Get(int64(i)), start, stop, step, sizePass, nil))
	}
}

// SliceWrite is the write pass of the scalar extractor: for each row
// in [from, to) it copies the selected code points into the result at
// the row's precomputed offset. Write regions are disjoint by
// construction, so ranges may run concurrently.
func SliceWrite(src *types.Bytes, nsp *nulls.Nulls, start, stop, step int64, res *types.Bytes, from, to int) {
	for i := from; i < to; i++ {
		if nulls.Contains(nsp, uint64(i)) {
			continue
		}
		dst := res.Data[res.Offsets[i]:res.Offsets[i+1]]
		sliceRow(src.Get(int64(i)), start, stop, step, writePass, dst)
	}
}

// PositionSizes is the size pass of the per-row position extractor.
// step is fixed at 1, so a row's output is one contiguous byte range
// and its size is just the range width.
func PositionSizes[T constraints.Integer](src *types.Bytes, nsp *nulls.Nulls, starts, stops []T, sizes []uint32, from, to int) {
	for i := from; i < to; i++ {
		if nulls.Contains(nsp, uint64(i)) {
			sizes[i] = 0
			continue
		}
		lo, hi := positionRange(src.Get(int64(i)), int64(starts[i]), int64(stops[i]))
		sizes[i] = uint32(hi - lo)
	}
}

// PositionWrite is the write pass of the per-row position extractor:
// one contiguous copy per row instead of per code point iteration.
func PositionWrite[T constraints.Integer](src *types.Bytes, nsp *nulls.Nulls, starts, stops []T, res *types.Bytes, from, to int) {
	for i := from; i < to; i++ {
		if nulls.Contains(nsp, uint64(i)) {
			continue
		}
		row := src.Get(int64(i))
		lo, hi := positionRange(row, int64(starts[i]), int64(stops[i]))
		copy(res.Data[res.Offsets[i]:res.Offsets[i+1]], row[lo:hi])
	}
}

// BuildOffsets fills offsets, of length len(sizes)+1, with the
// exclusive prefix sum of sizes and returns the total byte count. The
// scan is the single sequential step between the two passes: every
// row's size must be known before any row may write. The total must
// fit in uint32; that limit is a caller-enforced precondition, not
// checked here.
func BuildOffsets(sizes []uint32, offsets []uint32) uint32 {
	var total uint32
	for i, sz := range sizes {
		offsets[i] = total
		total += sz
	}
	offsets[len(sizes)] = total
	return total
}
