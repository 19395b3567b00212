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

// Package substr is the public surface of the substring engine. It
// validates arguments, propagates the null mask, resolves the runtime
// type of position columns and drives the two-pass kernels through the
// process's submission pool. All validation happens before any
// parallel work is scheduled; a call either fails up front or returns
// a complete result.
package substr

import (
	"fmt"

	"github.com/colbase/strvec/pkg/common/moerr"
	"github.com/colbase/strvec/pkg/container/nulls"
	"github.com/colbase/strvec/pkg/container/types"
	"github.com/colbase/strvec/pkg/container/vector"
	"github.com/colbase/strvec/pkg/vectorize/substring"
	"github.com/colbase/strvec/pkg/vm/process"
)

// ToEnd as the stop argument slices to the end of each row.
const ToEnd int64 = -1

// Substring returns a new column holding, per row, the code points of
// the source row with index in [start, stop) stepping by step. Null
// rows stay null; a start at or past a row's code point count yields a
// valid empty string. step == 0 is coerced to 1.
func Substring(v *vector.Vector, start, stop, step int64, proc *process.Process) (*vector.Vector, error) {
	if err := checkSource(v, proc); err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring start", start)
	}
	if step == 0 {
		// documented leniency: zero step is silently coerced
		// rather than rejected
		step = 1
	}
	if step < 0 {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring step", step)
	}
	if stop > 0 && start > stop {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring range", fmt.Sprintf("[%d:%d]", start, stop))
	}

	n := v.Length()
	nsp := v.GetNulls().Clone()
	if n == 0 {
		return vector.NewWithBytes(v.GetType(), types.NewBytes(0), nsp, nil), nil
	}

	src := vector.MustBytesCols(v)
	srcNsp := v.GetNulls()

	sizes := make([]uint32, n)
	if err := proc.Parallel(n, func(from, to int) {
		substring.SliceSizes(src, srcNsp, start, stop, step, sizes, from, to)
	}); err != nil {
		return nil, err
	}

	res, data, err := buildResult(sizes, proc)
	if err != nil {
		return nil, err
	}

	if err := proc.Parallel(n, func(from, to int) {
		substring.SliceWrite(src, srcNsp, start, stop, step, res, from, to)
	}); err != nil {
		proc.FreeBytes(data)
		return nil, err
	}
	return vector.NewWithBytes(v.GetType(), res, nsp, data), nil
}

// SubstringByPosition returns a new column holding, per row, the byte
// range covering code points [starts[i], stops[i]) of the source row.
// starts and stops must be non-null integer columns of the same type
// and of the same length as the source; a negative stop slices to the
// end of the row.
func SubstringByPosition(v, starts, stops *vector.Vector, proc *process.Process) (*vector.Vector, error) {
	if err := checkSource(v, proc); err != nil {
		return nil, err
	}
	n := v.Length()
	if starts.Length() != stops.Length() {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring positions",
			fmt.Sprintf("starts length %d, stops length %d", starts.Length(), stops.Length()))
	}
	if starts.Length() != n {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring positions",
			fmt.Sprintf("positions length %d, column rows %d", starts.Length(), n))
	}
	if starts.GetType().Oid != stops.GetType().Oid {
		return nil, moerr.NewInvalidArg(proc.Ctx, "substring positions",
			fmt.Sprintf("starts type %s, stops type %s", starts.GetType(), stops.GetType()))
	}
	if !starts.GetType().IsInteger() {
		return nil, moerr.NewUnsupportedDataType(proc.Ctx, starts.GetType())
	}
	if nulls.Any(starts.GetNulls()) {
		return nil, moerr.NewNullsNotAllowed(proc.Ctx, "substring starts")
	}
	if nulls.Any(stops.GetNulls()) {
		return nil, moerr.NewNullsNotAllowed(proc.Ctx, "substring stops")
	}

	nsp := v.GetNulls().Clone()
	if n == 0 {
		return vector.NewWithBytes(v.GetType(), types.NewBytes(0), nsp, nil), nil
	}

	// The set of position types is closed; anything outside the eight
	// integer widths was rejected above.
	switch starts.GetType().Oid {
	case types.T_int8:
		return positions[int8](v, starts, stops, nsp, proc)
	case types.T_int16:
		return positions[int16](v, starts, stops, nsp, proc)
	case types.T_int32:
		return positions[int32](v, starts, stops, nsp, proc)
	case types.T_int64:
		return positions[int64](v, starts, stops, nsp, proc)
	case types.T_uint8:
		return positions[uint8](v, starts, stops, nsp, proc)
	case types.T_uint16:
		return positions[uint16](v, starts, stops, nsp, proc)
	case types.T_uint32:
		return positions[uint32](v, starts, stops, nsp, proc)
	case types.T_uint64:
		return positions[uint64](v, starts, stops, nsp, proc)
	default:
		return nil, moerr.NewUnsupportedDataType(proc.Ctx, starts.GetType())
	}
}

// positions runs the per-row extractor at a concrete position type.
func positions[T types.Ints](v, starts, stops *vector.Vector, nsp *nulls.Nulls, proc *process.Process) (*vector.Vector, error) {
	n := v.Length()
	src := vector.MustBytesCols(v)
	srcNsp := v.GetNulls()
	sv := vector.MustFixedCol[T](starts)
	ev := vector.MustFixedCol[T](stops)

	sizes := make([]uint32, n)
	if err := proc.Parallel(n, func(from, to int) {
		substring.PositionSizes(src, srcNsp, sv, ev, sizes, from, to)
	}); err != nil {
		return nil, err
	}

	res, data, err := buildResult(sizes, proc)
	if err != nil {
		return nil, err
	}

	if err := proc.Parallel(n, func(from, to int) {
		substring.PositionWrite(src, srcNsp, sv, ev, res, from, to)
	}); err != nil {
		proc.FreeBytes(data)
		return nil, err
	}
	return vector.NewWithBytes(v.GetType(), res, nsp, data), nil
}

// buildResult scans the per-row sizes into offsets and allocates the
// chars buffer in one shot. Output row lengths are unknown until the
// size pass completes, so the buffer can neither be sized earlier nor
// grown incrementally.
func buildResult(sizes []uint32, proc *process.Process) (*types.Bytes, []byte, error) {
	offsets := make([]uint32, len(sizes)+1)
	total := substring.BuildOffsets(sizes, offsets)
	data, err := proc.AllocBytes(int(total))
	if err != nil {
		return nil, nil, err
	}
	return &types.Bytes{Data: data[:total], Offsets: offsets}, data, nil
}

func checkSource(v *vector.Vector, proc *process.Process) error {
	if v == nil {
		return moerr.NewInvalidInput(proc.Ctx, "substring on nil column")
	}
	if !v.GetType().IsString() {
		return moerr.NewUnsupportedDataType(proc.Ctx, v.GetType())
	}
	return nil
}
