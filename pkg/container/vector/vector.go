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

package vector

import (
	"bytes"
	"fmt"

	"github.com/colbase/strvec/pkg/common/mpool"
	"github.com/colbase/strvec/pkg/container/nulls"
	"github.com/colbase/strvec/pkg/container/types"
)

// Vector represents one column. The concrete storage behind col is
// *types.Bytes for string types and a []T slice for fixed-width types;
// callers go through the Must*Cols accessors after checking the type
// tag. Vectors are immutable once handed to an operation.
type Vector struct {
	typ types.Type
	nsp *nulls.Nulls

	// col is *types.Bytes or []T.
	col any

	// data is the mpool buffer backing the packed string bytes, nil
	// when the vector does not own pooled memory.
	data []byte

	length  int
	nullCnt int
}

func New(typ types.Type) *Vector {
	return &Vector{typ: typ, nsp: &nulls.Nulls{}}
}

// NewWithBytes assembles a string vector from a packed Bytes, its null
// mask and the mpool buffer holding the chars (may be nil). This is
// the single construction path for operation results.
func NewWithBytes(typ types.Type, bs *types.Bytes, nsp *nulls.Nulls, data []byte) *Vector {
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		typ:     typ,
		col:     bs,
		nsp:     nsp,
		data:    data,
		length:  bs.Count(),
		nullCnt: nsp.Count(),
	}
}

// NewWithStrings packs the given strings into a fresh string vector.
// nullRows lists the rows to mark null; their string content is kept
// as is, validity is never inferred from content.
func NewWithStrings(typ types.Type, vals []string, nullRows ...uint64) *Vector {
	bs := types.BuildBytes(vals...)
	var nsp *nulls.Nulls
	if len(nullRows) > 0 {
		nsp = nulls.Build(len(vals), nullRows...)
	}
	return NewWithBytes(typ, bs, nsp, nil)
}

// NewWithFixed builds a fixed-width vector over vals.
func NewWithFixed[T any](typ types.Type, vals []T, nullRows ...uint64) *Vector {
	var nsp *nulls.Nulls
	if len(nullRows) > 0 {
		nsp = nulls.Build(len(vals), nullRows...)
	}
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		typ:     typ,
		col:     vals,
		nsp:     nsp,
		length:  len(vals),
		nullCnt: nsp.Count(),
	}
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
	v.nullCnt = nsp.Count()
}

// NullCount returns the cached count of null rows.
func (v *Vector) NullCount() int {
	return v.nullCnt
}

func (v *Vector) IsNull(row uint64) bool {
	return nulls.Contains(v.nsp, row)
}

// MustBytesCols returns the packed string storage of a string vector.
func MustBytesCols(v *Vector) *types.Bytes {
	if !v.typ.IsString() {
		panic(fmt.Sprintf("unexpected type %s for bytes cols", v.typ))
	}
	return v.col.(*types.Bytes)
}

// MustFixedCol returns the typed storage of a fixed-width vector.
// The element type must match the vector's type tag; the position
// resolver checks the tag before instantiating.
func MustFixedCol[T any](v *Vector) []T {
	return v.col.([]T)
}

// GetString returns row i of a string vector. Null rows return "".
func (v *Vector) GetString(i int64) string {
	return MustBytesCols(v).GetString(i)
}

// Size returns the in-memory byte size of the column payload.
func (v *Vector) Size() int {
	if v.typ.IsString() {
		bs := v.col.(*types.Bytes)
		return bs.Size() + 4*len(bs.Offsets)
	}
	return v.length * v.typ.TypeSize()
}

// Free returns pooled memory to mp. The vector must not be used after.
func (v *Vector) Free(mp *mpool.MPool) {
	if v.data != nil && mp != nil {
		mp.Free(v.data)
		v.data = nil
	}
	v.col = nil
	v.length = 0
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteString(v.typ.String())
	if v.typ.IsString() {
		bs := v.col.(*types.Bytes)
		fmt.Fprintf(&buf, "%s", bs.String())
	} else {
		fmt.Fprintf(&buf, "%v", v.col)
	}
	if v.nullCnt > 0 {
		fmt.Fprintf(&buf, "-%s", nulls.String(v.nsp))
	}
	return buf.String()
}
