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

package types

import "bytes"

// Bytes is the packed representation of a column of variable length
// UTF-8 strings. All rows are concatenated in Data; row i occupies
// Data[Offsets[i]:Offsets[i+1]]. Offsets always holds n+1 entries with
// Offsets[0] == 0 and is monotonically non-decreasing. A zero length
// row says nothing about null-ness, that lives in the column's nulls.
type Bytes struct {
	Data    []byte
	Offsets []uint32
}

// NewBytes returns an empty Bytes with room for rows offsets.
func NewBytes(rows int) *Bytes {
	return &Bytes{
		Offsets: make([]uint32, rows+1),
	}
}

// BuildBytes packs the given strings into a Bytes.
func BuildBytes(vals ...string) *Bytes {
	b := &Bytes{
		Offsets: make([]uint32, 1, len(vals)+1),
	}
	for _, v := range vals {
		b.AppendOnce([]byte(v))
	}
	return b
}

func (b *Bytes) AppendOnce(v []byte) {
	b.Data = append(b.Data, v...)
	b.Offsets = append(b.Offsets, uint32(len(b.Data)))
}

// Count returns the number of rows.
func (b *Bytes) Count() int {
	if len(b.Offsets) == 0 {
		return 0
	}
	return len(b.Offsets) - 1
}

// Get returns the byte span of row i. The slice aliases Data.
func (b *Bytes) Get(i int64) []byte {
	return b.Data[b.Offsets[i]:b.Offsets[i+1]]
}

func (b *Bytes) GetString(i int64) string {
	return string(b.Get(i))
}

// Size returns the total byte length of all rows.
func (b *Bytes) Size() int {
	return len(b.Data)
}

func (b *Bytes) Reset() {
	b.Data = b.Data[:0]
	b.Offsets = b.Offsets[:1]
}

func (b *Bytes) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, n := int64(0), int64(b.Count()); i < n; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.Write(b.Get(i))
	}
	buf.WriteByte(']')
	return buf.String()
}
