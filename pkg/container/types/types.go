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

import "fmt"

// T is the runtime type tag of a column. The set of tags is closed:
// the eight fixed-width integer types plus the packed string types.
type T uint8

const (
	T_any T = iota

	T_int8
	T_int16
	T_int32
	T_int64
	T_uint8
	T_uint16
	T_uint32
	T_uint64

	T_char
	T_varchar
)

// Type describes the physical type of one column.
type Type struct {
	Oid T

	// Size is the fixed element size in bytes, 24 for varlen types.
	Size int32
}

func New(oid T) Type {
	return Type{Oid: oid, Size: int32(oid.TypeLen())}
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) TypeSize() int {
	return int(t.Size)
}

// IsString returns true if the type holds packed variable length strings.
func (t Type) IsString() bool {
	return t.Oid == T_char || t.Oid == T_varchar
}

func (t Type) IsInteger() bool {
	return t.Oid.IsInteger()
}

func (t T) IsInteger() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64,
		T_uint8, T_uint16, T_uint32, T_uint64:
		return true
	}
	return false
}

func (t T) TypeLen() int {
	switch t {
	case T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32:
		return 4
	case T_int64, T_uint64:
		return 8
	case T_char, T_varchar:
		return 24
	}
	panic(fmt.Sprintf("unknown type %d", t))
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	}
	return fmt.Sprintf("unexpected type tag %d", uint8(t))
}
