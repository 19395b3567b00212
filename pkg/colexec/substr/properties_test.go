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

package substr

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/colbase/strvec/pkg/common/mpool"
	"github.com/colbase/strvec/pkg/container/vector"
	"github.com/colbase/strvec/pkg/vm/process"
)

func TestSubstringProperties(t *testing.T) {
	Convey("substring over a column with nulls and empties", t, func() {
		mp := mpool.MustNewZero("convey")
		proc := process.New(context.Background(), mp)
		defer proc.Close()

		vals := []string{"hello", "", "world", "héllo", ""}
		col := strCol(vals, 1, 4)

		Convey("row count and null-ness are preserved exactly", func() {
			res, err := Substring(col, 1, 4, 1, proc)
			So(err, ShouldBeNil)
			So(res.Length(), ShouldEqual, col.Length())
			for i := 0; i < col.Length(); i++ {
				So(res.IsNull(uint64(i)), ShouldEqual, col.IsNull(uint64(i)))
			}
			So(res.NullCount(), ShouldEqual, 2)
		})

		Convey("offsets start at zero and never decrease", func() {
			res, err := Substring(col, 0, ToEnd, 2, proc)
			So(err, ShouldBeNil)
			offsets := vector.MustBytesCols(res).Offsets
			So(offsets[0], ShouldEqual, 0)
			for i := 1; i < len(offsets); i++ {
				So(offsets[i], ShouldBeGreaterThanOrEqualTo, offsets[i-1])
			}
		})

		Convey("a start past the row length yields empty, not null", func() {
			res, err := Substring(col, 64, ToEnd, 1, proc)
			So(err, ShouldBeNil)
			So(res.IsNull(0), ShouldBeFalse)
			So(res.GetString(0), ShouldEqual, "")
		})

		Convey("validation failures leave no allocation behind", func() {
			before := mp.CurrNB()
			_, err := Substring(col, 9, 2, 1, proc)
			So(err, ShouldNotBeNil)
			So(mp.CurrNB(), ShouldEqual, before)
		})
	})
}
