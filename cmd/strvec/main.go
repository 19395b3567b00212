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

// strvec reads one string per line from stdin, slices every line with
// the given (start, stop, step) triple and prints the result column.
// A line holding \N is treated as NULL.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/colbase/strvec/pkg/colexec/substr"
	"github.com/colbase/strvec/pkg/common/mpool"
	"github.com/colbase/strvec/pkg/config"
	"github.com/colbase/strvec/pkg/container/types"
	"github.com/colbase/strvec/pkg/container/vector"
	"github.com/colbase/strvec/pkg/logutil"
	"github.com/colbase/strvec/pkg/vm/process"
)

const nullMarker = `\N`

func main() {
	var (
		confPath = flag.String("config", "", "path to a TOML config file")
		start    = flag.Int64("start", 0, "first code point index")
		stop     = flag.Int64("stop", substr.ToEnd, "one past the last code point index, -1 for end of row")
		step     = flag.Int64("step", 1, "code point stride")
	)
	flag.Parse()

	conf, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logutil.Setup(conf.Log)

	mp, err := mpool.NewMPool("strvec", conf.MemoryLimit)
	if err != nil {
		logutil.Fatal("create memory pool", zap.Error(err))
	}
	proc := process.New(context.Background(), mp,
		process.WithParallelism(conf.Parallelism),
		process.WithBatchRows(conf.BatchRows))
	defer proc.Close()

	var vals []string
	var nullRows []uint64
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == nullMarker {
			nullRows = append(nullRows, uint64(len(vals)))
			vals = append(vals, "")
			continue
		}
		vals = append(vals, line)
	}
	if err := sc.Err(); err != nil {
		logutil.Fatal("read stdin", zap.Error(err))
	}

	col := vector.NewWithStrings(types.New(types.T_varchar), vals, nullRows...)
	logutil.Info("slicing column",
		zap.Int("rows", col.Length()),
		zap.Int64("start", *start),
		zap.Int64("stop", *stop),
		zap.Int64("step", *step),
		zap.Int("parallelism", proc.Parallelism()))

	res, err := substr.Substring(col, *start, *stop, *step, proc)
	if err != nil {
		logutil.Fatal("substring", zap.Error(err))
	}
	defer res.Free(mp)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for i := 0; i < res.Length(); i++ {
		if res.IsNull(uint64(i)) {
			fmt.Fprintln(out, nullMarker)
			continue
		}
		fmt.Fprintln(out, res.GetString(int64(i)))
	}
	logutil.Debugf("memory: %s", mp.Report())
}
