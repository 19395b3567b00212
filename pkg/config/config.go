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

package config

import (
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/colbase/strvec/pkg/common/moerr"
	"github.com/colbase/strvec/pkg/logutil"
)

// Config is the engine configuration, loaded from a TOML file.
type Config struct {
	// Parallelism is the worker count of the submission pool. 0 means
	// one worker per CPU.
	Parallelism int `toml:"parallelism"`

	// MemoryLimit caps the byte count a process allocator may hand
	// out. 0 means unlimited.
	MemoryLimit int64 `toml:"memory-limit"`

	// BatchRows is the row count below which passes stay sequential.
	BatchRows int64 `toml:"batch-rows"`

	Log logutil.LogConfig `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Parallelism: runtime.NumCPU(),
		MemoryLimit: 0,
		BatchRows:   1024,
		Log:         logutil.LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, moerr.NewBadConfig(moerr.Context(), "parse %s: %v", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.Parallelism < 0 {
		return moerr.NewBadConfig(moerr.Context(), "parallelism %d", c.Parallelism)
	}
	if c.MemoryLimit < 0 {
		return moerr.NewBadConfig(moerr.Context(), "memory-limit %d", c.MemoryLimit)
	}
	if c.BatchRows < 0 {
		return moerr.NewBadConfig(moerr.Context(), "batch-rows %d", c.BatchRows)
	}
	return nil
}
