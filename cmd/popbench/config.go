// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration file. Zero values leave the flag
// defaults in place.
//
//	iterations: 10000000
//	seed: 7
//	block_size: 65536
//	only: [Sparse, Dense]
//	format: text
//	no_simd: false
//	log:
//	  level: debug
//	  json: false
//	validation:
//	  samples: 100000
//	  seed: 12345
//	  skip: false
type fileConfig struct {
	Iterations int      `yaml:"iterations"`
	Seed       uint64   `yaml:"seed"`
	BlockSize  int      `yaml:"block_size"`
	Only       []string `yaml:"only"`
	Format     string   `yaml:"format"`
	NoSIMD     bool     `yaml:"no_simd"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`

	Validation struct {
		Samples int    `yaml:"samples"`
		Seed    uint64 `yaml:"seed"`
		Skip    bool   `yaml:"skip"`
	} `yaml:"validation"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// apply copies file values into o for every flag the user did not set on
// the command line.
func (fc *fileConfig) apply(cmd *cobra.Command, o *options) {
	unset := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f == nil || !f.Changed
	}

	if fc.Iterations != 0 && unset("iterations") {
		o.iterations = fc.Iterations
	}
	// --seed is the workload seed on the root command and the validation
	// seed on validate.
	if cmd.Name() == validateCmdName {
		if fc.Validation.Seed != 0 && unset("seed") {
			o.validationSeed = fc.Validation.Seed
		}
	} else {
		if fc.Seed != 0 && unset("seed") {
			o.seed = fc.Seed
		}
		if fc.Validation.Seed != 0 {
			o.validationSeed = fc.Validation.Seed
		}
	}
	if fc.BlockSize != 0 && unset("block-size") {
		o.blockSize = fc.BlockSize
	}
	if len(fc.Only) > 0 && unset("only") {
		o.only = fc.Only
	}
	if fc.Format != "" && unset("format") {
		o.format = fc.Format
	}
	if fc.NoSIMD && unset("no-simd") {
		o.noSIMD = true
	}
	if fc.Log.Level != "" && unset("log-level") {
		o.logLevel = fc.Log.Level
	}
	if fc.Log.JSON && unset("log-json") {
		o.logJSON = true
	}
	if fc.Validation.Samples != 0 && unset("samples") {
		o.samples = fc.Validation.Samples
	}
	if fc.Validation.Skip && unset("skip-validation") {
		o.skipValidation = true
	}
}
