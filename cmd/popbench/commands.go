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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ajroetker/go-popcount/internal/logging"
	"github.com/ajroetker/go-popcount/popcnt"
	"github.com/ajroetker/go-popcount/popcnt/bench"
	"github.com/ajroetker/go-popcount/popcnt/validate"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const validateCmdName = "validate"

var errUnknownFormat = errors.New("unknown report format")

// options holds every flag of the command tree.
type options struct {
	configPath string
	logLevel   string
	logJSON    bool
	noSIMD     bool
	only       []string

	iterations     int
	seed           uint64
	blockSize      int
	format         string
	skipValidation bool

	samples        int
	validationSeed uint64
	exhaustive     bool
	workers        int

	logger *slog.Logger
}

// setup loads the config file, if any, and builds the logger. It runs
// before every command.
func (o *options) setup(cmd *cobra.Command) error {
	if o.configPath != "" {
		fc, err := loadConfig(o.configPath)
		if err != nil {
			return err
		}
		fc.apply(cmd, o)
	}

	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    o.logJSON,
		Output:  cmd.ErrOrStderr(),
		Service: "popbench",
	})
	return nil
}

// registry builds the standard registry for the detected CPU, narrowed to
// --only when given.
func (o *options) registry() (*popcnt.Registry, popcnt.Capabilities, error) {
	caps := popcnt.Detect()
	if o.noSIMD {
		caps = caps.Scalar()
	}
	reg := popcnt.Standard(caps)
	if len(o.only) == 0 {
		return reg, caps, nil
	}
	sub, err := reg.Subset(o.only...)
	if err != nil {
		return nil, caps, err
	}
	return sub, caps, nil
}

func newRootCmd() *cobra.Command {
	o := &options{}
	defaults := bench.DefaultConfig()
	validation := validate.DefaultOptions()

	root := &cobra.Command{
		Use:   "popbench",
		Short: "Validate and benchmark population count algorithms",
		Long: `popbench checks every registered bit-counting algorithm against a
reference count, then times each one on the same pseudo-random workload and
ranks them from fastest to slowest.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd.OutOrStdout(), o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&o.logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&o.noSIMD, "no-simd", false, "disable hardware and vector paths")
	pf.StringSliceVar(&o.only, "only", nil, "comma separated algorithm names (default all)")

	f := root.Flags()
	f.IntVarP(&o.iterations, "iterations", "n", defaults.Iterations, "CountBits calls per algorithm")
	f.Uint64Var(&o.seed, "seed", 0, "workload seed, 0 derives one from the clock")
	f.IntVar(&o.blockSize, "block-size", defaults.BlockSize, "inputs generated ahead of each timed block")
	f.StringVar(&o.format, "format", "text", "report format: text or prometheus")
	f.BoolVar(&o.skipValidation, "skip-validation", false, "benchmark without validating first")

	// The root command validates with the default options unless the
	// config file overrides them.
	o.samples = validation.Samples
	o.validationSeed = validation.Seed

	root.AddCommand(newValidateCmd(o), newListCmd(o))
	return root
}

func newValidateCmd(o *options) *cobra.Command {
	defaults := validate.DefaultOptions()

	cmd := &cobra.Command{
		Use:   validateCmdName,
		Short: "Check every algorithm against the reference count",
		Long: `validate compares every algorithm with the reference on the boundary
values and a fixed pseudo-random sample. With --exhaustive it checks all
2^32 inputs in parallel instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, o)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.samples, "samples", defaults.Samples, "number of pseudo-random inputs")
	f.Uint64Var(&o.validationSeed, "seed", defaults.Seed, "seed of the pseudo-random inputs")
	f.BoolVar(&o.exhaustive, "exhaustive", false, "check the whole 32-bit input domain")
	f.IntVar(&o.workers, "workers", 0, "exhaustive sweep goroutines (default GOMAXPROCS)")
	return cmd
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered algorithms and the selected CPU paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), o)
		},
	}
}

func runBenchmark(out io.Writer, o *options) error {
	write, err := reportWriter(o.format)
	if err != nil {
		return err
	}
	reg, caps, err := o.registry()
	if err != nil {
		return err
	}
	o.logger.Debug("capabilities", "dispatch", caps.Level, "cpu", caps.CPUName)

	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		o.logger.Info("derived workload seed", "seed", seed)
	}

	runner, err := bench.NewRunner(&bench.Config{
		Iterations: o.iterations,
		Seed:       seed,
		BlockSize:  o.blockSize,
	}, bench.WithLogger(o.logger))
	if err != nil {
		return err
	}

	if o.skipValidation {
		o.logger.Warn("validation skipped")
	} else {
		err := validate.Run(reg, validate.Options{Samples: o.samples, Seed: o.validationSeed})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		o.logger.Info("validation passed", "algorithms", reg.Len(), "samples", o.samples)
	}

	report, err := runner.Run(reg)
	if err != nil {
		return err
	}
	return write(out, report)
}

func reportWriter(format string) (func(io.Writer, *bench.Report) error, error) {
	switch format {
	case "text":
		return bench.WriteText, nil
	case "prometheus":
		return bench.WritePrometheus, nil
	default:
		return nil, fmt.Errorf("%w %q, want text or prometheus", errUnknownFormat, format)
	}
}

func runValidate(cmd *cobra.Command, o *options) error {
	reg, _, err := o.registry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if o.exhaustive {
		start := time.Now()
		opts := validate.FullDomain()
		opts.Workers = o.workers
		o.logger.Info("exhaustive sweep started", "algorithms", reg.Len(), "workers", opts.Workers)
		if err := validate.Sweep(cmd.Context(), reg, opts); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "ok: %d algorithms agree on all %s inputs (%s)\n",
			reg.Len(), humanize.Comma(1<<32), time.Since(start).Round(time.Millisecond))
		return nil
	}

	opts := validate.Options{Samples: o.samples, Seed: o.validationSeed}
	if err := validate.Run(reg, opts); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Fprintf(out, "ok: %d algorithms agree on %s inputs\n",
		reg.Len(), humanize.Comma(int64(opts.Samples+len(validate.BoundaryValues))))
	return nil
}

// tableSizer is implemented by the table-driven algorithms.
type tableSizer interface {
	TableBytes() int
}

func runList(out io.Writer, o *options) error {
	reg, caps, err := o.registry()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "CPU:      %s\n", caps.CPUName)
	fmt.Fprintf(out, "Dispatch: %s\n\n", caps.Level)
	for _, e := range reg.Entries() {
		setup := "-"
		if ts, ok := e.Counter.(tableSizer); ok {
			setup = "table " + humanize.IBytes(uint64(ts.TableBytes()))
		} else if e.HasSetup() {
			setup = "setup"
		}
		impl := "portable"
		if im, ok := e.Counter.(popcnt.Implementer); ok {
			impl = im.Implementation()
		}
		fmt.Fprintf(out, "%2d. %-12s %-16s %s\n", e.Index+1, e.Name, setup, impl)
	}
	return nil
}
