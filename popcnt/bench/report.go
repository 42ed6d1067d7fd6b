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

package bench

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// otherFamily heads the timings of algorithms without a family.
const otherFamily = "Other"

// WriteText writes the human readable report: the workload, the setup
// times, one timing section per algorithm family and the fastest-to-slowest
// ranking with multipliers. Families appear in the order of their first
// algorithm; algorithms keep their registration order within a family.
func WriteText(w io.Writer, report *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Workload: %s iterations, seed %d, digest %016x\n",
		humanize.Comma(int64(report.Iterations)), report.Seed, report.WorkloadDigest)

	var setups []Result
	for _, res := range report.Results {
		if res.HasSetup {
			setups = append(setups, res)
		}
	}
	if len(setups) > 0 {
		b.WriteString("\n---> Precomputation\n")
		for _, res := range setups {
			fmt.Fprintf(&b, "%-12s %10.3f ms\n", res.Name, float64(res.SetupElapsed.Nanoseconds())/1e6)
		}
	}

	for _, group := range groupByFamily(report.Results) {
		fmt.Fprintf(&b, "\n---> %s methods\n", group.family)
		for _, res := range group.results {
			fmt.Fprintf(&b, "%-12s %8.3f sec %10.3f Mcps%s\n",
				res.Name, res.Elapsed.Seconds(), res.Throughput, clampMark(res))
		}
	}

	b.WriteString("\n---> Fastest to slowest\n")
	for _, r := range report.Ranking {
		fmt.Fprintf(&b, "%2d. %-12s x %7.2f%s\n", r.Rank, r.Name, r.Multiplier, clampMark(r.Result))
	}

	if report.Clamped() {
		fmt.Fprintf(&b, "\n* elapsed time below clock resolution, clamped to %s\n", MinElapsed)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type familyGroup struct {
	family  string
	results []Result
}

func groupByFamily(results []Result) []familyGroup {
	var groups []familyGroup
	pos := make(map[string]int)
	for _, res := range results {
		family := res.Family
		if family == "" {
			family = otherFamily
		}
		i, ok := pos[family]
		if !ok {
			i = len(groups)
			pos[family] = i
			groups = append(groups, familyGroup{family: family})
		}
		groups[i].results = append(groups[i].results, res)
	}
	return groups
}

func clampMark(res Result) string {
	if res.Clamped {
		return " *"
	}
	return ""
}

// WritePrometheus writes the report in the Prometheus text exposition
// format, one gauge family per measurement labelled by algorithm.
func WritePrometheus(w io.Writer, report *Report) error {
	labels := []string{"algorithm"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "popbench",
			Name:      name,
			Help:      help,
		}, labels)
	}

	var (
		throughput = gauge("throughput_mcps", "Millions of CountBits calls per second.")
		elapsed    = gauge("elapsed_seconds", "Time spent in the counting loop.")
		setup      = gauge("setup_seconds", "Time spent building precomputed tables.")
		relative   = gauge("relative_speed", "Throughput relative to the slowest algorithm.")
		rank       = gauge("rank", "Position in the fastest-to-slowest ranking, 1 is fastest.")
		clamped    = gauge("clamped", "1 when the elapsed time was clamped to the clock resolution.")
		iterations = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "popbench",
			Name:      "iterations",
			Help:      "CountBits calls per algorithm.",
		})
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(throughput, elapsed, setup, relative, rank, clamped, iterations)

	iterations.Set(float64(report.Iterations))
	for _, r := range report.Ranking {
		throughput.WithLabelValues(r.Name).Set(r.Throughput)
		elapsed.WithLabelValues(r.Name).Set(r.Elapsed.Seconds())
		if r.HasSetup {
			setup.WithLabelValues(r.Name).Set(r.SetupElapsed.Seconds())
		}
		relative.WithLabelValues(r.Name).Set(r.Multiplier)
		rank.WithLabelValues(r.Name).Set(float64(r.Rank))
		if r.Clamped {
			clamped.WithLabelValues(r.Name).Set(1)
		} else {
			clamped.WithLabelValues(r.Name).Set(0)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
