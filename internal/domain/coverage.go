package domain

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/southpawriter02/shell-spec/internal/adapter"
	m "github.com/southpawriter02/shell-spec/internal/model"
	pkg "github.com/southpawriter02/shell-spec/pkg"
)

// traceBatchSize amortizes spill writes when folding raw trace files into
// the run-level record.
const traceBatchSize = 256

// MergeTraces folds every per-test raw trace file into the run-level durable
// record. Relative source paths are resolved against the directory of the
// test file that produced them.
func MergeTraces(fs adapter.ScriptFSAdapter, spill pkg.FileSpill[m.TraceRecord], results []m.ExecutionResult) error {
	batch := make([]m.TraceRecord, 0, traceBatchSize)

	for _, res := range results {
		if res.TraceFile == "" {
			continue
		}

		data, err := fs.ReadFile(res.TraceFile)
		if err != nil {
			// A skipped or crashed test may never have opened its trace file.
			slog.Debug("no trace record", "test", res.Case.Name, "path", res.TraceFile)
			continue
		}

		baseDir := filepath.Dir(string(res.Case.File))

		for _, line := range strings.Split(string(data), "\n") {
			record, ok := parseTraceLine(line, baseDir)
			if !ok {
				continue
			}

			batch = append(batch, record)

			if len(batch) >= traceBatchSize {
				if err := spill.AppendBatch(batch); err != nil {
					return fmt.Errorf("failed to record traces: %w", err)
				}

				batch = batch[:0]
			}
		}
	}

	if len(batch) > 0 {
		if err := spill.AppendBatch(batch); err != nil {
			return fmt.Errorf("failed to record traces: %w", err)
		}
	}

	return nil
}

// parseTraceLine decodes one "source:line" record. The line number follows
// the last colon so colons inside paths survive.
func parseTraceLine(line, baseDir string) (m.TraceRecord, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return m.TraceRecord{}, false
	}

	sep := strings.LastIndex(trimmed, ":")
	if sep <= 0 {
		return m.TraceRecord{}, false
	}

	num, err := strconv.Atoi(trimmed[sep+1:])
	if err != nil || num <= 0 {
		return m.TraceRecord{}, false
	}

	src := trimmed[:sep]
	if !filepath.IsAbs(src) {
		src = filepath.Join(baseDir, src)
	}

	return m.TraceRecord{File: m.Path(filepath.Clean(src)), Line: num}, true
}

// BuildCoverage reduces the merged trace record to per-file statistics. The
// merge is a set union: a line is covered or it is not, regardless of how
// often it ran. Stats are produced for every traced file plus every planned
// file, so untouched test files still show up at zero.
func BuildCoverage(fs adapter.ScriptFSAdapter, spill pkg.FileSpill[m.TraceRecord], planFiles []m.Path) ([]m.CoverageStats, error) {
	covered := make(map[m.Path]map[int]bool)

	err := spill.Range(func(_ uint64, record m.TraceRecord) error {
		lines := covered[record.File]
		if lines == nil {
			lines = make(map[int]bool)
			covered[record.File] = lines
		}

		lines[record.Line] = true

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read trace record: %w", err)
	}

	files := make(map[m.Path]bool, len(covered))
	for file := range covered {
		files[file] = true
	}

	for _, file := range planFiles {
		files[file] = true
	}

	var stats []m.CoverageStats

	for file := range files {
		src, err := fs.ReadFile(file)
		if err != nil {
			slog.Warn("cannot read traced file", "path", file, "error", err)
			continue
		}

		stats = append(stats, FileCoverage(string(file), src, covered[file]))
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].File < stats[j].File
	})

	return stats, nil
}

// FileCoverage computes stats for a single file given its source text and
// the set of covered line numbers.
func FileCoverage(file string, src []byte, coveredLines map[int]bool) m.CoverageStats {
	executable := ExecutableLines(src)

	coveredCount := 0

	for _, line := range executable {
		if coveredLines[line] {
			coveredCount++
		}
	}

	return m.CoverageStats{
		File:       file,
		Executable: len(executable),
		Covered:    coveredCount,
		Percent:    coveragePercent(coveredCount, len(executable)),
	}
}

// coveragePercent rounds to one decimal and defines zero executable lines as
// zero percent.
func coveragePercent(covered, executable int) float64 {
	if executable == 0 {
		return 0
	}

	return math.Round(float64(covered)/float64(executable)*1000) / 10
}

// AggregatePercent collapses stats to a whole-number percentage across all
// files.
func AggregatePercent(stats []m.CoverageStats) int {
	totalExecutable := 0
	totalCovered := 0

	for _, s := range stats {
		totalExecutable += s.Executable
		totalCovered += s.Covered
	}

	if totalExecutable == 0 {
		return 0
	}

	return int(math.Round(float64(totalCovered) / float64(totalExecutable) * 100))
}

// CheckCoverageThreshold compares the aggregate percentage against the
// caller's minimum. The computed value is always returned so failures can
// echo it.
func CheckCoverageThreshold(stats []m.CoverageStats, minimum int) (int, error) {
	actual := AggregatePercent(stats)
	if actual < minimum {
		return actual, fmt.Errorf("coverage %d%% is below the required minimum of %d%%", actual, minimum)
	}

	return actual, nil
}
