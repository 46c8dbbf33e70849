package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"recsim/domain"
)

// WriteMatrixCSV writes a dense numeric table. NaN cells (absent reviews)
// are written empty so the distinction from a zero score survives export.
func WriteMatrixCSV(w io.Writer, table [][]float64) error {
	cw := csv.NewWriter(w)
	for _, row := range table {
		record := make([]string, len(row))
		for i, v := range row {
			if math.IsNaN(v) {
				record[i] = ""
				continue
			}
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write matrix row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetricsCSV writes the flat metric record as name,value rows in
// deterministic key order. Undefined metrics export as "undefined".
func WriteMetricsCSV(w io.Writer, metrics map[string]domain.Metric) error {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return fmt.Errorf("failed to write metrics header: %w", err)
	}
	for _, name := range names {
		m := metrics[name]
		value := "undefined"
		if m.Defined {
			value = strconv.FormatFloat(m.Value, 'g', -1, 64)
		}
		if err := cw.Write([]string{name, value}); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRunFiles dumps one run's matrices and metrics under dir.
func WriteRunFiles(dir string, report domain.RunReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{fmt.Sprintf("run_%02d_reviews.csv", report.Run), func(w io.Writer) error {
			return WriteMatrixCSV(w, report.ReviewTable)
		}},
		{fmt.Sprintf("run_%02d_true_utility.csv", report.Run), func(w io.Writer) error {
			return WriteMatrixCSV(w, report.TrueUtilityTable)
		}},
		{fmt.Sprintf("run_%02d_expected_utility.csv", report.Run), func(w io.Writer) error {
			return WriteMatrixCSV(w, report.ExpectedUtilTable)
		}},
		{fmt.Sprintf("run_%02d_metrics.csv", report.Run), func(w io.Writer) error {
			return WriteMetricsCSV(w, report.Metrics)
		}},
	}

	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
