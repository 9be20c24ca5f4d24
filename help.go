package jmhbench

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultResultPath is where the b_verify benchmark project leaves its JMH output,
// relative to the parent of the working directory.
const DefaultResultPath = "bverify_benchmark/jmh-result.csv"

var (
	errNotFinite = errors.New("value is not finite")
	errNegative  = errors.New("value is negative")
	errEmpty     = errors.New("value is empty")
	errNoColumn  = errors.New("required column missing")
)

// DefaultInputPath resolves DefaultResultPath against the parent of the working directory.
func DefaultInputPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(wd), filepath.FromSlash(DefaultResultPath)), nil
}

// LoadCSV reads a JMH result file.
func LoadCSV(path string) ([]BenchmarkRow, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMissingFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV parses JMH CSV content. Columns are looked up by header name, so their
// order does not matter and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]BenchmarkRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Column: ColBenchmark, Err: errNoColumn}
	}
	if err != nil {
		return nil, csvError(err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range []string{ColBenchmark, ColScore, ColScoreError} {
		if _, ok := index[col]; !ok {
			return nil, &ParseError{Column: col, Err: errNoColumn}
		}
	}

	cell := func(record []string, col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	// intCell reads an optional count column, absent or empty cells are 0.
	intCell := func(record []string, col string, line int) (int, error) {
		v, _ := cell(record, col)
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, &ParseError{Line: line, Column: col, Value: v, Err: err}
		}
		if n < 0 {
			return 0, &ParseError{Line: line, Column: col, Value: v, Err: errNegative}
		}
		return n, nil
	}

	var rows []BenchmarkRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		var row BenchmarkRow
		row.Name, _ = cell(record, ColBenchmark)
		if strings.TrimSpace(row.Name) == "" {
			return nil, &ParseError{Line: line, Column: ColBenchmark, Err: errEmpty}
		}

		v, _ := cell(record, ColScore)
		row.Score, err = parseMeasure(v, false)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColScore, Value: v, Err: err}
		}

		v, _ = cell(record, ColScoreError)
		row.ScoreError, err = parseMeasure(v, true)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColScoreError, Value: v, Err: err}
		}

		row.Mode, _ = cell(record, ColMode)
		row.Unit, _ = cell(record, ColUnit)
		if row.Threads, err = intCell(record, ColThreads, line); err != nil {
			return nil, err
		}
		if row.Samples, err = intCell(record, ColSamples, line); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseMeasure parses a score cell. JMH writes NaN as the error of a single-sample run,
// which is read as no error when nanAsZero is set.
func parseMeasure(s string, nanAsZero bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) && nanAsZero {
		return 0, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return err
}

// LoadDataDir loads every .csv file of dir, in file name order.
func LoadDataDir(dir string) ([]Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	res := make([]Report, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}

		rows, err := LoadCSV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		res = append(res, Report{
			Source: strings.TrimSuffix(e.Name(), ".csv"),
			Rows:   rows,
		})
	}
	return res, nil
}

// WriteCSV writes rows in the JMH column layout.
func WriteCSV(outputFile string, rows []BenchmarkRow) error {
	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := EncodeCSV(out, rows); err != nil {
		return err
	}
	return out.Close()
}

// EncodeCSV writes rows in the JMH column layout to w.
func EncodeCSV(w io.Writer, rows []BenchmarkRow) error {
	cw := csv.NewWriter(w)
	err := cw.Write([]string{ColBenchmark, ColMode, ColThreads, ColSamples, ColScore, ColScoreError, ColUnit})
	if err != nil {
		return err
	}
	for _, r := range rows {
		err = cw.Write([]string{
			r.Name,
			r.Mode,
			strconv.Itoa(r.Threads),
			strconv.Itoa(r.Samples),
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			strconv.FormatFloat(r.ScoreError, 'f', -1, 64),
			r.Unit,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSONFile(outputFile string, data interface{}) error {
	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// FileName names a stored result file. Characters outside [A-Za-z0-9._-] in name are
// replaced so the result is always a plain file name.
func FileName(date time.Time, name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	return date.Format("2006-01-02") + "_" + clean + ".csv"
}
