package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tiancaiamao/jmh-daily-bench"
)

var (
	input    string
	scores   string
	testName string
	runCmd   string
)

func usage() {
	fmt.Println(`Usage:
    bisect -input jmh-result.csv -bench ProofGeneration.bench -score good,bad
    Or: bisect -cmd "mvn -q verify" -input target/jmh-result.csv -bench ProofGeneration.bench -score good,bad`)
	os.Exit(-1)
}

func init() {
	flag.StringVar(&input, "input", "jmh-result.csv", "JMH result csv to judge")
	flag.StringVar(&scores, "score", "", "specify the score range")
	flag.StringVar(&testName, "bench", "", "specify the benchmark name, or a suffix of it")
	flag.StringVar(&runCmd, "cmd", "", "shell command producing the result csv")
}

func main() {
	flag.Parse()

	if testName == "" {
		usage()
	}
	from, to, err := parseNumberPair(scores)
	if err != nil {
		fmt.Println(err)
		usage()
	}
	if from == to {
		fmt.Println("score good == bad", from, to)
		usage()
	}

	if runCmd != "" {
		cmd := exec.Command("sh", "-c", runCmd)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			// 125 tells git bisect to skip a commit that cannot be measured.
			log.WithError(err).Error("benchmark command failed")
			os.Exit(125)
		}
	}

	rows, err := jmhbench.LoadCSV(input)
	if err != nil {
		log.WithError(err).Error("load results")
		os.Exit(125)
	}
	row, ok := findBenchmark(rows, testName)
	if !ok {
		log.WithField("bench", testName).Error("benchmark not found in results")
		os.Exit(125)
	}

	fmt.Println("Benchmark:", row.Name)
	fmt.Println("Score:", row.Score, row.Unit)
	fmt.Println("Score Error:", row.ScoreError)
	os.Exit(goodOrBad(row.Score, from, to))
}

func findBenchmark(rows []jmhbench.BenchmarkRow, name string) (jmhbench.BenchmarkRow, bool) {
	for _, r := range rows {
		if r.Name == name {
			return r, true
		}
	}
	for _, r := range rows {
		if strings.HasSuffix(r.Name, "."+name) {
			return r, true
		}
	}
	return jmhbench.BenchmarkRow{}, false
}

// parseNumberPair parses "good,bad".
func parseNumberPair(str string) (float64, float64, error) {
	tmp := strings.Split(str, ",")
	if len(tmp) != 2 {
		return 0, 0, fmt.Errorf("score range %q should be good,bad", str)
	}
	from, err := strconv.ParseFloat(strings.TrimSpace(tmp[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	to, err := strconv.ParseFloat(strings.TrimSpace(tmp[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// Return 1 if the current source is bad (val near to to)
// Return 0 for a good case (val near to from)
// from may be above to, for throughput modes where a higher score is better.
func goodOrBad(val, from, to float64) int {
	if from > to {
		return goodOrBad(-val, -from, -to)
	}
	if val > to {
		return 1
	}
	if val < from {
		return 0
	}

	if val > (from+to)/2 {
		return 1
	}
	return 0
}
