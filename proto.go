package jmhbench

// Column names of the JMH CSV result format.
const (
	ColBenchmark  = "Benchmark"
	ColMode       = "Mode"
	ColThreads    = "Threads"
	ColSamples    = "Samples"
	ColScore      = "Score"
	ColScoreError = "Score Error (99.9%)"
	ColUnit       = "Unit"
)

// BenchmarkRow is one line of a JMH result file.
type BenchmarkRow struct {
	Name       string
	Mode       string
	Threads    int
	Samples    int
	Score      float64
	ScoreError float64
	Unit       string
}

// Report is the content of one result file.
type Report struct {
	Source string
	Rows   []BenchmarkRow
}
