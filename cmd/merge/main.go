package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tiancaiamao/jmh-daily-bench"
)

var output string

func init() {
	flag.StringVar(&output, "out", "jmh-result.csv", "merged result csv")
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println(`Usage:
    merge -out jmh-result.csv a.csv b.csv ...`)
		os.Exit(-1)
	}

	var merged []jmhbench.BenchmarkRow
	for _, path := range flag.Args() {
		rows, err := jmhbench.LoadCSV(path)
		if err != nil {
			log.Fatal(err)
		}
		merged = mergeRows(merged, rows, path)
	}

	if err := jmhbench.WriteCSV(output, merged); err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{"out": output, "rows": len(merged)}).Info("results merged")
}

// mergeRows appends the rows of from that to does not have yet, keeping file order.
func mergeRows(to, from []jmhbench.BenchmarkRow, source string) []jmhbench.BenchmarkRow {
	seen := make(map[string]struct{}, len(to))
	for _, v := range to {
		seen[v.Name] = struct{}{}
	}
	for _, res := range from {
		if _, exist := seen[res.Name]; exist {
			log.Infof("skip duplicated benchmark %s in %s", res.Name, source)
			continue
		}
		seen[res.Name] = struct{}{}
		to = append(to, res)
	}
	return to
}
