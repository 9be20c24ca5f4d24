package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tiancaiamao/jmh-daily-bench"
)

var (
	limit   int
	runCmd  string
	result  string
	dataDir string
)

func init() {
	flag.IntVar(&limit, "n", 1000, "number of commits to look back")
	flag.StringVar(&runCmd, "cmd", "", "shell command running the benchmarks")
	flag.StringVar(&result, "result", "jmh-result.csv", "result csv written by the command")
	flag.StringVar(&dataDir, "data", "data", "directory collecting one result file per day")
}

type commit struct {
	date time.Time
	hash string
}

// parseLog reads `git log --date=short --pretty=format:%cd_%h` output and keeps the
// first, that is the latest, commit of every day.
func parseLog(out string) ([]commit, error) {
	var res []commit
	var lastDate string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		tmp := strings.SplitN(line, "_", 2)
		if len(tmp) != 2 {
			return nil, fmt.Errorf("unexpected git log line %q", line)
		}
		date, githash := tmp[0], tmp[1]
		if date == lastDate {
			continue
		}
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, err
		}
		res = append(res, commit{date: t, hash: githash})
		lastDate = date
	}
	return res, nil
}

func main() {
	flag.Parse()
	if runCmd == "" {
		fmt.Println(`Usage:
    history -cmd "mvn -q verify" -result bverify_benchmark/jmh-result.csv -data data`)
		os.Exit(-1)
	}

	if err := run(""); err != nil {
		log.Fatal(err)
	}
}

func git(repo string, args ...string) (string, error) {
	c := exec.Command("git", args...)
	c.Dir = repo
	var out, stderr bytes.Buffer
	c.Stdout = &out
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// currentRef names what repo has checked out: the branch, or the commit when the
// head is detached.
func currentRef(repo string) (string, error) {
	ref, err := git(repo, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if ref == "HEAD" {
		return git(repo, "rev-parse", "HEAD")
	}
	return ref, nil
}

// run measures the latest commit of every day in repo, then checks out again what
// was checked out before, whether the walk finished or stopped early.
func run(repo string) (err error) {
	out, err := git(repo, "log", fmt.Sprintf("-n%d", limit), "--date=short", "--pretty=format:%cd_%h")
	if err != nil {
		return err
	}
	commits, err := parseLog(out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	ref, err := currentRef(repo)
	if err != nil {
		return err
	}
	defer func() {
		if _, rerr := git(repo, "checkout", ref); rerr != nil {
			log.WithError(rerr).WithField("ref", ref).Error("restore checkout")
			if err == nil {
				err = rerr
			}
		}
	}()

	for _, cm := range commits {
		outfile := filepath.Join(dataDir, jmhbench.FileName(cm.date, cm.hash))
		if _, err := os.Stat(outfile); err == nil {
			log.WithField("file", outfile).Debug("already measured")
			continue
		}

		if _, err := git(repo, "checkout", cm.hash); err != nil {
			log.WithError(err).WithField("commit", cm.hash).Error("checkout")
			break
		}

		if err := runCommand(repo, cm); err != nil {
			log.WithError(err).WithField("commit", cm.hash).Error("run command error")
			break
		}

		rows, err := jmhbench.LoadCSV(result)
		if err != nil {
			log.WithError(err).WithField("commit", cm.hash).Error("load results")
			break
		}
		if err := jmhbench.WriteCSV(outfile, rows); err != nil {
			return err
		}
		log.WithFields(log.Fields{"file": outfile, "rows": len(rows)}).Info("day measured")
	}
	return nil
}

func runCommand(repo string, cm commit) error {
	cmd := exec.Command("sh", "-c", runCmd)
	cmd.Dir = repo
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	log.WithField("commit", cm.hash).Info("running ", runCmd)
	return cmd.Run()
}
