package main

import (
	"bytes"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	log "github.com/sirupsen/logrus"
	"github.com/tiancaiamao/jmh-daily-bench"
)

const maxUploadSize = 8 << 20

var (
	dataDir    string
	listenAddr string
	configFile string
)

func init() {
	flag.StringVar(&dataDir, "data", "data", "directory of JMH result csv files")
	flag.StringVar(&listenAddr, "addr", ":18081", "listen address")
	flag.StringVar(&configFile, "config", "", "yaml chart config")
}

type server struct {
	dir string
	cfg jmhbench.Config
	now func() time.Time

	// update serializes data changes with the page rebuild that follows them,
	// so the published page always reflects every accepted upload.
	update sync.Mutex

	mu       sync.RWMutex
	data     []jmhbench.Report
	mainPage []byte
}

func newServer(dir string, cfg jmhbench.Config) (*server, error) {
	data, err := jmhbench.LoadDataDir(dir)
	if err != nil {
		return nil, err
	}
	s := &server{dir: dir, cfg: cfg, now: time.Now}
	s.data = data
	if err := s.reGeneratePage(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.mainHandle)
	mux.HandleFunc("/upload", s.uploadHandle)
	return mux
}

func (s *server) mainHandle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.mainPage)
}

// uploadHandle stores a POSTed JMH result csv as data/<date>_<name>.csv.
func (s *server) uploadHandle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method should be POST", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	rows, err := jmhbench.ReadCSV(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outfile := jmhbench.FileName(s.now(), name)
	err = jmhbench.WriteCSV(filepath.Join(s.dir, outfile), rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.WithFields(log.Fields{"file": outfile, "rows": len(rows)}).Info("result uploaded")

	if err := s.addReport(jmhbench.Report{Source: strings.TrimSuffix(outfile, ".csv"), Rows: rows}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *server) addReport(rep jmhbench.Report) error {
	s.update.Lock()
	defer s.update.Unlock()

	s.mu.Lock()
	s.data = replaceReport(s.data, rep)
	s.mu.Unlock()
	return s.reGeneratePage()
}

// replaceReport overwrites the report of the same source, a second upload on the
// same day replaces the file too.
func replaceReport(reports []jmhbench.Report, rep jmhbench.Report) []jmhbench.Report {
	for i := range reports {
		if reports[i].Source == rep.Source {
			reports[i] = rep
			return reports
		}
	}
	return append(reports, rep)
}

func makeMainPage(reports []jmhbench.Report, cfg jmhbench.Config) (*components.Page, error) {
	charts := make([]*jmhbench.Chart, 0, len(reports))
	for _, rep := range reports {
		c, err := jmhbench.BuildChart(rep.Rows, cfg)
		if err != nil {
			return nil, err
		}
		c.Title = rep.Source
		charts = append(charts, c)
	}
	return jmhbench.NewPage(cfg.Title, charts...), nil
}

func (s *server) reGeneratePage() error {
	s.mu.RLock()
	page, err := makeMainPage(s.data, s.cfg)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainPage = buf.Bytes()
	return nil
}

func main() {
	flag.Parse()

	cfg := jmhbench.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = jmhbench.LoadConfig(configFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	s, err := newServer(dataDir, cfg)
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", s.routes())
	log.WithField("addr", listenAddr).Info("listening")
	log.Fatal(http.ListenAndServe(listenAddr, nil))
}
