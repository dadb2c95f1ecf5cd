// Command task-vr-rdk-validate replays and validates recorded RDK task
// sessions and merges their summaries into one output table. It is a thin
// shim around the validation core: it resolves session files, runs the batch,
// and writes the results.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/analysis"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/config"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/monitoring"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/report"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/sessiondb"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/sessionio"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/version"
)

var (
	inputDir   = flag.String("input", "", "Directory scanned recursively for trial_results CSV exports (session files may also be passed as arguments)")
	output     = flag.String("output", "output.csv", "Path of the merged summary table")
	dbPath     = flag.String("db", "", "Optional sqlite archive for sessions and summaries")
	chartsDir  = flag.String("charts", "", "Optional directory for per-session staircase charts (HTML)")
	tuningPath = flag.String("config", "", "Optional staircase tuning JSON")
	window     = flag.Int("window", -1, "Median window override: 0 uses the full sequence, N uses the most recent N trials (-1 keeps the configured value)")
	workers    = flag.Int("workers", 4, "Sessions validated in parallel")
	verbose    = flag.Bool("v", false, "Log valid checks as well as failures")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	params, err := loadParams()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if !*verbose {
		// Keep the console quiet on healthy sessions; failures always log.
		monitoring.SetEventSink(func(ev monitoring.Event) {
			if ev.Status == "invalid" {
				monitoring.Logf("[%s] %s %s: %s", ev.Session, ev.Category, ev.Check, ev.Detail)
			}
		})
	}

	paths, err := sessionPaths()
	if err != nil {
		log.Fatalf("input: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("no session files: pass CSV paths as arguments or use -input")
	}

	// Loaded records are kept so the optional archive does not re-read files.
	var loadedMu sync.Mutex
	loaded := make(map[string][]trials.TrialRecord)

	sources := make([]analysis.SessionSource, len(paths))
	for i, path := range paths {
		path := path
		sources[i] = analysis.SessionSource{
			ID: path,
			Load: func() ([]trials.TrialRecord, error) {
				records, err := sessionio.LoadFile(path)
				if err != nil {
					return nil, err
				}
				loadedMu.Lock()
				loaded[path] = records
				loadedMu.Unlock()
				return records, nil
			},
		}
	}

	builder := analysis.NewBuilder(params)
	batch := builder.RunBatch(sources, *workers)

	rows := make([]*report.Row, len(batch.Summaries))
	for i, summary := range batch.Summaries {
		rows[i] = report.SummaryRow(summary)
	}
	table := report.BuildTable(rows)

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("output: %v", err)
	}
	if err := table.WriteCSV(out); err != nil {
		out.Close()
		log.Fatalf("output: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("output: %v", err)
	}
	log.Printf("run %s: %d sessions -> %s", batch.RunID, len(batch.Summaries), *output)

	if *dbPath != "" {
		if err := archive(batch, rows, loaded); err != nil {
			log.Fatalf("archive: %v", err)
		}
	}

	if *chartsDir != "" {
		if err := writeCharts(batch); err != nil {
			log.Fatalf("charts: %v", err)
		}
	}
}

func loadParams() (staircase.Params, error) {
	var tuning *config.Tuning
	if *tuningPath != "" {
		t, err := config.LoadTuning(*tuningPath)
		if err != nil {
			return staircase.Params{}, err
		}
		tuning = t
	}
	params := tuning.Params()
	if *window >= 0 {
		params.MedianWindow = *window
	}
	return params, nil
}

// sessionPaths merges explicit arguments with an -input directory scan.
func sessionPaths() ([]string, error) {
	paths := append([]string{}, flag.Args()...)
	if *inputDir == "" {
		return paths, nil
	}
	err := filepath.WalkDir(*inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", *inputDir, err)
	}
	return paths, nil
}

func archive(batch analysis.BatchReport, rows []*report.Row, loaded map[string][]trials.TrialRecord) error {
	db, err := sessiondb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		return err
	}

	for _, summary := range batch.Summaries {
		records, ok := loaded[summary.SessionID]
		if !ok {
			continue // failed to load; nothing to archive
		}
		if err := db.SaveSession(summary.SessionID, records); err != nil {
			return err
		}
	}
	for i, row := range rows {
		if err := db.SaveSummaryRow(batch.RunID, i, row); err != nil {
			return err
		}
	}
	log.Printf("archived run %s to %s", batch.RunID, *dbPath)
	return nil
}

func writeCharts(batch analysis.BatchReport) error {
	if err := os.MkdirAll(*chartsDir, 0o755); err != nil {
		return err
	}
	for _, summary := range batch.Summaries {
		if summary.Err != "" {
			continue
		}
		path := filepath.Join(*chartsDir, sanitizeID(summary.SessionID)+".html")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.StaircaseChart(f, summary); err != nil {
			f.Close()
			os.Remove(path)
			monitoring.Logf("skipping chart for %s: %v", summary.SessionID, err)
			continue
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeID turns a session path into a usable filename stem.
func sanitizeID(id string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_", ".", "_")
	return replacer.Replace(id)
}
