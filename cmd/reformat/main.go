// Command reformat normalizes raw JSON trial dumps from the task into the
// CSV column layout the analysis pipeline reads. It scans a directory for
// .json files and writes a .csv next to each.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/sessionio"
)

var dir = flag.String("dir", ".", "Directory scanned for raw .json trial dumps")

func main() {
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *dir, err)
	}

	var jsonFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			jsonFiles = append(jsonFiles, filepath.Join(*dir, e.Name()))
		}
	}
	log.Printf("found %d JSON files", len(jsonFiles))

	start := time.Now()
	done := 0
	for _, path := range jsonFiles {
		if err := reformatFile(path); err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		done++
	}
	log.Printf("reformatted %d of %d JSON files in %s", done, len(jsonFiles), time.Since(start).Round(time.Millisecond))
}

func reformatFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}

	records, err := sessionio.Reformat(data)
	if err != nil {
		return err
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	log.Printf("%s -> %s (%d trials)", path, outPath, len(records)-1)
	return nil
}
