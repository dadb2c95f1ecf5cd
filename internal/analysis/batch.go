package analysis

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/monitoring"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// SessionSource supplies one session's trial records on demand. The core does
// not care whether Load reads CSV, sqlite, or an in-memory fixture.
type SessionSource struct {
	ID   string
	Load func() ([]trials.TrialRecord, error)
}

// BatchReport is the merged outcome of validating many sessions. Summaries
// holds one entry per source in input order; a session that failed to load is
// present with its Err flag set, never dropped.
type BatchReport struct {
	RunID     string
	Summaries []SessionSummary
}

// RunBatch validates every source on a bounded worker pool. Sessions are
// independent, so workers share nothing; each result is written to its own
// index, which preserves input order without any post-sort. workers is
// clamped to [1, len(sources)].
func (b Builder) RunBatch(sources []SessionSource, workers int) BatchReport {
	summaries := make([]SessionSummary, len(sources))

	if workers < 1 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				records, err := src.Load()
				if err != nil {
					monitoring.Emit(monitoring.Event{
						Session: src.ID, Check: "schema",
						Status: "invalid", Index: -1, Detail: err.Error(),
					})
					summaries[i] = SchemaFailure(src.ID, err)
					continue
				}
				summaries[i] = b.Build(src.ID, records)
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return BatchReport{RunID: uuid.NewString(), Summaries: summaries}
}
