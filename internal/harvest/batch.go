// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-authors/internal/authors"
	"github.com/pdiddy/arxiv-authors/internal/logging"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

// AuthorResult is the outcome for one author.
type AuthorResult struct {
	Author     types.AuthorRecord `yaml:"author"`
	APIFetched bool               `yaml:"api_fetched"`
	Abstracts  AbstractsResult    `yaml:"abstracts"`
	Step       string             `yaml:"failed_step,omitempty"`
	Error      string             `yaml:"error,omitempty"`
	Err        error              `yaml:"-"`
}

// Failed reports whether the author's pipeline stopped early. It holds for
// results loaded from a report, where only Step and Error survive.
func (r AuthorResult) Failed() bool {
	return r.Step != "" || r.Error != "" || r.Err != nil
}

func (r AuthorResult) errText() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return "unknown error"
}

func (r AuthorResult) fail(log zerolog.Logger, step string, err error) AuthorResult {
	r.Step = step
	r.Err = err
	r.Error = err.Error()
	log.Error().Err(err).Str("step", step).Msg("author failed")
	return r
}

// BatchResult holds the outcome of one run.
type BatchResult struct {
	RunID      string         `yaml:"run_id"`
	Mode       string         `yaml:"mode"`
	Started    time.Time      `yaml:"started"`
	Finished   time.Time      `yaml:"finished"`
	APIFetched int            `yaml:"api_fetched"`
	APICached  int            `yaml:"api_cached"`
	Failed     int            `yaml:"failed"`
	Abstracts  int            `yaml:"abstracts_fetched"`
	AbsFailed  int            `yaml:"abstracts_failed"`
	Stopped    bool           `yaml:"stopped,omitempty"`
	Authors    []AuthorResult `yaml:"authors"`
}

// Total returns the number of authors processed.
func (r BatchResult) Total() int {
	return len(r.Authors)
}

// HasFailures reports whether any author or abstract page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.AbsFailed > 0
}

func (r *BatchResult) add(a AuthorResult) {
	r.Authors = append(r.Authors, a)
	if a.Failed() {
		r.Failed++
	}
	if !a.Failed() || a.Step == "html" {
		if a.APIFetched {
			r.APIFetched++
		} else {
			r.APICached++
		}
	}
	r.Abstracts += a.Abstracts.Fetched
	r.AbsFailed += a.Abstracts.Failed
}

// RunRecorder persists a finished run.
type RunRecorder interface {
	RecordRun(ctx context.Context, r BatchResult) error
}

// Runner drives batch and single-author runs.
type Runner struct {
	Harvester *Harvester
	Cfg       types.HarvestConfig
	Log       zerolog.Logger
	// Recorder, when set, receives every finished run.
	Recorder RunRecorder
}

// RunBatch reads the name list and processes every author in mode. A
// missing, malformed, or empty name list is a *types.ConfigurationError and
// nothing is fetched. Per-author failures are recorded in the result and do
// not stop the batch unless StopOnFail is set.
func (r *Runner) RunBatch(ctx context.Context, mode types.Mode) (BatchResult, error) {
	records, err := authors.Read(r.Cfg.AuthorsFile)
	if err != nil {
		return BatchResult{}, err
	}
	if len(records) == 0 {
		return BatchResult{}, &types.ConfigurationError{Path: r.Cfg.AuthorsFile, Reason: "no authors listed"}
	}
	if r.Cfg.MaxAuthors > 0 && len(records) > r.Cfg.MaxAuthors {
		records = records[:r.Cfg.MaxAuthors]
	}
	return r.process(ctx, records, mode), nil
}

// RunSingle adds rec to the name list if it is not already present and then
// fetches it with ForceRefresh. The name-list file need not exist.
func (r *Runner) RunSingle(ctx context.Context, rec types.AuthorRecord) (BatchResult, error) {
	if !rec.Valid() {
		return BatchResult{}, &types.ConfigurationError{Reason: "last and first name are required"}
	}
	added, err := authors.EnsureListed(r.Cfg.AuthorsFile, rec)
	if err != nil {
		return BatchResult{}, err
	}
	if added {
		r.Log.Info().Str("author", rec.String()).Str("file", r.Cfg.AuthorsFile).Msg("added to name list")
	}
	return r.process(ctx, []types.AuthorRecord{rec}, types.ForceRefresh), nil
}

func (r *Runner) process(ctx context.Context, records []types.AuthorRecord, mode types.Mode) BatchResult {
	result := BatchResult{
		RunID:   uuid.NewString(),
		Mode:    mode.String(),
		Started: time.Now().UTC(),
	}
	log := logging.WithRun(r.Log, result.RunID, mode)
	h := *r.Harvester
	h.log = log

	log.Info().Int("authors", len(records)).Msg("run started")
	for i, rec := range records {
		if ctx.Err() != nil {
			result.Stopped = true
			break
		}
		log.Info().Str("author", rec.String()).Msgf("[%d/%d] starting", i+1, len(records))
		res := h.ProcessAuthor(ctx, rec, mode)
		result.add(res)
		if res.Failed() && r.Cfg.StopOnFail {
			result.Stopped = true
			log.Warn().Msg("stopping after failure")
			break
		}
	}
	result.Finished = time.Now().UTC()

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(ctx, result); err != nil {
			log.Warn().Err(err).Msg("recording run failed")
		}
	}
	return result
}

// PrintSummary writes a one-line run summary followed by failed authors.
func PrintSummary(w io.Writer, r BatchResult) {
	fmt.Fprintf(w, "Run summary: %d authors, %d fetched, %d cached, %d failed; %d abstracts fetched, %d abstract failures\n",
		r.Total(), r.APIFetched, r.APICached, r.Failed, r.Abstracts, r.AbsFailed)
	for _, a := range r.Authors {
		if a.Failed() {
			fmt.Fprintf(w, "failed:  %s (%s: %s)\n", a.Author, a.Step, a.errText())
		}
	}
}
