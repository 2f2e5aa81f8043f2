// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-authors/internal/cache"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <opensearch:totalResults>2</opensearch:totalResults>
  <!-- served %d -->
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>First Paper</title>
    <published>2023-01-01T00:00:00Z</published>
    <author><name>%[2]s</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v2</id>
    <title>Second Paper</title>
    <published>1999-01-01T00:00:00Z</published>
    <author><name>Someone Else</name></author>
    <author><name>%[2]s</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Duplicate</title>
    <author><name>%[2]s</name></author>
  </entry>
</feed>`

// fakeArxiv serves author listings and abstract pages and counts requests.
type fakeArxiv struct {
	mu        sync.Mutex
	apiCalls  map[string]int
	absCalls  map[string]int
	failQuery string
	failAbs   string
	referers  []string
}

func newFakeArxiv() *fakeArxiv {
	return &fakeArxiv{apiCalls: map[string]int{}, absCalls: map[string]int{}}
}

func (f *fakeArxiv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/query":
		q := r.URL.Query().Get("search_query")
		f.apiCalls[q]++
		if f.failQuery != "" && strings.Contains(q, f.failQuery) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		name := strings.Trim(strings.TrimPrefix(q, "au:"), `"`)
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprintf(w, feedTemplate, f.apiCalls[q], name)
	case strings.HasPrefix(r.URL.Path, "/abs/"):
		id := strings.TrimPrefix(r.URL.Path, "/abs/")
		f.absCalls[id]++
		f.referers = append(f.referers, r.Header.Get("Referer"))
		if id == f.failAbs {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "<html><body>abstract %s</body></html>", id)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeArxiv) api(q string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apiCalls[q]
}

func (f *fakeArxiv) totalAPI() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.apiCalls {
		n += c
	}
	return n
}

func (f *fakeArxiv) totalAbs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.absCalls {
		n += c
	}
	return n
}

func testCfg(t *testing.T, tsURL string) types.HarvestConfig {
	t.Helper()
	root := t.TempDir()
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		ArxivConfig: types.ArxivConfig{
			APIURL:     tsURL + "/api/query",
			AbsURL:     tsURL + "/abs/",
			MaxResults: 50,
		},
		Root:        root,
		AuthorsFile: filepath.Join(root, "authors.csv"),
	}
}

func newRunner(cfg types.HarvestConfig, store cache.Store) *Runner {
	return &Runner{
		Harvester: New(store, nil, cfg, zerolog.Nop()),
		Cfg:       cfg,
		Log:       zerolog.Nop(),
	}
}

func writeAuthors(t *testing.T, cfg types.HarvestConfig, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.AuthorsFile, []byte(content), 0o644))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

const janeQuery = `au:"Jane Smith"`

func TestBatch_FreshCacheHitAndForcedRefresh(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "last-name,first-name\nSmith,Jane\n")
	r := newRunner(cfg, cache.NewFSStore(cfg.Root))
	ctx := context.Background()

	apiDir := filepath.Join(cfg.Root, "AUTHORS", "Smith-Jane", "API")
	htmlDir := filepath.Join(cfg.Root, "AUTHORS", "Smith-Jane", "HTML")
	apiFile := filepath.Join(apiDir, APIFileName)

	// Fresh run.
	res, err := r.RunBatch(ctx, types.CachedFirst)
	require.NoError(t, err)
	assert.False(t, res.HasFailures())
	assert.Equal(t, 1, res.APIFetched)
	assert.Equal(t, 1, fake.api(janeQuery))
	assert.Equal(t, []string{APIFileName}, listDir(t, apiDir))
	assert.ElementsMatch(t, []string{"2301.00001v1.html", "hep-th_9901001v2.html"}, listDir(t, htmlDir))
	assert.Equal(t, 2, fake.totalAbs())

	first, err := os.ReadFile(apiFile)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	// Cache hit: no network at all.
	res, err = r.RunBatch(ctx, types.CachedFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, res.APICached)
	assert.Equal(t, 0, res.APIFetched)
	assert.Equal(t, 1, fake.api(janeQuery))
	assert.Equal(t, 2, fake.totalAbs())
	second, err := os.ReadFile(apiFile)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Forced refresh: exactly one more API call, file overwritten.
	res, err = r.RunBatch(ctx, types.ForceRefresh)
	require.NoError(t, err)
	assert.Equal(t, 1, res.APIFetched)
	assert.Equal(t, 2, fake.api(janeQuery))
	assert.Equal(t, 2, fake.totalAbs(), "cached abstracts are not refetched")
	third, err := os.ReadFile(apiFile)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Contains(t, string(third), "served 2")
}

func TestBatch_EmptyCacheFileIsRefetched(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "Smith,Jane\n")
	apiDir := filepath.Join(cfg.Root, "AUTHORS", "Smith-Jane", "API")
	require.NoError(t, os.MkdirAll(apiDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(apiDir, APIFileName), nil, 0o644))

	_, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.api(janeQuery))
}

func TestBatch_MalformedNameList(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "last-name,first-name\nSmith,Jane\nDoe\n")

	_, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	var cfgErr *types.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, fake.totalAPI())
}

func TestBatch_MissingNameList(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	_, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	var cfgErr *types.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Zero(t, fake.totalAPI())
}

func TestBatch_EmptyNameList(t *testing.T) {
	cfg := testCfg(t, "http://unused.test")
	writeAuthors(t, cfg, "last-name,first-name\n")

	_, err := newRunner(cfg, cache.NewMemStore()).RunBatch(context.Background(), types.CachedFirst)
	var cfgErr *types.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestBatch_APIFailureDoesNotStopBatch(t *testing.T) {
	fake := newFakeArxiv()
	fake.failQuery = "Bad"
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "Author,Bad\nSmith,Jane\n")

	res, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	require.Len(t, res.Authors, 2)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, res.HasFailures())

	bad := res.Authors[0]
	assert.Equal(t, "api", bad.Step)
	var fe *types.FetchError
	require.True(t, errors.As(bad.Err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)

	// No cache file is left for the failed author.
	_, statErr := os.Stat(filepath.Join(cfg.Root, "AUTHORS", "Author-Bad", "API", APIFileName))
	assert.True(t, os.IsNotExist(statErr))

	assert.False(t, res.Authors[1].Failed())
	assert.Equal(t, 1, fake.api(janeQuery))
}

func TestBatch_StopOnFail(t *testing.T) {
	fake := newFakeArxiv()
	fake.failQuery = "Bad"
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	cfg.StopOnFail = true
	writeAuthors(t, cfg, "Author,Bad\nSmith,Jane\n")

	res, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Len(t, res.Authors, 1)
	assert.Zero(t, fake.api(janeQuery))
}

func TestBatch_MaxAuthors(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	cfg.MaxAuthors = 1
	writeAuthors(t, cfg, "Smith,Jane\nDoe,John\n")

	res, err := newRunner(cfg, cache.NewMemStore()).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total())
	assert.Equal(t, 1, fake.totalAPI())
}

func TestBatch_AbstractFailureContinues(t *testing.T) {
	fake := newFakeArxiv()
	fake.failAbs = "2301.00001v1"
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "Smith,Jane\n")

	res, err := newRunner(cfg, cache.NewFSStore(cfg.Root)).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	require.Len(t, res.Authors, 1)
	a := res.Authors[0]
	assert.False(t, a.Failed())
	assert.Equal(t, 1, a.Abstracts.Failed)
	assert.Equal(t, 1, a.Abstracts.Fetched)
	assert.Equal(t, 1, res.AbsFailed)
	assert.True(t, res.HasFailures())

	htmlDir := filepath.Join(cfg.Root, "AUTHORS", "Smith-Jane", "HTML")
	assert.Equal(t, []string{"hep-th_9901001v2.html"}, listDir(t, htmlDir))
}

func TestRunSingle_AppendsAndFetches(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "last-name,first-name\nSmith,Jane\n")
	r := newRunner(cfg, cache.NewFSStore(cfg.Root))

	res, err := r.RunSingle(context.Background(), types.NewAuthorRecord("Doe", "John"))
	require.NoError(t, err)
	assert.Equal(t, types.ForceRefresh.String(), res.Mode)
	assert.False(t, res.HasFailures())

	data, err := os.ReadFile(cfg.AuthorsFile)
	require.NoError(t, err)
	assert.Equal(t, "last-name,first-name\nSmith,Jane\nDoe,John\n", string(data))

	assert.NotEmpty(t, listDir(t, filepath.Join(cfg.Root, "AUTHORS", "Doe-John", "API")))
	assert.Len(t, listDir(t, filepath.Join(cfg.Root, "AUTHORS", "Doe-John", "HTML")), 2)

	// A second ad hoc run fetches live again but does not duplicate the entry.
	_, err = r.RunSingle(context.Background(), types.NewAuthorRecord("Doe", "John"))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.api(`au:"John Doe"`))
	data, err = os.ReadFile(cfg.AuthorsFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Doe,John"))
}

func TestRunSingle_CreatesNameList(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	_, err := newRunner(cfg, cache.NewMemStore()).RunSingle(context.Background(), types.NewAuthorRecord("Doe", "John"))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.AuthorsFile)
	require.NoError(t, err)
	assert.Equal(t, "last-name,first-name\nDoe,John\n", string(data))
}

func TestRunSingle_RejectsEmptyName(t *testing.T) {
	cfg := testCfg(t, "http://unused.test")
	_, err := newRunner(cfg, cache.NewMemStore()).RunSingle(context.Background(), types.NewAuthorRecord("Doe", " "))
	var cfgErr *types.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFetchAPI_CachePolicy(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	store := cache.NewMemStore()
	h := New(store, ts.Client(), cfg, zerolog.Nop())
	rec := types.NewAuthorRecord("Smith", "Jane")
	ctx := context.Background()

	body, fetched, err := h.FetchAPI(ctx, rec, types.CachedFirst)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.NotEmpty(t, body)

	cached, fetched, err := h.FetchAPI(ctx, rec, types.CachedFirst)
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, body, cached)
	assert.Equal(t, 1, fake.api(janeQuery))

	_, fetched, err = h.FetchAPI(ctx, rec, types.ForceRefresh)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, 2, fake.api(janeQuery))
}

func TestFetchAPI_FailureKeepsPriorCache(t *testing.T) {
	fake := newFakeArxiv()
	fake.failQuery = "Jane"
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	store := cache.NewMemStore()
	rec := types.NewAuthorRecord("Smith", "Jane")
	key := cache.Key{Author: rec, Kind: cache.KindAPI, Name: APIFileName}
	require.NoError(t, store.Put(key, []byte("<feed/>")))

	h := New(store, ts.Client(), cfg, zerolog.Nop())
	_, _, err := h.FetchAPI(context.Background(), rec, types.ForceRefresh)
	var fe *types.FetchError
	require.True(t, errors.As(err, &fe))

	got, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "<feed/>", string(got))
}

func TestProcessAuthor_FilesystemErrorStopsAuthor(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "Smith,Jane\nDoe,John\n")
	store := cache.NewMemStore()
	store.PutErr = &types.FilesystemError{Op: "write", Path: "x", Err: errors.New("disk full")}

	res, err := newRunner(cfg, store).RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	require.Len(t, res.Authors, 2)
	for _, a := range res.Authors {
		var fsErr *types.FilesystemError
		assert.True(t, errors.As(a.Err, &fsErr))
	}
	assert.Zero(t, fake.totalAbs())
}

func TestFetchAbstracts_MatchAuthors(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	cfg.MatchAuthors = true
	h := New(cache.NewMemStore(), ts.Client(), cfg, zerolog.Nop())

	feed := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry><id>http://arxiv.org/abs/1111.1111v1</id><author><name>J. Smith</name></author></entry>
  <entry><id>http://arxiv.org/abs/2222.2222v1</id><author><name>Bob Jones</name></author></entry>
</feed>`
	res, err := h.FetchAbstracts(context.Background(), []byte(feed), types.NewAuthorRecord("Smith", "Jane"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, []string{"Smith-Jane/HTML/1111.1111v1.html"}, res.Files)
}

func TestFetchAbstracts_SendsReferer(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	h := New(cache.NewMemStore(), ts.Client(), cfg, zerolog.Nop())
	feed := `<feed xmlns="http://www.w3.org/2005/Atom"><entry><id>http://arxiv.org/abs/1111.1111v1</id></entry></feed>`

	_, err := h.FetchAbstracts(context.Background(), []byte(feed), types.NewAuthorRecord("Smith", "Jane"))
	require.NoError(t, err)
	require.Len(t, fake.referers, 1)
	assert.Contains(t, fake.referers[0], "/api/query?")
}

func TestFetchAbstracts_InvalidListing(t *testing.T) {
	h := New(cache.NewMemStore(), nil, testCfg(t, "http://unused.test"), zerolog.Nop())
	_, err := h.FetchAbstracts(context.Background(), []byte("not xml <"), types.NewAuthorRecord("Smith", "Jane"))
	assert.Error(t, err)
}

type recorder struct {
	runs []BatchResult
}

func (r *recorder) RecordRun(_ context.Context, b BatchResult) error {
	r.runs = append(r.runs, b)
	return nil
}

func TestRunner_RecordsRun(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	writeAuthors(t, cfg, "Smith,Jane\n")
	rec := &recorder{}
	r := newRunner(cfg, cache.NewMemStore())
	r.Recorder = rec

	res, err := r.RunBatch(context.Background(), types.CachedFirst)
	require.NoError(t, err)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, res.RunID, rec.runs[0].RunID)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.Finished.Before(res.Started))
}

func TestReport_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	in := BatchResult{
		RunID:      "abc",
		Mode:       types.CachedFirst.String(),
		APIFetched: 1,
		Failed:     1,
		Authors: []AuthorResult{
			{Author: types.NewAuthorRecord("Smith", "Jane"), APIFetched: true},
			{Author: types.NewAuthorRecord("Doe", "John"), Step: "api", Error: "fetch x: HTTP 503"},
		},
	}
	require.NoError(t, WriteReport(path, in))

	out, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.RunID)
	require.Len(t, out.Authors, 2)
	assert.Equal(t, "Doe", out.Authors[1].Author.LastName)
	assert.Equal(t, "fetch x: HTTP 503", out.Authors[1].Error)
}

func TestPrintSummary(t *testing.T) {
	var sb strings.Builder
	PrintSummary(&sb, BatchResult{
		APIFetched: 1,
		Failed:     1,
		Authors: []AuthorResult{
			{Author: types.NewAuthorRecord("Smith", "Jane")},
			{Author: types.NewAuthorRecord("Doe", "John"), Step: "api", Err: errors.New("boom")},
		},
	})
	out := sb.String()
	assert.Contains(t, out, "2 authors, 1 fetched, 0 cached, 1 failed")
	assert.Contains(t, out, "failed:  Doe, John (api: boom)")
}

func TestReport_ReloadedFailuresStillFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	r := BatchResult{Authors: []AuthorResult{{Author: types.NewAuthorRecord("Smith", "Jane")}}}
	failed := AuthorResult{Author: types.NewAuthorRecord("Doe", "John")}
	r.add(failed.fail(zerolog.Nop(), "api", errors.New("fetch x: HTTP 503")))
	require.NoError(t, WriteReport(path, r))

	out, err := ReadReport(path)
	require.NoError(t, err)
	assert.False(t, out.Authors[0].Failed())
	assert.True(t, out.Authors[1].Failed())
	assert.Nil(t, out.Authors[1].Err)

	var sb strings.Builder
	PrintSummary(&sb, *out)
	assert.Contains(t, sb.String(), "failed:  Doe, John (api: fetch x: HTTP 503)")
}

func TestFetchAbstracts_ReportsListedTotal(t *testing.T) {
	fake := newFakeArxiv()
	ts := httptest.NewServer(fake)
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	body := []byte(fmt.Sprintf(feedTemplate, 1, "Jane Smith"))
	res, err := New(cache.NewMemStore(), nil, cfg, zerolog.Nop()).FetchAbstracts(context.Background(), body, types.NewAuthorRecord("Smith", "Jane"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Listed)
	assert.Equal(t, 2, res.Found)
}

func TestProcessAuthor_WarnsOnTruncatedListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/abs/") {
			fmt.Fprint(w, "<html></html>")
			return
		}
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
<opensearch:totalResults>120</opensearch:totalResults>
<entry><id>http://arxiv.org/abs/2301.00001v1</id><title>Only</title></entry>
</feed>`)
	}))
	defer ts.Close()

	cfg := testCfg(t, ts.URL)
	var buf bytes.Buffer
	h := New(cache.NewFSStore(cfg.Root), nil, cfg, zerolog.New(&buf))

	res := h.ProcessAuthor(context.Background(), types.NewAuthorRecord("Smith", "Jane"), types.ForceRefresh)
	require.False(t, res.Failed())
	assert.Equal(t, 120, res.Abstracts.Listed)
	assert.Contains(t, buf.String(), "listing truncated")
	assert.Contains(t, buf.String(), `"html_files":1`)
}
