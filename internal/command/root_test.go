package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/storage"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// run executes args against a fresh root command using dir as config dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return executeCommand(NewRootCmd("test"), append([]string{"--config-dir", dir}, args...)...)
}

// seedDir returns a config dir whose data file holds lines below the header.
func seedDir(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	data := strings.Join(append([]string{strings.Join(model.Header, ",")}, lines...), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "bookmarks.csv"), []byte(data), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return dir
}

func defaultSeed(t *testing.T) string {
	return seedDir(t,
		`https://go.dev,Go,The Go site,"go, docs",2025-01-02T03:04:05Z,false,`,
		`https://github.com,GitHub,,code,2025-01-03T03:04:05Z,true,`,
	)
}

func decodeRecords(t *testing.T, output string) []model.Record {
	t.Helper()
	var records []model.Record
	if err := json.Unmarshal([]byte(output), &records); err != nil {
		t.Fatalf("decode %q: %v", output, err)
	}
	return records
}

func TestRootCommandVersion(t *testing.T) {
	output, err := executeCommand(NewRootCmd("test"), "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(output, "pagemark version test") {
		t.Fatalf("unexpected version output: %q", output)
	}
}

func TestListCommand(t *testing.T) {
	dir := defaultSeed(t)

	output, err := run(t, dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Go", "GitHub", "#go #docs", "★ GitHub", "The Go site"} {
		if !strings.Contains(output, want) {
			t.Errorf("list output missing %q:\n%s", want, output)
		}
	}

	output, err = run(t, dir, "list", "--tag", "docs")
	if err != nil {
		t.Fatalf("list --tag: %v", err)
	}
	if !strings.Contains(output, "https://go.dev") || strings.Contains(output, "https://github.com") {
		t.Errorf("tag filter output:\n%s", output)
	}

	output, err = run(t, dir, "--json", "list", "--favorites")
	if err != nil {
		t.Fatalf("list --favorites: %v", err)
	}
	records := decodeRecords(t, output)
	if len(records) != 1 || records[0].URL != "https://github.com" {
		t.Errorf("favorites = %+v", records)
	}

	output, err = run(t, dir, "list", "--search", "nothing-like-this")
	if err != nil {
		t.Fatalf("list --search: %v", err)
	}
	if !strings.Contains(output, "No bookmarks found") {
		t.Errorf("expected empty result message, got:\n%s", output)
	}
}

func TestFavAndRmCommands(t *testing.T) {
	dir := defaultSeed(t)

	output, err := run(t, dir, "fav", "https://go.dev")
	if err != nil {
		t.Fatalf("fav: %v", err)
	}
	if !strings.Contains(output, "Favorited https://go.dev") {
		t.Errorf("fav output: %q", output)
	}

	output, err = run(t, dir, "--json", "list", "--favorites")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := len(decodeRecords(t, output)); got != 2 {
		t.Errorf("favorites after fav = %d, want 2", got)
	}

	if _, err := run(t, dir, "rm", "https://go.dev"); err != nil {
		t.Fatalf("rm: %v", err)
	}

	output, err = run(t, dir, "rm", "https://go.dev")
	if !errors.Is(err, storage.ErrRecordNotFound) {
		t.Fatalf("second rm error = %v, want ErrRecordNotFound", err)
	}
	if !strings.Contains(output, "Hint:") {
		t.Errorf("expected hint in output: %q", output)
	}

	output, err = run(t, dir, "--json", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := len(decodeRecords(t, output)); got != 1 {
		t.Errorf("records after rm = %d, want 1", got)
	}
}

func TestExportImportCommands(t *testing.T) {
	src := defaultSeed(t)
	out := filepath.Join(t.TempDir(), "bookmarks.json")

	if _, err := run(t, src, "export", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("export file: %v", err)
	}

	dst := t.TempDir()
	output, err := run(t, dst, "import", out)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(output, "Imported 2 bookmarks") {
		t.Errorf("import output: %q", output)
	}

	output, err = run(t, dst, "--json", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := len(decodeRecords(t, output)); got != 2 {
		t.Errorf("records after import = %d, want 2", got)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := run(t, t.TempDir(), "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestOpenCommandSingleMatch(t *testing.T) {
	dir := defaultSeed(t)

	var opened string
	orig := openURL
	openURL = func(u string) error { opened = u; return nil }
	t.Cleanup(func() { openURL = orig })

	output, err := run(t, dir, "open", "github")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "https://github.com" {
		t.Errorf("opened = %q", opened)
	}
	if !strings.Contains(output, "Opening: GitHub") {
		t.Errorf("open output: %q", output)
	}

	opened = ""
	output, err = run(t, dir, "open", "zzzz")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "" || !strings.Contains(output, "No bookmarks found") {
		t.Errorf("no-match open: opened=%q output=%q", opened, output)
	}
}

func TestCheckCommand(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer healthy.Close()

	t.Setenv("PAGEMARK_LLM_API_URL", healthy.URL+"/v1/chat/completions")
	output, err := run(t, t.TempDir(), "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Status:   available") || !strings.Contains(output, "Provider: openai") {
		t.Errorf("check output:\n%s", output)
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	t.Setenv("PAGEMARK_LLM_API_URL", broken.URL+"/v1/chat/completions")
	output, err = run(t, t.TempDir(), "check")
	if !errors.Is(err, errLLMUnavailable) {
		t.Fatalf("check error = %v, want errLLMUnavailable", err)
	}
	if !strings.Contains(output, "unavailable") {
		t.Errorf("check output:\n%s", output)
	}
}

func TestCullCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := seedDir(t,
		srv.URL+"/ok,OK,,,2025-01-02T03:04:05Z,false,",
		srv.URL+"/gone,Gone,,,2025-01-02T03:04:05Z,false,",
	)

	output, err := run(t, dir, "cull")
	if err != nil {
		t.Fatalf("cull: %v", err)
	}
	if !strings.Contains(output, "Checked 2 bookmarks: 1 dead, 0 unreachable") {
		t.Errorf("cull output:\n%s", output)
	}

	if _, err := run(t, dir, "cull", "--delete"); err != nil {
		t.Fatalf("cull --delete: %v", err)
	}

	output, err = run(t, dir, "--json", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	records := decodeRecords(t, output)
	if len(records) != 1 || records[0].URL != srv.URL+"/ok" {
		t.Errorf("records after cull --delete = %+v", records)
	}
}
