package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pomwalk/pkg/mirror"
)

// env isolates a test from the user's configuration and caches.
type env struct {
	t      *testing.T
	home   string
	remote string
	local  string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{t: t, home: t.TempDir(), remote: t.TempDir(), local: t.TempDir()}
	t.Setenv("HOME", e.home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(e.home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(e.home, ".cache"))
	return e
}

func (e *env) write(path, data string) string {
	e.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		e.t.Fatal(err)
	}
	return path
}

// serve starts the mirror over the remote directory and returns its
// repository URL.
func (e *env) serve() string {
	srv := httptest.NewServer(mirror.NewHandler(e.remote))
	e.t.Cleanup(srv.Close)
	return srv.URL + mirror.Prefix
}

func (e *env) run(ctx context.Context, args ...string) int {
	e.stdout.Reset()
	e.stderr.Reset()
	return New(&e.stdout, &e.stderr, LogInfo).Run(ctx, args)
}

const widgetPOM = `<project>
  <groupId>com.example</groupId>
  <artifactId>widget</artifactId>
  <version>1.0</version>
</project>`

const appPOM = `<project>
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0</version>
  <dependencyManagement><dependencies>
    <dependency><groupId>com.example</groupId><artifactId>widget</artifactId><version>1.0</version></dependency>
  </dependencies></dependencyManagement>
  <dependencies>
    <dependency><groupId>com.example</groupId><artifactId>widget</artifactId></dependency>
    <dependency><groupId>com.example</groupId><artifactId>ghost</artifactId></dependency>
  </dependencies>
</project>`

func TestRun_Walk(t *testing.T) {
	e := newEnv(t)
	e.write(filepath.Join(e.remote, "com/example/widget/1.0/widget-1.0.pom"), widgetPOM)
	e.write(filepath.Join(e.remote, "com/example/widget/1.0/widget-1.0.jar"), "jar")
	root := e.write(filepath.Join(t.TempDir(), "pom.xml"), appPOM)
	graph := filepath.Join(t.TempDir(), "closure.dot")
	metrics := filepath.Join(t.TempDir(), "pomwalk.prom")

	code := e.run(context.Background(),
		"--repository", e.serve(),
		"--local-repository", e.local,
		"--graph", graph,
		"--metrics-file", metrics,
		root)
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, e.stderr.String())
	}

	jar := filepath.Join(e.local, "com/example/widget/1.0/widget-1.0.jar")
	if _, err := os.Stat(jar); err != nil {
		t.Fatalf("jar not downloaded: %v", err)
	}

	out := e.stdout.String()
	if !strings.Contains(out, "Downloading "+jar) {
		t.Errorf("stdout missing progress line for %s:\n%s", jar, out)
	}
	if !strings.Contains(out, "UNRESOLVED_VERSION com.example:ghost") {
		t.Errorf("summary missing skipped branch:\n%s", out)
	}
	if strings.Contains(e.stderr.String(), "Downloading") {
		t.Error("progress lines must not go to the diagnostics stream")
	}
	if !strings.Contains(e.stderr.String(), "cannot resolve version") {
		t.Errorf("stderr missing diagnostic:\n%s", e.stderr.String())
	}

	data, err := os.ReadFile(graph)
	if err != nil || !strings.Contains(string(data), `"com.example:app:1.0" -> "com.example:widget:1.0"`) {
		t.Errorf("graph = %q, err = %v", data, err)
	}
	data, err = os.ReadFile(metrics)
	if err != nil || !strings.Contains(string(data), "pomwalk_walk_total") {
		t.Errorf("metrics file = %.200q, err = %v", data, err)
	}

	// Second run finds everything in place.
	if code := e.run(context.Background(), "--repository", e.serve(), "--local-repository", e.local, root); code != ExitOK {
		t.Fatalf("second exit = %d", code)
	}
	if strings.Contains(e.stdout.String(), "Downloading") {
		t.Errorf("second run downloaded again:\n%s", e.stdout.String())
	}
}

func TestRun_ExitCodes(t *testing.T) {
	e := newEnv(t)
	malformed := e.write(filepath.Join(t.TempDir(), "pom.xml"), "<project>")
	valid := e.write(filepath.Join(t.TempDir(), "pom.xml"), widgetPOM)
	badConfig := e.write(filepath.Join(t.TempDir(), "config.toml"), `managed_policy = "newest"`)

	tests := []struct {
		name   string
		args   []string
		want   int
		stderr string
	}{
		{"no argument", nil, ExitUsage, "Usage:"},
		{"two arguments", []string{"a.xml", "b.xml"}, ExitUsage, "expected exactly one argument"},
		{"unknown flag", []string{"--frobnicate", "pom.xml"}, ExitUsage, "unknown flag"},
		{"bad policy flag", []string{"--policy", "newest", valid}, ExitUsage, "newest"},
		{"missing root", []string{filepath.Join(t.TempDir(), "absent.xml")}, ExitFailure, "DESCRIPTOR_UNREADABLE"},
		{"malformed root", []string{malformed}, ExitFailure, "DESCRIPTOR_MALFORMED"},
		{"bad config", []string{"--config", badConfig, valid}, ExitFailure, "INVALID_CONFIG"},
		{"bad repository", []string{"--repository", "ftp://example.com", valid}, ExitFailure, "INVALID_CONFIG"},
		{"serve takes no args", []string{"serve", "extra"}, ExitUsage, "Usage:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--local-repository", e.local, "--no-cache"}, tt.args...)
			if got := e.run(context.Background(), args...); got != tt.want {
				t.Errorf("exit = %d, want %d\nstderr:\n%s", got, tt.want, e.stderr.String())
			}
			if !strings.Contains(e.stderr.String(), tt.stderr) {
				t.Errorf("stderr missing %q:\n%s", tt.stderr, e.stderr.String())
			}
		})
	}
}

func TestRun_Interrupted(t *testing.T) {
	e := newEnv(t)
	root := e.write(filepath.Join(t.TempDir(), "pom.xml"), appPOM)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := e.run(ctx, "--local-repository", e.local, "--no-cache", root); got != ExitInterrupted {
		t.Errorf("exit = %d, want %d", got, ExitInterrupted)
	}
}

func TestRun_CachePath(t *testing.T) {
	e := newEnv(t)

	if got := e.run(context.Background(), "cache", "path", "--local-repository", e.local); got != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", got, e.stderr.String())
	}
	out := e.stdout.String()
	if !strings.Contains(out, e.local) {
		t.Errorf("cache path missing local repository:\n%s", out)
	}
	if !strings.Contains(out, filepath.Join(e.home, ".cache", "pomwalk")) {
		t.Errorf("cache path missing negative cache dir:\n%s", out)
	}
}

func TestRun_CacheClear(t *testing.T) {
	e := newEnv(t)
	entry := e.write(filepath.Join(e.home, ".cache", "pomwalk", "ab", "entry"), "x")

	if got := e.run(context.Background(), "cache", "clear"); got != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", got, e.stderr.String())
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("cache entry still present: %v", err)
	}
	if !strings.Contains(e.stdout.String(), "Cleared negative cache") {
		t.Errorf("stdout = %q", e.stdout.String())
	}
}

func TestRun_Completion(t *testing.T) {
	e := newEnv(t)

	if got := e.run(context.Background(), "completion", "bash"); got != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", got, e.stderr.String())
	}
	if !strings.Contains(e.stdout.String(), "pomwalk") {
		t.Error("bash completion script should mention the command name")
	}
	if got := e.run(context.Background(), "completion", "tcsh"); got != ExitUsage {
		t.Errorf("exit for unsupported shell = %d, want %d", got, ExitUsage)
	}
}

func TestRun_CompletePolicy(t *testing.T) {
	e := newEnv(t)

	if got := e.run(context.Background(), "__complete", "--policy", ""); got != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", got, e.stderr.String())
	}
	for _, want := range []string{"first-wins", "last-wins"} {
		if !strings.Contains(e.stdout.String(), want) {
			t.Errorf("completions %q missing %q", e.stdout.String(), want)
		}
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct{ in, want string }{
		{":8080", "localhost:8080"},
		{"0.0.0.0:9000", "0.0.0.0:9000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := displayAddr(tt.in); got != tt.want {
			t.Errorf("displayAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
