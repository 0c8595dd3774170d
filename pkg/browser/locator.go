package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Environment variables checked, in order, for an explicit browser path.
var executableEnvVars = []string{
	"PLAYWRIGHT_CHROME_EXECUTABLE",
	"CHROME_PATH",
	"CHROME_EXECUTABLE",
}

// Binary names searched on PATH, in order.
var executableNames = []string{
	"chrome",
	"google-chrome",
	"chrome.exe",
	"chromium",
	"chromium-browser",
	"google-chrome-stable",
}

var linuxPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
}

const macPath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"

// Target is the browser chosen for a run. An empty Path means the
// automation library's bundled Chromium is used.
type Target struct {
	Path string
}

// Bundled reports whether no system browser was found.
func (t Target) Bundled() bool {
	return t.Path == ""
}

// Locator finds a Chrome or Chromium executable. Its fields make the lookup
// sources replaceable; NewLocator binds them to the real OS.
type Locator struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Exists   func(string) bool
	HomeDir  func() (string, error)
	GOOS     string
}

// NewLocator returns a Locator reading the process environment and
// filesystem.
func NewLocator() *Locator {
	return &Locator{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Exists:   fileExists,
		HomeDir:  os.UserHomeDir,
		GOOS:     runtime.GOOS,
	}
}

// Locate resolves the browser executable: environment overrides, then PATH,
// then the platform's standard install locations. It only reads.
func (l *Locator) Locate() Target {
	for _, name := range executableEnvVars {
		if p := l.Getenv(name); p != "" && l.Exists(p) {
			return Target{Path: p}
		}
	}

	for _, name := range executableNames {
		if p, err := l.LookPath(name); err == nil && p != "" {
			return Target{Path: p}
		}
	}

	for _, p := range l.platformPaths() {
		if l.Exists(p) {
			return Target{Path: p}
		}
	}

	return Target{}
}

func (l *Locator) platformPaths() []string {
	switch l.GOOS {
	case "windows":
		rel := []string{"Google", "Chrome", "Application", "chrome.exe"}
		roots := []string{
			l.envOr("PROGRAMFILES", `C:\Program Files`),
			l.envOr("PROGRAMFILES(X86)", `C:\Program Files (x86)`),
			l.envOr("LOCALAPPDATA", l.localAppData()),
		}
		paths := make([]string, 0, len(roots))
		for _, root := range roots {
			paths = append(paths, joinWindows(append([]string{root}, rel...)...))
		}
		return paths
	case "darwin":
		return []string{macPath}
	default:
		return linuxPaths
	}
}

func (l *Locator) envOr(name, fallback string) string {
	if v := l.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func (l *Locator) localAppData() string {
	home := "~"
	if l.HomeDir != nil {
		if h, err := l.HomeDir(); err == nil && h != "" {
			home = h
		}
	}
	return joinWindows(home, "AppData", "Local")
}

// joinWindows joins with a backslash regardless of the host OS so the
// candidate list is the same when tested elsewhere.
func joinWindows(elem ...string) string {
	out := ""
	for i, e := range elem {
		if i == 0 {
			out = e
			continue
		}
		if len(out) > 0 && (out[len(out)-1] == '\\' || out[len(out)-1] == '/') {
			out += e
		} else {
			out += `\` + e
		}
	}
	if runtime.GOOS == "windows" {
		return filepath.Clean(out)
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
