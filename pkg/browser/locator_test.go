package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSystem struct {
	env      map[string]string
	path     map[string]string
	existing map[string]bool
	checked  []string
}

func (f *fakeSystem) locator(goos string) *Locator {
	return &Locator{
		Getenv: func(k string) string { return f.env[k] },
		LookPath: func(name string) (string, error) {
			if p, ok := f.path[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		Exists: func(p string) bool {
			f.checked = append(f.checked, p)
			return f.existing[p]
		},
		HomeDir: func() (string, error) { return `C:\Users\pat`, nil },
		GOOS:    goos,
	}
}

func TestLocate_EnvOverrideOrder(t *testing.T) {
	sys := &fakeSystem{
		env: map[string]string{
			"PLAYWRIGHT_CHROME_EXECUTABLE": "/missing/chrome",
			"CHROME_PATH":                  "/opt/chrome",
			"CHROME_EXECUTABLE":            "/opt/other",
		},
		path:     map[string]string{"chromium": "/usr/bin/chromium"},
		existing: map[string]bool{"/opt/chrome": true, "/opt/other": true},
	}

	target := sys.locator("linux").Locate()
	assert.Equal(t, "/opt/chrome", target.Path)
	assert.False(t, target.Bundled())
}

func TestLocate_PathSearchOrder(t *testing.T) {
	sys := &fakeSystem{
		path: map[string]string{
			"chromium":             "/usr/local/bin/chromium",
			"google-chrome-stable": "/usr/local/bin/google-chrome-stable",
		},
	}

	target := sys.locator("linux").Locate()
	assert.Equal(t, "/usr/local/bin/chromium", target.Path)
}

func TestLocate_LinuxPaths(t *testing.T) {
	sys := &fakeSystem{
		existing: map[string]bool{"/usr/bin/chromium": true, "/snap/bin/chromium": true},
	}

	target := sys.locator("linux").Locate()
	assert.Equal(t, "/usr/bin/chromium", target.Path)
	assert.Equal(t, linuxPaths[:4], sys.checked)
}

func TestLocate_Darwin(t *testing.T) {
	sys := &fakeSystem{existing: map[string]bool{macPath: true}}
	assert.Equal(t, macPath, sys.locator("darwin").Locate().Path)
}

func TestLocate_WindowsCandidateOrder(t *testing.T) {
	sys := &fakeSystem{
		env: map[string]string{"PROGRAMFILES": `D:\Apps`},
	}

	target := sys.locator("windows").Locate()
	assert.True(t, target.Bundled())
	assert.Equal(t, []string{
		`D:\Apps\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		`C:\Users\pat\AppData\Local\Google\Chrome\Application\chrome.exe`,
	}, sys.checked)
}

func TestLocate_WindowsLocalAppData(t *testing.T) {
	want := `C:\Users\pat\AppData\Local\Google\Chrome\Application\chrome.exe`
	sys := &fakeSystem{
		env:      map[string]string{"LOCALAPPDATA": `C:\Users\pat\AppData\Local`},
		existing: map[string]bool{want: true},
	}

	assert.Equal(t, want, sys.locator("windows").Locate().Path)
}

func TestLocate_NothingFound(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows", "freebsd"} {
		t.Run(goos, func(t *testing.T) {
			sys := &fakeSystem{}
			target := sys.locator(goos).Locate()
			assert.True(t, target.Bundled())
			assert.Empty(t, target.Path)
		})
	}
}
