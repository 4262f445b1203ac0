// Package pathutil normalizes user-supplied paths and history locators.
package pathutil

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CleanInput strips one matching pair of surrounding quotes and expands
// a leading ~ and any environment variables. Shells on some platforms
// hand us quoted drag-and-drop paths verbatim.
func CleanInput(p string) string {
	if len(p) >= 2 {
		if (p[0] == '"' && p[len(p)-1] == '"') || (p[0] == '\'' && p[len(p)-1] == '\'') {
			p = p[1 : len(p)-1]
		}
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = home + p[1:]
		}
	}
	return os.ExpandEnv(p)
}

// ResourcePath converts a history-record locator such as
// file:///Users/me/proj/a.py (or file:///C:/Users/... on Windows) into
// a filesystem path.
func ResourcePath(uri string) (string, error) {
	return resourcePath(uri, runtime.GOOS)
}

func resourcePath(uri, goos string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse resource locator %q: %w", uri, err)
	}
	p := u.Path
	if p == "" {
		return "", fmt.Errorf("resource locator %q has no path", uri)
	}
	// Windows locators carry the drive letter after a leading slash:
	// /C:/Users/... must become C:/Users/...
	if goos == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}
