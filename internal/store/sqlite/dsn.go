package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const memory = ":memory:"

// driverDSN maps sqlite://<path>[?options] to the form modernc.org/sqlite
// opens. Relative paths are anchored at the working directory.
func driverDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", fmt.Errorf("expected sqlite:// scheme, got %q", dsn)
	}

	path, options, hasOptions := strings.Cut(rest, "?")
	if path == "" {
		return "", fmt.Errorf("sqlite DSN %q has no path", dsn)
	}
	if path != memory {
		unescaped, err := url.PathUnescape(path)
		if err != nil {
			return "", fmt.Errorf("unescaping path: %w", err)
		}
		path = unescaped
		if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
			path = "./" + path
		}
	}

	if hasOptions {
		return path + "?" + options, nil
	}
	return path, nil
}

func isMemory(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	return p == memory
}
