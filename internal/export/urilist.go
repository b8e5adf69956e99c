package export

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

func fileURL(abs string) *url.URL {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return &url.URL{Scheme: "file", Path: p}
}

// ParseURIList parses a text/uri-list payload. Lines are separated by CRLF;
// blank lines and lines starting with '#' are skipped.
func ParseURIList(s string) ([]*url.URL, error) {
	var uris []*url.URL

	for i, line := range strings.Split(s, "\r\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := url.Parse(line)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidURI, "line %d: %v", i+1, err)
		}

		uris = append(uris, u)
	}

	return uris, nil
}

// LocalPaths maps file URIs to local paths. Any other scheme is an error.
func LocalPaths(uris []*url.URL) ([]string, error) {
	paths := make([]string, 0, len(uris))

	for _, u := range uris {
		if u.Scheme != "file" {
			return nil, errors.Wrapf(ErrInvalidURI, "%s: not a file URI", u)
		}

		if u.Host != "" && u.Host != "localhost" {
			return nil, errors.Wrapf(ErrInvalidURI, "%s: remote host %q", u, u.Host)
		}

		paths = append(paths, filepath.FromSlash(u.Path))
	}

	return paths, nil
}
