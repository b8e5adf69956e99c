// Command schema-gen writes the config JSON Schema into a directory.
//
// Usage:
//
//	schema-gen [-check] [dir]
//
// With -check it writes nothing and exits 1 when the file on disk is stale.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hyperfind/internal/schema"
)

const filePerms = 0o644

var errStale = errors.New("schema is out of date")

func main() {
	check := flag.Bool("check", false, "fail instead of writing when the schema is stale")
	flag.Parse()

	outDir := "schema"
	if flag.NArg() > 0 {
		outDir = flag.Arg(0)
	}

	path, err := run(outDir, *check)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema-gen: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(path)
}

func run(outDir string, check bool) (string, error) {
	data, err := schema.GenerateJSON(true)
	if err != nil {
		return "", err
	}

	path := filepath.Join(filepath.Clean(outDir), schema.Filename())

	if check {
		//nolint:gosec // dev tool, path from CLI arg
		existing, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "reading %s", path)
		}

		if !bytes.Equal(existing, data) {
			return "", errors.Wrapf(errStale, "%s (run go generate ./...)", path)
		}

		return path, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outDir)
	}

	//nolint:gosec // dev tool, path from CLI arg
	if err := os.WriteFile(path, data, filePerms); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}

	return path, nil
}
