package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// LoadHierarchical reads one or more hierarchical configuration files and
// merges them in the given order, starting from an empty Fragment. Later
// files win on conflicting scalar keys.
//
// Files ending in ".toml" are decoded as TOML, everything else as YAML.
// An unreadable file yields a *LoadError, malformed content a *ParseError.
func LoadHierarchical(paths ...string) (Fragment, error) {
	if len(paths) == 0 {
		return nil, &LoadError{Message: "no configuration files given"}
	}

	merged := Fragment{}
	for _, path := range paths {
		fragment, err := loadFragment(path)
		if err != nil {
			return nil, err
		}
		merged = toFragment(Merge(merged, fragment))
	}

	return merged, nil
}

// loadFragment opens path, decodes exactly one document and closes the file.
func loadFragment(path string) (Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if isTOML(path) {
		return decodeTOML(path, f)
	}
	return decodeYAML(path, f)
}

func decodeYAML(path string, r io.Reader) (Fragment, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Fragment{}, nil
		}
		if isReadError(err) {
			return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
		}
		return nil, &ParseError{
			FilePath: path,
			Line:     yamlErrorLine(err),
			Message:  "YAML parsing failed",
			Cause:    err,
		}
	}

	return asDocument(path, doc)
}

func decodeTOML(path string, r io.Reader) (Fragment, error) {
	var doc map[string]any
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		var parseErr toml.ParseError
		if errors.As(err, &parseErr) {
			return nil, &ParseError{
				FilePath: path,
				Line:     parseErr.Position.Line,
				Message:  "TOML parsing failed",
				Cause:    err,
			}
		}
		if isReadError(err) {
			return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
		}
		return nil, &ParseError{FilePath: path, Message: "TOML parsing failed", Cause: err}
	}

	return asDocument(path, doc)
}

// asDocument checks that a decoded document is a mapping and normalizes it.
// A null document counts as an empty mapping.
func asDocument(path string, doc any) (Fragment, error) {
	if doc == nil {
		return Fragment{}, nil
	}
	fragment, ok := normalize(doc).(Fragment)
	if !ok {
		return nil, &ParseError{
			FilePath: path,
			Message:  fmt.Sprintf("top-level value is %T, expected a mapping", doc),
		}
	}
	return fragment, nil
}

func classifyOpenError(path string, err error) *LoadError {
	switch {
	case os.IsNotExist(err):
		return &LoadError{FilePath: path, Message: "file not found", Cause: err}
	case os.IsPermission(err):
		return &LoadError{FilePath: path, Message: "permission denied", Cause: err}
	default:
		return &LoadError{FilePath: path, Message: "failed to open file", Cause: err}
	}
}

// isReadError reports whether err came from the underlying reader rather
// than from the decoder's syntax checks.
func isReadError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return line
}
