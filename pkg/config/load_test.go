package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadHierarchical(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		order   []string
		want    Fragment
		wantErr bool
	}{
		{
			name: "single file",
			files: map[string]string{
				"a.yaml": "default:\n  forward: 12\n  station: [nrk, kir]\n",
			},
			order: []string{"a.yaml"},
			want: Fragment{"default": Fragment{
				"forward": 12,
				"station": []any{"nrk", "kir"},
			}},
		},
		{
			name: "later file overrides pattern",
			files: map[string]string{
				"base.yaml": "pattern:\n  dir_output: /data\n  file_xml: out.xml\n",
				"site.yaml": "pattern:\n  dir_output: /srv\n",
			},
			order: []string{"base.yaml", "site.yaml"},
			want: Fragment{"pattern": Fragment{
				"dir_output": "/srv",
				"file_xml":   "out.xml",
			}},
		},
		{
			name: "empty document",
			files: map[string]string{
				"empty.yaml": "",
			},
			order: []string{"empty.yaml"},
			want:  Fragment{},
		},
		{
			name: "null document",
			files: map[string]string{
				"null.yaml": "~\n",
			},
			order: []string{"null.yaml"},
			want:  Fragment{},
		},
		{
			name: "comments only",
			files: map[string]string{
				"comment.yaml": "# nothing configured yet\n",
			},
			order: []string{"comment.yaml"},
			want:  Fragment{},
		},
		{
			name: "toml merged with yaml",
			files: map[string]string{
				"base.yaml": "default:\n  forward: 12\n  start: 0.5\n",
				"site.toml": "[default]\nstart = 1.5\ncenter_id = \"SMHI\"\n",
			},
			order: []string{"base.yaml", "site.toml"},
			want: Fragment{"default": Fragment{
				"forward":   12,
				"start":     1.5,
				"center_id": "SMHI",
			}},
		},
		{
			name: "non-string keys formatted",
			files: map[string]string{
				"keys.yaml": "levels:\n  1: low\n  2: high\n",
			},
			order: []string{"keys.yaml"},
			want:  Fragment{"levels": Fragment{"1": "low", "2": "high"}},
		},
		{
			name: "top level list",
			files: map[string]string{
				"list.yaml": "- a\n- b\n",
			},
			order:   []string{"list.yaml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			paths := make([]string, 0, len(tt.order))
			for _, name := range tt.order {
				paths = append(paths, writeFile(t, dir, name, tt.files[name]))
			}

			got, err := LoadHierarchical(paths...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadHierarchical() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadHierarchical() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadHierarchicalErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.yaml", "default: {}\n")
	invalid := writeFile(t, dir, "invalid.yaml", "default:\n  station: [nrk\n  forward: 12\n")
	scalar := writeFile(t, dir, "scalar.yaml", "just a string\n")
	badTOML := writeFile(t, dir, "bad.toml", "[default\nforward = 12\n")

	tests := []struct {
		name      string
		paths     []string
		wantLoad  bool
		wantParse bool
		wantLine  bool
	}{
		{name: "no paths", paths: nil, wantLoad: true},
		{name: "missing file", paths: []string{filepath.Join(dir, "missing.yaml")}, wantLoad: true},
		{name: "missing second file", paths: []string{valid, filepath.Join(dir, "missing.yaml")}, wantLoad: true},
		{name: "directory", paths: []string{dir}, wantLoad: true},
		{name: "invalid yaml", paths: []string{invalid}, wantParse: true, wantLine: true},
		{name: "scalar document", paths: []string{scalar}, wantParse: true},
		{name: "invalid toml", paths: []string{badTOML}, wantParse: true, wantLine: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadHierarchical(tt.paths...)
			if err == nil {
				t.Fatalf("LoadHierarchical() = %#v, want error", got)
			}
			if got != nil {
				t.Errorf("LoadHierarchical() returned partial result %#v", got)
			}

			var loadErr *LoadError
			if errors.As(err, &loadErr) != tt.wantLoad {
				t.Errorf("error = %v (%T), want LoadError = %v", err, err, tt.wantLoad)
			}

			var parseErr *ParseError
			if errors.As(err, &parseErr) != tt.wantParse {
				t.Errorf("error = %v (%T), want ParseError = %v", err, err, tt.wantParse)
			}
			if tt.wantLine && parseErr != nil && parseErr.Line == 0 {
				t.Errorf("ParseError.Line = 0, want the failing line")
			}
		})
	}
}

func TestLoadHierarchicalMissingFileIsNotExist(t *testing.T) {
	_, err := LoadHierarchical(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
}
