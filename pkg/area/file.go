package area

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultUnits is assumed when an area extent does not state its units.
const DefaultUnits = "m"

// FileResolver reads area definitions from YAML area files on disk.
type FileResolver struct {
	// BaseDir is prepended to relative file references. Empty means the
	// current working directory.
	BaseDir string
}

// NewFileResolver creates a resolver reading files relative to baseDir.
func NewFileResolver(baseDir string) *FileResolver {
	return &FileResolver{BaseDir: baseDir}
}

type rawArea struct {
	Description string         `yaml:"description"`
	Projection  map[string]any `yaml:"projection"`
	Shape       struct {
		Height int `yaml:"height"`
		Width  int `yaml:"width"`
	} `yaml:"shape"`
	AreaExtent struct {
		LowerLeft  []float64 `yaml:"lower_left_xy"`
		UpperRight []float64 `yaml:"upper_right_xy"`
		Units      string    `yaml:"units"`
	} `yaml:"area_extent"`
}

// Lookup implements Resolver. Every document of the file is searched and
// each one defining id contributes a Definition.
func (r *FileResolver) Lookup(file, id string) ([]Definition, error) {
	path := file
	if r.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.BaseDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open area file %q: %w", path, err)
	}
	defer f.Close()

	var matches []Definition
	dec := yaml.NewDecoder(f)
	for {
		var doc map[string]rawArea
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse area file %q: %w", path, err)
		}

		raw, ok := doc[id]
		if !ok {
			continue
		}
		def, err := raw.definition(id)
		if err != nil {
			return nil, fmt.Errorf("area %q in %q: %w", id, path, err)
		}
		matches = append(matches, def)
	}

	return matches, nil
}

func (a rawArea) definition(id string) (Definition, error) {
	if len(a.AreaExtent.LowerLeft) != 2 || len(a.AreaExtent.UpperRight) != 2 {
		return Definition{}, fmt.Errorf("area_extent needs two-element lower_left_xy and upper_right_xy")
	}

	units := a.AreaExtent.Units
	if units == "" {
		units = DefaultUnits
	}

	return Definition{
		ID:          id,
		Description: a.Description,
		Projection:  a.Projection,
		Width:       a.Shape.Width,
		Height:      a.Shape.Height,
		Extent: [4]float64{
			a.AreaExtent.LowerLeft[0],
			a.AreaExtent.LowerLeft[1],
			a.AreaExtent.UpperRight[0],
			a.AreaExtent.UpperRight[1],
		},
		Units: units,
	}, nil
}
