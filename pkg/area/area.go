package area

import "fmt"

// Definition describes a projected area of interest.
type Definition struct {
	// ID is the area identifier used to look the area up
	ID string `json:"id" yaml:"id"`

	// Description is a human readable description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Projection holds the projection parameters (proj, lat_0, ...)
	Projection map[string]any `json:"projection,omitempty" yaml:"projection,omitempty"`

	// Width and Height are the grid size in pixels
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Extent is lower-left x, lower-left y, upper-right x, upper-right y
	Extent [4]float64 `json:"extent" yaml:"extent"`

	// Units of Extent, "m" when not given
	Units string `json:"units,omitempty" yaml:"units,omitempty"`
}

// String returns a short description of the area.
func (d Definition) String() string {
	return fmt.Sprintf("%s (%dx%d)", d.ID, d.Width, d.Height)
}

// Resolver looks up area definitions by file reference and area id.
type Resolver interface {
	// Lookup returns every definition named id found in file. It returns
	// an empty slice, not an error, when the file holds no such area.
	Lookup(file, id string) ([]Definition, error)
}

// LookupFunc adapts an ordinary function to the Resolver interface.
type LookupFunc func(file, id string) ([]Definition, error)

// Lookup implements Resolver.
func (f LookupFunc) Lookup(file, id string) ([]Definition, error) {
	return f(file, id)
}
