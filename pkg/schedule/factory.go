package schedule

import (
	"bytes"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"pytroll-hq/schedconf/pkg/area"
	"pytroll-hq/schedconf/pkg/config"
)

// Factory constructs the domain objects of a schedule from their
// configuration parameters.
type Factory interface {
	// NewSatellite builds the satellite called name.
	NewSatellite(name string, params config.Fragment) (*Satellite, error)

	// NewStation builds the station id. params never contains the
	// station's satellite list; satellites are attached by the caller.
	NewStation(id string, params config.Fragment) (*Station, error)

	// NewScheduler builds the scheduler from its resolved parameters.
	NewScheduler(params SchedulerParams) (*Scheduler, error)
}

// DefaultFactory builds the types of this package. Parameters are decoded
// strictly: an unknown parameter name is an error.
type DefaultFactory struct {
	resolver area.Resolver
	logger   *slog.Logger
}

// NewDefaultFactory creates a factory that resolves station areas through
// resolver. A nil resolver reads area files from the working directory.
func NewDefaultFactory(resolver area.Resolver, logger *slog.Logger) *DefaultFactory {
	if resolver == nil {
		resolver = area.NewFileResolver("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		resolver: resolver,
		logger:   logger.With("component", "schedule.factory"),
	}
}

type satelliteParams struct {
	Night                   *float64 `yaml:"night"`
	Day                     *float64 `yaml:"day"`
	ScheduleName            string   `yaml:"schedule_name"`
	InternationalDesignator string   `yaml:"international_designator"`
}

type stationParams struct {
	Name         *string  `yaml:"name"`
	Longitude    *float64 `yaml:"longitude"`
	Latitude     *float64 `yaml:"latitude"`
	Altitude     *float64 `yaml:"altitude"`
	Area         string   `yaml:"area"`
	AreaFile     string   `yaml:"area_file"`
	MinPass      *float64 `yaml:"min_pass"`
	LocalHorizon float64  `yaml:"local_horizon"`
}

// NewSatellite implements Factory. night and day are required.
func (f *DefaultFactory) NewSatellite(name string, params config.Fragment) (*Satellite, error) {
	section := "satellites." + name

	var p satelliteParams
	if err := decodeParams(section, params, &p); err != nil {
		return nil, err
	}
	if p.Night == nil {
		return nil, config.MissingKey(section, "night")
	}
	if p.Day == nil {
		return nil, config.MissingKey(section, "day")
	}

	return &Satellite{
		Name:                    name,
		Night:                   *p.Night,
		Day:                     *p.Day,
		ScheduleName:            p.ScheduleName,
		InternationalDesignator: p.InternationalDesignator,
	}, nil
}

// NewStation implements Factory. name, longitude, latitude and altitude
// are required. When area_file is set the area is resolved and the first
// matching definition is kept.
func (f *DefaultFactory) NewStation(id string, params config.Fragment) (*Station, error) {
	section := "stations." + id

	var p stationParams
	if err := decodeParams(section, params, &p); err != nil {
		return nil, err
	}
	switch {
	case p.Name == nil:
		return nil, config.MissingKey(section, "name")
	case p.Longitude == nil:
		return nil, config.MissingKey(section, "longitude")
	case p.Latitude == nil:
		return nil, config.MissingKey(section, "latitude")
	case p.Altitude == nil:
		return nil, config.MissingKey(section, "altitude")
	}

	st := &Station{
		ID:           id,
		Name:         *p.Name,
		Longitude:    *p.Longitude,
		Latitude:     *p.Latitude,
		Altitude:     *p.Altitude,
		AreaID:       p.Area,
		AreaFile:     p.AreaFile,
		MinPass:      p.MinPass,
		LocalHorizon: p.LocalHorizon,
	}

	if p.AreaFile != "" {
		def, err := f.resolveArea(section, p.AreaFile, p.Area)
		if err != nil {
			return nil, err
		}
		st.Area = def
	}

	return st, nil
}

// NewScheduler implements Factory.
func (f *DefaultFactory) NewScheduler(params SchedulerParams) (*Scheduler, error) {
	return &Scheduler{
		Stations: params.Stations,
		MinPass:  params.MinPass,
		Forward:  params.Forward,
		Start:    params.Start,
		DumpURL:  params.DumpURL,
		Patterns: params.Patterns,
		CenterID: params.CenterID,
	}, nil
}

func (f *DefaultFactory) resolveArea(section, file, id string) (*area.Definition, error) {
	if id == "" {
		return nil, config.MissingKey(section, "area")
	}

	defs, err := f.resolver.Lookup(file, id)
	if err != nil {
		return nil, &config.AccessError{Section: section, Key: "area", Message: "area lookup failed", Cause: err}
	}
	if len(defs) == 0 {
		return nil, &config.AccessError{Section: section, Key: "area", Message: fmt.Sprintf("area %s not found in %s", id, file)}
	}
	if len(defs) > 1 {
		f.logger.Warn("area lookup returned several definitions, using the first",
			"section", section,
			"area", id,
			"area_file", file,
			"matches", len(defs),
		)
	}

	def := defs[0]
	return &def, nil
}

// decodeParams decodes a parameter mapping into out, rejecting unknown keys.
func decodeParams(section string, params config.Fragment, out any) error {
	return decode(section, params, out, true)
}

// decodeLoose decodes a parameter mapping into out, ignoring unknown keys.
func decodeLoose(section string, params config.Fragment, out any) error {
	return decode(section, params, out, false)
}

func decode(section string, params config.Fragment, out any, strict bool) error {
	data, err := yaml.Marshal(map[string]any(params))
	if err != nil {
		return &config.AccessError{Section: section, Message: "cannot encode parameters", Cause: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(strict)
	if err := dec.Decode(out); err != nil {
		return &config.AccessError{Section: section, Message: "invalid parameters", Cause: err}
	}
	return nil
}
