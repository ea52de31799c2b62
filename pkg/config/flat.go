package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"pytroll-hq/schedconf/pkg/area"
)

// Section and key names of the flat format.
const (
	SectionDefault = "default"
	SectionPattern = "pattern"

	KeyStation    = "station"
	KeyForward    = "forward"
	KeyStart      = "start"
	KeyName       = "name"
	KeyLongitude  = "longitude"
	KeyLatitude   = "latitude"
	KeyAltitude   = "altitude"
	KeyAreaFile   = "area_file"
	KeyArea       = "area"
	KeySatellites = "satellites"
	KeyNight      = "night"
	KeyDay        = "day"
)

// Location is a station position: degrees east, degrees north and
// kilometres above sea level.
type Location struct {
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Altitude  float64 `json:"altitude" yaml:"altitude"`
}

// ScorePair holds the night and day scores of one satellite at a station.
type ScorePair struct {
	Night float64 `json:"night" yaml:"night"`
	Day   float64 `json:"day" yaml:"day"`
}

// StationDescriptor is one station read from a flat configuration file.
type StationDescriptor struct {
	Location Location             `json:"location" yaml:"location"`
	Name     string               `json:"name" yaml:"name"`
	Area     area.Definition      `json:"area" yaml:"area"`
	Scores   map[string]ScorePair `json:"scores" yaml:"scores"`
}

// FlatConfig is the result of reading a flat configuration file.
type FlatConfig struct {
	// Stations in the order of the default section's station list
	Stations []StationDescriptor `json:"stations" yaml:"stations"`

	// Forward is the scheduling window in hours
	Forward int `json:"forward" yaml:"forward"`

	// Start is the offset of the window start in hours
	Start float64 `json:"start" yaml:"start"`

	// Patterns is the pattern section, values untouched
	Patterns map[string]string `json:"patterns" yaml:"patterns"`
}

// LoadFlat reads a flat, sectioned key/value configuration file.
// Area references are resolved through resolver. Every required section
// and key must be present; a missing one, or a value that does not parse
// as the required number type, yields an *AccessError.
func LoadFlat(path string, resolver area.Resolver) (*FlatConfig, error) {
	return loadFlat(path, resolver, slog.Default())
}

func loadFlat(path string, resolver area.Resolver, logger *slog.Logger) (*FlatConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	defer f.Close()

	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, f)
	if err != nil {
		return nil, &AccessError{FilePath: path, Message: "failed to read flat configuration", Cause: err}
	}

	r := &flatReader{path: path, file: file}

	defaults, err := r.getSection(SectionDefault)
	if err != nil {
		return nil, err
	}
	stationIDs, err := r.getList(defaults, KeyStation)
	if err != nil {
		return nil, err
	}
	forward, err := r.getInt(defaults, KeyForward)
	if err != nil {
		return nil, err
	}
	start, err := r.getFloat(defaults, KeyStart)
	if err != nil {
		return nil, err
	}

	patternSec, err := r.getSection(SectionPattern)
	if err != nil {
		return nil, err
	}
	patterns := make(map[string]string, len(patternSec.Keys()))
	for _, key := range patternSec.Keys() {
		patterns[key.Name()] = key.Value()
	}

	stations := make([]StationDescriptor, 0, len(stationIDs))
	for _, id := range stationIDs {
		station, err := r.station(id, resolver, logger)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}

	return &FlatConfig{
		Stations: stations,
		Forward:  forward,
		Start:    start,
		Patterns: patterns,
	}, nil
}

// flatReader wraps typed access to an ini file with AccessError reporting.
type flatReader struct {
	path string
	file *ini.File
}

func (r *flatReader) station(id string, resolver area.Resolver, logger *slog.Logger) (*StationDescriptor, error) {
	sec, err := r.getSection(id)
	if err != nil {
		return nil, err
	}

	name, err := r.getString(sec, KeyName)
	if err != nil {
		return nil, err
	}
	lon, err := r.getFloat(sec, KeyLongitude)
	if err != nil {
		return nil, err
	}
	lat, err := r.getFloat(sec, KeyLatitude)
	if err != nil {
		return nil, err
	}
	alt, err := r.getFloat(sec, KeyAltitude)
	if err != nil {
		return nil, err
	}
	areaFile, err := r.getString(sec, KeyAreaFile)
	if err != nil {
		return nil, err
	}
	areaID, err := r.getString(sec, KeyArea)
	if err != nil {
		return nil, err
	}

	candidates, err := resolver.Lookup(areaFile, areaID)
	if err != nil {
		return nil, &AccessError{FilePath: r.path, Section: id, Key: KeyArea, Message: "area lookup failed", Cause: err}
	}
	if len(candidates) == 0 {
		return nil, &AccessError{
			FilePath: r.path,
			Section:  id,
			Key:      KeyArea,
			Message:  "area " + areaID + " not found in " + areaFile,
		}
	}
	if len(candidates) > 1 {
		// No tie-break is defined between duplicate area ids; the first
		// match is used.
		logger.Warn("area lookup returned several definitions, using the first",
			"station", id,
			"area", areaID,
			"area_file", areaFile,
			"matches", len(candidates),
		)
	}

	satellites, err := r.getList(sec, KeySatellites)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]ScorePair, len(satellites))
	for _, sat := range satellites {
		satSec, err := r.getSection(sat)
		if err != nil {
			return nil, err
		}
		night, err := r.getFloat(satSec, KeyNight)
		if err != nil {
			return nil, err
		}
		day, err := r.getFloat(satSec, KeyDay)
		if err != nil {
			return nil, err
		}
		scores[sat] = ScorePair{Night: night, Day: day}
	}

	return &StationDescriptor{
		Location: Location{Longitude: lon, Latitude: lat, Altitude: alt},
		Name:     name,
		Area:     candidates[0],
		Scores:   scores,
	}, nil
}

func (r *flatReader) getSection(name string) (*ini.Section, error) {
	sec, err := r.file.GetSection(name)
	if err != nil {
		return nil, &AccessError{FilePath: r.path, Section: name, Message: "required section is missing", Cause: err}
	}
	return sec, nil
}

func (r *flatReader) getKey(sec *ini.Section, name string) (*ini.Key, error) {
	key, err := sec.GetKey(name)
	if err != nil {
		return nil, &AccessError{FilePath: r.path, Section: sec.Name(), Key: name, Message: "required key is missing", Cause: err}
	}
	return key, nil
}

func (r *flatReader) getString(sec *ini.Section, name string) (string, error) {
	key, err := r.getKey(sec, name)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// getList splits a comma separated value, trimming blanks around items.
// Every item must be non-empty.
func (r *flatReader) getList(sec *ini.Section, name string) ([]string, error) {
	key, err := r.getKey(sec, name)
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(key.String())
	if raw == "" {
		return nil, &AccessError{FilePath: r.path, Section: sec.Name(), Key: name, Message: "list is empty"}
	}
	items := strings.Split(raw, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
		if items[i] == "" {
			return nil, &AccessError{FilePath: r.path, Section: sec.Name(), Key: name, Message: "empty list item"}
		}
	}
	return items, nil
}

func (r *flatReader) getInt(sec *ini.Section, name string) (int, error) {
	key, err := r.getKey(sec, name)
	if err != nil {
		return 0, err
	}
	// Decimal only: a leading zero does not switch base and prefixes are rejected.
	v, err := strconv.Atoi(strings.TrimSpace(key.String()))
	if err != nil {
		return 0, &AccessError{FilePath: r.path, Section: sec.Name(), Key: name, Message: "value is not an integer", Cause: err}
	}
	return v, nil
}

func (r *flatReader) getFloat(sec *ini.Section, name string) (float64, error) {
	key, err := r.getKey(sec, name)
	if err != nil {
		return 0, err
	}
	v, err := key.Float64()
	if err != nil {
		return 0, &AccessError{FilePath: r.path, Section: sec.Name(), Key: name, Message: "value is not a number", Cause: err}
	}
	return v, nil
}
