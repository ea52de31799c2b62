package schedule

import (
	"fmt"

	"dario.cat/mergo"

	"pytroll-hq/schedconf/pkg/config"
)

// Top-level keys of a hierarchical configuration.
const (
	KeySatellites = "satellites"
	KeyStations   = "stations"
	KeyPattern    = "pattern"
	KeyDefault    = "default"
)

// Build assembles a Scheduler from a merged hierarchical configuration.
//
// All satellites are constructed first. Stations are then constructed
// without their satellite list, and the already built satellites they name
// are attached in listed order. The scheduler receives the stations in the
// order of default.station. Optional scheduler parameters (min_pass,
// dump_url, center_id) take their documented defaults.
//
// A station naming an unknown satellite, a default.station entry naming an
// unknown station, or a missing required key yields an *config.AccessError.
func Build(cfg config.Fragment, f Factory) (*Scheduler, error) {
	satCfg, err := requireSection(cfg, KeySatellites)
	if err != nil {
		return nil, err
	}
	stationCfg, err := requireSection(cfg, KeyStations)
	if err != nil {
		return nil, err
	}
	patternCfg, err := requireSection(cfg, KeyPattern)
	if err != nil {
		return nil, err
	}
	defaultCfg, err := requireSection(cfg, KeyDefault)
	if err != nil {
		return nil, err
	}

	satellites, err := buildSatellites(satCfg, f)
	if err != nil {
		return nil, err
	}

	stations, err := buildStations(stationCfg, satellites, f)
	if err != nil {
		return nil, err
	}

	settings, err := resolveSettings(defaultCfg)
	if err != nil {
		return nil, err
	}

	ordered := make([]*Station, 0, len(settings.Station))
	for _, id := range settings.Station {
		st, ok := stations[id]
		if !ok {
			return nil, &config.AccessError{
				Section: KeyDefault,
				Key:     "station",
				Message: fmt.Sprintf("station %q is not defined under %s", id, KeyStations),
			}
		}
		ordered = append(ordered, st)
	}

	patterns := make(map[string]any, len(patternCfg))
	for k, v := range patternCfg {
		patterns[k] = v
	}

	return f.NewScheduler(SchedulerParams{
		Stations: ordered,
		MinPass:  *settings.MinPass,
		Forward:  *settings.Forward,
		Start:    *settings.Start,
		DumpURL:  *settings.DumpURL,
		Patterns: patterns,
		CenterID: *settings.CenterID,
	})
}

func buildSatellites(satCfg config.Fragment, f Factory) (map[string]*Satellite, error) {
	satellites := make(map[string]*Satellite, len(satCfg))
	for _, name := range satCfg.Keys() {
		params, err := paramsOf(satCfg, KeySatellites, name)
		if err != nil {
			return nil, err
		}
		sat, err := f.NewSatellite(name, params)
		if err != nil {
			return nil, fmt.Errorf("satellite %q: %w", name, err)
		}
		satellites[name] = sat
	}
	return satellites, nil
}

func buildStations(stationCfg config.Fragment, satellites map[string]*Satellite, f Factory) (map[string]*Station, error) {
	stations := make(map[string]*Station, len(stationCfg))
	for _, id := range stationCfg.Keys() {
		params, err := paramsOf(stationCfg, KeyStations, id)
		if err != nil {
			return nil, err
		}
		section := KeyStations + "." + id

		names, err := stringList(params, section, KeySatellites)
		if err != nil {
			return nil, err
		}

		ctorParams := make(config.Fragment, len(params))
		for k, v := range params {
			if k != KeySatellites {
				ctorParams[k] = v
			}
		}

		st, err := f.NewStation(id, ctorParams)
		if err != nil {
			return nil, fmt.Errorf("station %q: %w", id, err)
		}

		refs := make([]*Satellite, 0, len(names))
		for _, name := range names {
			sat, ok := satellites[name]
			if !ok {
				return nil, &config.AccessError{
					Section: section,
					Key:     KeySatellites,
					Message: fmt.Sprintf("satellite %q is not defined under %s", name, KeySatellites),
				}
			}
			refs = append(refs, sat)
		}
		st.Satellites = refs

		stations[id] = st
	}
	return stations, nil
}

// resolveSettings reads the default section and fills optional parameters
// that are absent with their defaults.
func resolveSettings(defaultCfg config.Fragment) (schedulerSettings, error) {
	var settings schedulerSettings
	if err := decodeLoose(KeyDefault, defaultCfg, &settings); err != nil {
		return settings, err
	}

	if _, ok := defaultCfg["station"]; !ok {
		return settings, config.MissingKey(KeyDefault, "station")
	}
	if settings.Forward == nil {
		return settings, config.MissingKey(KeyDefault, "forward")
	}
	if settings.Start == nil {
		return settings, config.MissingKey(KeyDefault, "start")
	}

	if err := mergo.Merge(&settings, defaultSchedulerSettings(), mergo.WithoutDereference); err != nil {
		return settings, fmt.Errorf("applying scheduler defaults: %w", err)
	}
	return settings, nil
}

func requireSection(cfg config.Fragment, key string) (config.Fragment, error) {
	if _, ok := cfg[key]; !ok {
		return nil, config.MissingKey("", key)
	}
	section, ok := cfg.Section(key)
	if !ok {
		return nil, &config.AccessError{Key: key, Message: "value is not a mapping"}
	}
	return section, nil
}

// paramsOf returns the parameter mapping stored under parent.key. An empty
// value counts as no parameters.
func paramsOf(parentCfg config.Fragment, parent, key string) (config.Fragment, error) {
	if parentCfg[key] == nil {
		return config.Fragment{}, nil
	}
	params, ok := parentCfg.Section(key)
	if !ok {
		return nil, &config.AccessError{Section: parent, Key: key, Message: "parameters are not a mapping"}
	}
	return params, nil
}

// stringList reads a required list of strings.
func stringList(params config.Fragment, section, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok {
		return nil, config.MissingKey(section, key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &config.AccessError{Section: section, Key: key, Message: fmt.Sprintf("expected a list, got %T", raw)}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &config.AccessError{Section: section, Key: key, Message: fmt.Sprintf("list item %v is not a string", item)}
		}
		out = append(out, s)
	}
	return out, nil
}
