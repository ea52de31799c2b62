// Package config reads ground station scheduling configuration.
//
// Two on-disk formats are supported: a hierarchical format (YAML, or TOML
// for files ending in .toml) that may be split over several files, and a
// legacy flat format of named sections holding key = value pairs.
//
// # Reading Configuration
//
// When the format of a file is not known in advance use ReadConfig, which
// tries the hierarchical format first and falls back to the flat format
// when the content does not parse:
//
//	res, err := config.ReadConfig("schedule.yaml")
//	if err != nil {
//	    return err
//	}
//	switch r := res.(type) {
//	case *config.HierarchicalResult:
//	    sched, err := schedule.Build(r.Config, factory)
//	case *config.FlatResult:
//	    for _, st := range r.Config.Stations { ... }
//	}
//
// Callers that know the format should call LoadHierarchical or LoadFlat
// directly; this avoids parsing the file twice and gives format specific
// errors.
//
// # Merging
//
// Hierarchical files are merged in argument order:
//
//	cfg, err := config.LoadHierarchical("base.yaml", "site.yaml")
//
// Nested mappings present in both files are merged key by key. Any other
// value from a later file replaces the earlier one outright; lists are
// replaced, never concatenated. Merge works on the Mapping interface, so
// trees from any decoder can be combined.
//
// # Hierarchical Layout
//
//	satellites:
//	  noaa-19:
//	    night: 0.1
//	    day: 0.3
//	stations:
//	  nrk:
//	    name: Norrkoping
//	    longitude: 16.148649
//	    latitude: 58.581844
//	    altitude: 0.052765
//	    satellites: [noaa-19]
//	pattern:
//	  dir_output: /data/schedules
//	default:
//	  station: [nrk]
//	  forward: 12
//	  start: 0.5
//
// # Flat Layout
//
//	[default]
//	station = nrk
//	forward = 12
//	start = 0.5
//
//	[pattern]
//	dir_output = /data/schedules
//
//	[nrk]
//	name = Norrkoping
//	longitude = 16.148649
//	latitude = 58.581844
//	altitude = 0.052765
//	area_file = areas.yaml
//	area = euron1
//	satellites = noaa-19
//
//	[noaa-19]
//	night = 0.1
//	day = 0.3
//
// # Errors
//
// A *LoadError means a file could not be opened or read, a *ParseError
// means hierarchical content is malformed, and an *AccessError means a
// required section, key or value is missing or has the wrong type. Nothing
// is retried and no partial configuration is returned.
package config
