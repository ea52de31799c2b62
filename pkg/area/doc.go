// Package area resolves geographic area definitions referenced by station
// configuration.
//
// A station names an area file and an area id; a Resolver turns that pair
// into the matching Definitions. Callers that need a single area take the
// first match.
//
// # File Resolver
//
// FileResolver reads YAML area files in the layout used by satellite
// processing tools:
//
//	euron1:
//	  description: Northern Europe - 1km
//	  projection:
//	    proj: stere
//	    lat_0: 90.0
//	    lon_0: 0.0
//	  shape:
//	    height: 3072
//	    width: 3072
//	  area_extent:
//	    lower_left_xy: [-1000000.0, -4500000.0]
//	    upper_right_xy: [2072000.0, -1428000.0]
//	    units: m
//
// A file may hold several YAML documents; an id defined in more than one
// document yields one Definition per document, in file order.
//
// # Memory Resolver
//
// MemoryResolver serves definitions registered in code and is mainly
// useful in tests.
package area
