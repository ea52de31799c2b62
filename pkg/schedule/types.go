package schedule

import "pytroll-hq/schedconf/pkg/area"

// Satellite is a satellite that stations may receive, with the scores
// used to rank its passes by night and by day.
type Satellite struct {
	Name                    string  `json:"name" yaml:"name"`
	Night                   float64 `json:"night" yaml:"night"`
	Day                     float64 `json:"day" yaml:"day"`
	ScheduleName            string  `json:"schedule_name,omitempty" yaml:"schedule_name,omitempty"`
	InternationalDesignator string  `json:"international_designator,omitempty" yaml:"international_designator,omitempty"`
}

// Station is a receiving ground station.
//
// Satellites is not set by the factory. It is attached afterwards, once
// every satellite of the configuration exists.
type Station struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Altitude  float64 `json:"altitude" yaml:"altitude"`

	// AreaID names the area of interest; Area is its resolved definition
	// and is only set when AreaFile is given.
	AreaID   string           `json:"area_id,omitempty" yaml:"area_id,omitempty"`
	AreaFile string           `json:"area_file,omitempty" yaml:"area_file,omitempty"`
	Area     *area.Definition `json:"area,omitempty" yaml:"area,omitempty"`

	// MinPass overrides the scheduler's minimum pass duration when set
	MinPass *float64 `json:"min_pass,omitempty" yaml:"min_pass,omitempty"`

	// LocalHorizon is the elevation in degrees below which passes are ignored
	LocalHorizon float64 `json:"local_horizon,omitempty" yaml:"local_horizon,omitempty"`

	Satellites []*Satellite `json:"satellites" yaml:"satellites"`
}

// SatelliteNames returns the names of the attached satellites in order.
func (s *Station) SatelliteNames() []string {
	names := make([]string, len(s.Satellites))
	for i, sat := range s.Satellites {
		names[i] = sat.Name
	}
	return names
}

// SchedulerParams are the arguments of Factory.NewScheduler.
type SchedulerParams struct {
	// Stations in scheduling order
	Stations []*Station

	// MinPass is the minimum pass duration in minutes
	MinPass float64

	// Forward is the length of the scheduling window in hours
	Forward float64

	// Start is the offset of the window start from now, in hours
	Start float64

	// DumpURL is where schedules are published, empty for none
	DumpURL string

	// Patterns maps pattern names to output patterns
	Patterns map[string]any

	// CenterID identifies the producing centre
	CenterID string
}

// Scheduler is the configured scheduling engine input.
type Scheduler struct {
	Stations []*Station     `json:"stations" yaml:"stations"`
	MinPass  float64        `json:"min_pass" yaml:"min_pass"`
	Forward  float64        `json:"forward" yaml:"forward"`
	Start    float64        `json:"start" yaml:"start"`
	DumpURL  string         `json:"dump_url,omitempty" yaml:"dump_url,omitempty"`
	Patterns map[string]any `json:"patterns" yaml:"patterns"`
	CenterID string         `json:"center_id" yaml:"center_id"`
}

// Station returns the station with the given id.
func (s *Scheduler) Station(id string) (*Station, bool) {
	for _, st := range s.Stations {
		if st.ID == id {
			return st, true
		}
	}
	return nil, false
}
