package schedule

// Default values for optional scheduler parameters.
const (
	DefaultMinPass  = 4.0
	DefaultCenterID = "unknown"
	DefaultDumpURL  = ""
)

// schedulerSettings is the "default" section of a merged configuration.
// Pointer fields distinguish an absent key from an explicit zero.
type schedulerSettings struct {
	Station  []string `yaml:"station"`
	Forward  *float64 `yaml:"forward"`
	Start    *float64 `yaml:"start"`
	MinPass  *float64 `yaml:"min_pass"`
	DumpURL  *string  `yaml:"dump_url"`
	CenterID *string  `yaml:"center_id"`
}

func defaultSchedulerSettings() schedulerSettings {
	minPass := DefaultMinPass
	centerID := DefaultCenterID
	dumpURL := DefaultDumpURL
	return schedulerSettings{
		MinPass:  &minPass,
		CenterID: &centerID,
		DumpURL:  &dumpURL,
	}
}
