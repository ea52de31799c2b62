// Package schedule turns a merged hierarchical configuration into the
// object graph used by the scheduling engine: satellites, the stations
// receiving them and the scheduler holding the stations in order.
//
// Construction is delegated to a Factory so that engines can supply their
// own types; DefaultFactory builds the types defined here.
//
//	res, err := config.LoadHierarchical("schedule.yaml", "site.yaml")
//	if err != nil {
//	    return err
//	}
//	sched, err := schedule.Build(res, schedule.NewDefaultFactory(nil, logger))
//
// Build constructs every satellite before any station so that stations can
// reference satellites regardless of their order in the file.
package schedule
