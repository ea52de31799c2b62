// Schedconf reads and checks ground station scheduling configuration.
//
// Configuration is either hierarchical (YAML or TOML, possibly split over
// several files that are merged in order) or a legacy flat file of named
// sections. The format of a single file is detected automatically.
//
// Usage:
//
//	# Print the merged configuration
//	schedconf show -c base.yaml -c site.yaml
//
//	# Check that a configuration assembles into a scheduler
//	schedconf validate -c schedule.yaml
//
//	# Keep a configuration loaded, reloading on change and every 10 minutes
//	schedconf watch -c schedule.yaml --schedule "@every 10m" --metrics-addr :9090
//
//	# Show version information
//	schedconf version
package main

func main() {
	Execute()
}
