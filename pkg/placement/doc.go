// Package placement observes where each region's egress actually leaves
// from.
//
// A probe fetches a trace endpoint through every regional egress client.
// The endpoint answers with newline separated key=value pairs:
//
//	fl=29f1
//	ip=198.51.100.7
//	colo=FRA
//	loc=DE
//
// The colo and ip values are cached per region in a Registry, exported as
// metrics, and written in the "processing at placement" line of every
// request. Until a region has been probed successfully its placement is
// "unknown".
//
// Probes run on a cron schedule (robfig/cron syntax, descriptors such as
// "@every 5m" allowed) once at start and then on every tick.
package placement
