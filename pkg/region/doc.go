// Package region maps the region selector header to a regional actor.
//
// There are eight regions, fixed at process start:
//
//	wnam  Western North America (default)
//	enam  Eastern North America
//	weur  Western Europe         (EU jurisdiction)
//	eeur  Eastern Europe         (EU jurisdiction)
//	apac  Asia Pacific
//	oc    Oceania
//	af    Africa
//	me    Middle East
//
// Each region has exactly one Actor for the life of the process. The actor
// owns the region's egress client, so the same region always leaves through
// the same network path. An actor serializes the non-I/O part of its
// requests with a single-slot turn; the outbound call runs without the turn,
// so many requests can be in flight on one actor while their handler logic
// never interleaves. Actors of different regions share nothing mutable.
package region
