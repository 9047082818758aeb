// Package resource limits the shared resources of a conversion run.
//
// A Controller bounds two things:
//
//   - concurrent image fetches (remote stores throttle aggressively)
//   - bytes per second written into shard sinks
//
// A nil *Controller is valid and imposes no limits.
package resource
