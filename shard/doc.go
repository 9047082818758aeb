// Package shard fans a record stream out to N deterministically named sinks.
//
// Open creates one sink per shard in ascending index order and registers
// every sink on a Stack owned by the caller. Closing the Stack closes each
// sink exactly once. If opening shard k fails, shards 0..k-1 are closed
// before Open returns and nothing is left on the caller's Stack.
//
// Which shard receives which record is left to the caller.
package shard
