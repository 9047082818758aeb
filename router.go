package oidrecord

import "github.com/cespare/xxhash/v2"

// Router picks the shard of a record. seq is the position of the image in
// the table and count is the number of shards.
type Router interface {
	Route(imageID string, seq, count int) int
}

// RouterFunc adapts a function to Router.
type RouterFunc func(imageID string, seq, count int) int

// Route implements Router.
func (f RouterFunc) Route(imageID string, seq, count int) int { return f(imageID, seq, count) }

// HashImageID routes by xxhash of the image id, so an image lands on the
// same shard whatever the table order.
func HashImageID() Router {
	return RouterFunc(func(imageID string, _, count int) int {
		return int(xxhash.Sum64String(imageID) % uint64(count))
	})
}

// RoundRobin routes the i-th image of the table to shard i mod count.
func RoundRobin() Router {
	return RouterFunc(func(_ string, seq, count int) int {
		return seq % count
	})
}
