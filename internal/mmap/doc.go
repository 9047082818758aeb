// Package mmap provides read-only memory-mapped file access.
//
// Shard files are read back front to back, so a mapping is usually advised
// with [AccessSequential] and consumed through [Mapping.Reader]:
//
//	m, err := mmap.Open("train.tfrecord-00003-of-00010")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	r := m.Reader()
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile; Advise is a no-op there.
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap
