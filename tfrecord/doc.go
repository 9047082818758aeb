// Package tfrecord reads and writes TFRecord files.
//
// A TFRecord file is a sequence of length-delimited records:
//
//	uint64 length
//	uint32 masked crc32c of length
//	byte   data[length]
//	uint32 masked crc32c of data
//
// All integers are little-endian. Files may be wrapped as a whole in a
// compression stream. GZIP and ZLIB are readable by TensorFlow; ZSTD and LZ4
// are extensions for pipelines that read shards back with this package.
//
// A Writer is not safe for concurrent use. Give every shard its own writer.
package tfrecord
