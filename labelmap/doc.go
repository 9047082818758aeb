// Package labelmap loads label vocabularies.
//
// A Map assigns every label name a unique nonnegative class id. Maps are
// read-only once built and safe for concurrent lookups. Supported sources are
// object detection label_map.pbtxt files, JSON objects of name to id, and
// Open Images class-descriptions CSV files.
package labelmap
