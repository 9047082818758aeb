// Package annotation reads Open Images style bounding box tables and groups
// their rows by image.
package annotation
