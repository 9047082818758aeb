// Package example models tf.Example records for object detection.
//
// An Example is an immutable map from feature key to a typed list of values.
// FromAnnotations builds one Example per image from its annotation rows and
// a label vocabulary. Marshal produces the tf.Example protobuf wire format
// with deterministic key order, so identical inputs give identical bytes.
package example
