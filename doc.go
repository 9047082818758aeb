// Package oidrecord converts Open Images bounding box annotations into
// sharded TFRecord files of tf.Example records.
//
// # Quick Start
//
//	table, _ := annotation.ReadCSV(csvFile)
//	vocab, _ := labelmap.Load("label_map.pbtxt")
//
//	store := blobstore.NewLocalStore("./out")
//	images := oidrecord.StoreImages(blobstore.NewLocalStore("./images"), "")
//
//	report, err := oidrecord.Convert(ctx, table, vocab, images, store, "train.tfrecord",
//	    oidrecord.WithNumShards(10),
//	    oidrecord.WithManifest(true),
//	)
//
// This writes train.tfrecord-00000-of-00010 through
// train.tfrecord-00009-of-00010 and train.tfrecord.manifest.json.
//
// # Building Blocks
//
// Convert composes smaller packages that can be used on their own:
//
//   - annotation reads box tables and groups rows by image.
//   - labelmap loads label vocabularies.
//   - example builds one tf.Example per image (example.FromAnnotations).
//   - shard opens N sinks with deterministic names and closes them together.
//   - tfrecord frames records with checksums and optional compression.
//   - blobstore abstracts local disk, memory, S3 and MinIO.
//
// # Routing
//
// By default an image is routed to shard xxhash(image_id) mod N, so its shard
// does not depend on table order. RoundRobin distributes by table position.
//
// # Observability
//
// Use WithLogger for structured logging and WithMetricsCollector to collect
// metrics (see package promcollector for Prometheus).
package oidrecord
