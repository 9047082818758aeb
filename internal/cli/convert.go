package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hupe1980/oidrecord"
	"github.com/hupe1980/oidrecord/annotation"
	"github.com/hupe1980/oidrecord/labelmap"
	"github.com/hupe1980/oidrecord/promcollector"
	"github.com/hupe1980/oidrecord/tfrecord"
)

func newConvertCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a box annotation CSV into sharded TFRecords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConvert(cmd)
		},
	}

	f := cmd.Flags()
	f.StringP("annotations", "a", "", "Open Images box annotation CSV")
	f.StringP("label-map", "l", "", "label map (.pbtxt, .json or class descriptions .csv)")
	f.StringP("images", "i", "", "image location holding <ImageID>.jpg (dir, s3://bucket/prefix or minio://host/bucket/prefix)")
	f.StringP("output", "o", "", "output base path; shards are named <output>-IIIII-of-NNNNN")
	f.IntP("shards", "n", 1, "number of output shards")
	f.String("compression", "none", "shard compression: none, gzip, zlib, zstd or lz4")
	f.String("router", "hash", "shard routing: hash or round-robin")
	f.Int("workers", 0, "record building goroutines (0 uses GOMAXPROCS)")
	f.Int64("max-fetches", 0, "maximum concurrent image fetches (0 is unbounded)")
	f.Int64("io-limit", 0, "shard write limit in bytes per second (0 is unlimited)")
	f.Bool("skip-missing", false, "skip images whose bytes are missing instead of failing")
	f.Bool("manifest", true, "write <output>.manifest.json")
	f.Bool("progress", true, "show a progress bar")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address while converting")
	f.String("s3-region", "", "AWS region for s3:// locations")
	f.String("s3-endpoint", "", "custom endpoint for s3:// locations")
	f.String("minio-access-key", "", "access key for minio:// locations")
	f.String("minio-secret-key", "", "secret key for minio:// locations")
	f.Bool("minio-secure", true, "use TLS for minio:// locations")

	return cmd
}

func (a *app) runConvert(cmd *cobra.Command) error {
	ctx := cmd.Context()
	v := a.v

	for _, name := range []string{"annotations", "label-map", "images", "output"} {
		if v.GetString(name) == "" {
			return fmt.Errorf("required flag %q not set", name)
		}
	}

	compression, err := tfrecord.ParseCompression(v.GetString("compression"))
	if err != nil {
		return err
	}

	var router oidrecord.Router
	switch r := v.GetString("router"); r {
	case "hash":
		router = oidrecord.HashImageID()
	case "round-robin":
		router = oidrecord.RoundRobin()
	default:
		return fmt.Errorf("invalid router %q", r)
	}

	table, err := readTable(v.GetString("annotations"))
	if err != nil {
		return err
	}

	vocab, err := labelmap.Load(v.GetString("label-map"))
	if err != nil {
		return err
	}

	imageStore, err := openStore(ctx, v, v.GetString("images"))
	if err != nil {
		return err
	}

	outDir, base := splitLocation(v.GetString("output"))
	if base == "" {
		return fmt.Errorf("output %q has no file name", v.GetString("output"))
	}
	outStore, err := openStore(ctx, v, outDir)
	if err != nil {
		return err
	}

	opts := []oidrecord.Option{
		oidrecord.WithNumShards(v.GetInt("shards")),
		oidrecord.WithCompression(compression),
		oidrecord.WithRouter(router),
		oidrecord.WithWorkers(v.GetInt("workers")),
		oidrecord.WithMaxFetches(v.GetInt64("max-fetches")),
		oidrecord.WithIOLimit(v.GetInt64("io-limit")),
		oidrecord.WithSkipMissingImages(v.GetBool("skip-missing")),
		oidrecord.WithManifest(v.GetBool("manifest")),
		oidrecord.WithLogger(a.logger),
	}

	if addr := v.GetString("metrics-addr"); addr != "" {
		collector, stop, err := a.serveMetrics(ctx, addr)
		if err != nil {
			return err
		}
		defer stop()
		opts = append(opts, oidrecord.WithMetricsCollector(collector))
	}

	if v.GetBool("progress") {
		bar := progressbar.NewOptions(len(table.ImageIDs()),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		opts = append(opts, oidrecord.WithProgress(func(n int) { _ = bar.Add(n) }))
	}

	report, err := oidrecord.Convert(ctx, table, vocab, oidrecord.StoreImages(imageStore, ""), outStore, base, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %d records to %d shards (%d boxes kept, %d dropped, %d images skipped) in %s\n",
		report.Records(), report.NumShards, report.BoxesKept, report.BoxesDropped, len(report.SkippedImages),
		report.Duration.Round(time.Millisecond))
	for _, s := range report.Shards {
		fmt.Fprintf(out, "  %s\t%d records\t%d bytes\n", s.Path, s.Records, s.Bytes)
	}
	return nil
}

func readTable(path string) (*annotation.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return annotation.ReadCSV(f)
}

// serveMetrics exposes a fresh registry on addr until stop is called.
func (a *app) serveMetrics(ctx context.Context, addr string) (*promcollector.Collector, func(), error) {
	reg := prometheus.NewRegistry()
	collector, err := promcollector.New(reg)
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.ErrorContext(ctx, "metrics server failed", "error", err)
		}
	}()
	a.logger.InfoContext(ctx, "serving metrics", "addr", ln.Addr().String())

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return collector, stop, nil
}
