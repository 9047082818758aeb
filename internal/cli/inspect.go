package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/oidrecord"
	"github.com/hupe1980/oidrecord/codec"
	"github.com/hupe1980/oidrecord/example"
	"github.com/hupe1980/oidrecord/tfrecord"
)

// errLimitReached stops shard iteration early.
var errLimitReached = errors.New("limit reached")

// inspectedRecord is the JSON form of one record.
type inspectedRecord struct {
	SourceID string    `json:"source_id"`
	Filename string    `json:"filename"`
	Bytes    int       `json:"image_bytes"`
	Labels   []int64   `json:"labels"`
	Texts    []string  `json:"texts"`
	YMin     []float32 `json:"ymin"`
	XMin     []float32 `json:"xmin"`
	YMax     []float32 `json:"ymax"`
	XMax     []float32 `json:"xmax"`
	Keys     []string  `json:"keys"`
}

func newInspectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <shard>",
		Short: "Print the records of a shard, or the manifest of an output base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.String("compression", "none", "shard compression: none, gzip, zlib, zstd or lz4")
	f.Int("limit", 0, "print at most this many records (0 prints all)")
	f.Bool("json", false, "print one JSON object per record")
	f.Bool("manifest", false, "treat the argument as an output base and print its manifest")

	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, location string) error {
	ctx := cmd.Context()
	v := a.v
	out := cmd.OutOrStdout()

	dir, name := splitLocation(location)
	if name == "" {
		return fmt.Errorf("%q has no file name", location)
	}
	store, err := openStore(ctx, v, dir)
	if err != nil {
		return err
	}

	if v.GetBool("manifest") {
		report, err := oidrecord.ReadManifest(ctx, store, name, nil)
		if err != nil {
			return err
		}
		data, err := codec.GoJSON{}.MarshalIndent(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	compression, err := tfrecord.ParseCompression(v.GetString("compression"))
	if err != nil {
		return err
	}

	limit := v.GetInt("limit")
	n := 0
	err = oidrecord.ReadShard(ctx, store, name, func(ex *example.Example) error {
		if limit > 0 && n >= limit {
			return errLimitReached
		}
		n++
		if v.GetBool("json") {
			return printJSON(out, ex)
		}
		return printText(out, ex)
	}, tfrecord.WithCompression(compression))
	if err != nil && !errors.Is(err, errLimitReached) {
		return err
	}

	a.logger.DebugContext(ctx, "inspected shard", "shard", location, "records", n)
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func imageBytes(ex *example.Example) int {
	n := 0
	for _, b := range ex.Bytes(example.KeyEncoded) {
		n += len(b)
	}
	return n
}

func printText(w io.Writer, ex *example.Example) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%d bytes\t%d boxes\t[%s]\n",
		first(ex.Strings(example.KeySourceID)),
		first(ex.Strings(example.KeyFilename)),
		imageBytes(ex),
		ex.Boxes(),
		strings.Join(ex.Strings(example.KeyClassText), " "),
	)
	return err
}

func printJSON(w io.Writer, ex *example.Example) error {
	data, err := codec.Default.Marshal(inspectedRecord{
		SourceID: first(ex.Strings(example.KeySourceID)),
		Filename: first(ex.Strings(example.KeyFilename)),
		Bytes:    imageBytes(ex),
		Labels:   ex.Int64s(example.KeyClassLabel),
		Texts:    ex.Strings(example.KeyClassText),
		YMin:     ex.Floats(example.KeyYMin),
		XMin:     ex.Floats(example.KeyXMin),
		YMax:     ex.Floats(example.KeyYMax),
		XMax:     ex.Floats(example.KeyXMax),
		Keys:     ex.Keys(),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
