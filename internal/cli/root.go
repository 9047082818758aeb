package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/oidrecord"
)

// Version is set at build time via -ldflags "-X".
var Version = "dev"

// envPrefix prefixes every environment variable read by the CLI.
const envPrefix = "OIDRECORD"

// app carries state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	logger *oidrecord.Logger
}

// NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "oidrecord",
		Short: "Convert Open Images box annotations into sharded TFRecords",
		Long: `Convert Open Images box annotations into sharded TFRecords:
  oidrecord convert --annotations boxes.csv --label-map label_map.pbtxt --images ./images --output out/train.tfrecord --shards 10
  oidrecord inspect out/train.tfrecord-00000-of-00010`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newConvertCommand(a), newInspectCommand(a), newVersionCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// init binds flags, environment and config file, then builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfg, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q", a.v.GetString("log-level"))
	}

	switch format := a.v.GetString("log-format"); format {
	case "text":
		a.logger = oidrecord.NewTextLogger(cmd.ErrOrStderr(), level)
	case "json":
		a.logger = oidrecord.NewJSONLogger(cmd.ErrOrStderr(), level)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	if f := a.v.ConfigFileUsed(); f != "" {
		a.logger.Debug("using config file", "path", f)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "oidrecord %s\n", Version)
			return err
		},
	}
}
