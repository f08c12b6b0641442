package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowgrid/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that stand in for unset flags,
// e.g. FLOWGRID_LOG_LEVEL for --log-level.
const EnvPrefix = "FLOWGRID"

// Exit codes.
const (
	ExitUsage       = 2
	ExitDiagnostics = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a validated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		cfg    *app.Config
		cfgErr error
	)
	cmd := &cobra.Command{
		Use:   "flowgrid [flags] MODEL_PATH",
		Short: "Instantiate the end-to-end flows of an architecture model",
		Long: `flowgrid elaborates a component model written in HCL into a system
instance and computes every concrete realization of its end-to-end flows.

MODEL_PATH is a single .hcl file or a directory searched for .hcl files.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := resolveFlags(cmd)
			if err != nil {
				return err
			}
			if flags.ModelPath == "" && len(args) > 0 {
				flags.ModelPath = args[0]
			}
			if flags.ModelPath == "" {
				slog.Debug("No model path provided, printing usage and exiting.")
				return cmd.Usage()
			}
			cfg, cfgErr = app.NewConfig(flags)
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	f := cmd.Flags()
	f.StringP("model", "m", "", "Path to the model file or directory.")
	f.String("system", "", "System to instantiate. Required when the model declares more than one.")
	f.String("format", "text", "Report format. Options: 'text' or 'json'.")
	f.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	f.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	f.String("metrics-file", "", "Write Prometheus metrics in text format to this file.")
	f.Bool("strict", false, "Exit with status 3 when any error diagnostic is reported.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if cfgErr != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: cfgErr.Error()}
	}
	if cfg == nil {
		// Help was requested or no model path was given.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// resolveFlags merges explicit flags, FLOWGRID_* environment variables and
// flag defaults, in that order of precedence.
func resolveFlags(cmd *cobra.Command) (app.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return app.Config{}, err
	}

	return app.Config{
		ModelPath:   v.GetString("model"),
		System:      v.GetString("system"),
		Format:      v.GetString("format"),
		LogFormat:   v.GetString("log-format"),
		LogLevel:    v.GetString("log-level"),
		MetricsFile: v.GetString("metrics-file"),
		Strict:      v.GetBool("strict"),
	}, nil
}
