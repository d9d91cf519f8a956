package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"image-filter-studio/internal/app"
	"image-filter-studio/internal/config"
	"image-filter-studio/internal/logger"

	"github.com/spf13/cobra"
)

// state is filled by the root PersistentPreRunE and shared by every
// subcommand.
type state struct {
	envFile    string
	logLevel   string
	logFormat  string
	codec      string
	maxHistory int
	seed       uint64

	cfg      config.Config
	logger   logger.Logger
	services *app.Services
}

// NewRootCommand builds the command tree. Running it without a subcommand
// opens the desktop window.
func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:   "image-filter-studio",
		Short: "Interactive image filtering with undo history",
		Long: `image-filter-studio loads a raster image, applies noise, smoothing and
binary morphology transforms one at a time, and keeps an undo history.

Without a subcommand it opens the desktop window.`,
		Version:       app.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if st.services != nil {
				st.services.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), st)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf(
		"image-filter-studio %s (%s/%s, %s)\n",
		app.AppVersion, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	flags := root.PersistentFlags()
	flags.StringVar(&st.envFile, "env-file", ".env", "dotenv file read before the environment")
	flags.StringVar(&st.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.StringVar(&st.logFormat, "log-format", "", "console or json (overrides LOG_FORMAT)")
	flags.StringVar(&st.codec, "codec", "", "std or opencv (overrides IMAGEFILTER_CODEC)")
	flags.IntVar(&st.maxHistory, "max-history", 0, "undo depth, 0 keeps everything (overrides IMAGEFILTER_MAX_HISTORY)")
	flags.Uint64Var(&st.seed, "seed", 0, "seed for the noise transforms (overrides IMAGEFILTER_NOISE_SEED)")

	root.AddCommand(newGUICommand(st), newApplyCommand(st), newListCommand(st))
	return root
}

func (st *state) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(st.envFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	flags := cmd.Flags()
	override := config.Config{}
	if flags.Changed("log-format") {
		override.LogFormat = st.logFormat
	}
	if flags.Changed("codec") {
		override.Codec = st.codec
	}
	if flags.Changed("seed") {
		seed := st.seed
		override.NoiseSeed = &seed
	}
	cfg.Merge(&override)

	// Zero is a meaningful value for both, so Merge cannot carry them.
	if flags.Changed("max-history") {
		if st.maxHistory < 0 {
			return fmt.Errorf("--max-history must be >= 0, got %d", st.maxHistory)
		}
		cfg.MaxHistory = st.maxHistory
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = logger.ParseLevel(st.logLevel); err != nil {
			return err
		}
	}

	st.cfg = cfg
	st.logger = logger.New(cfg.LogFormat, cfg.LogLevel)
	st.services, err = app.NewServices(cfg, st.logger)
	return err
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
