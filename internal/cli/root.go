// Package cli wires the cobra command surface to the engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/catalogtools/bulkstamp/internal/clock"
	"github.com/catalogtools/bulkstamp/internal/config"
	"github.com/catalogtools/bulkstamp/internal/engine"
	"github.com/catalogtools/bulkstamp/internal/fsops"
	"github.com/catalogtools/bulkstamp/internal/render"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool

	flagOpts = config.Options{}
)

// rootCmd runs one batch: every CSV row becomes one composited image.
var rootCmd = &cobra.Command{
	Use:     "bulkstamp --csv manifest.csv [flags]",
	Version: "dev",
	Short:   "Batch text/logo/QR overlays onto product images from a CSV manifest",
	Long: `bulkstamp composites a text label, a scaled logo image or a QR code onto
product images, one output image per CSV row.

Three-column rows (kind, value, output) overlay onto a single base image
given with --image. Four-column rows (base image, kind, value, output)
each carry their own base image; the column count of the first row decides
which shape the whole manifest uses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context())
	}

	f := rootCmd.Flags()
	f.StringVar(&flagOpts.BaseImage, "image", "", "Base image path (shared-base manifests only)")
	f.StringVar(&flagOpts.CSVPath, "csv", "", "CSV manifest path (required)")
	f.StringVar(&flagOpts.OutputDir, "output-dir", "output", "Output directory")
	f.StringVar(&flagOpts.FontPath, "font", "", "Path to a .ttf/.otf font (required for text rows)")
	f.IntVar(&flagOpts.FontSize, "font-size", 48, "Font size in pt")
	f.StringVar(&flagOpts.HexColor, "color", "#333333", "Text color as 6-digit hex")
	f.StringVar(&flagOpts.Position, "position", "bottom-left", "Anchor: top-left, top-right, bottom-left, bottom-right or center")
	f.IntVar(&flagOpts.OffsetX, "x", 20, "Horizontal offset in px")
	f.IntVar(&flagOpts.OffsetY, "y", 20, "Vertical offset in px")
	f.IntVar(&flagOpts.OverlayWidth, "overlay-size", 150, "Image/QR overlay width in px")
	f.BoolVar(&flagOpts.StrictBounds, "strict-bounds", false, "Fail rows whose overlay would leave the canvas")
	f.BoolVar(&flagOpts.DisableEmoji, "no-emoji", false, "Skip the emoji glyph plugin, render emoji with the font")
	_ = rootCmd.MarkFlagRequired("csv")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the bulkstamp version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

// buildConfig merges flags with .env/environment defaults and validates.
func buildConfig() (*config.Config, error) {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()

	if flagOpts.FontPath == "" {
		flagOpts.FontPath = os.Getenv("BULKSTAMP_FONT")
	}
	if !rootCmd.Flags().Changed("output-dir") {
		if dir := os.Getenv("BULKSTAMP_OUTPUT_DIR"); dir != "" {
			flagOpts.OutputDir = dir
		}
	}
	return config.New(flagOpts)
}

// newLogger builds the stderr console logger. Default level is warn so
// collision and degradation warnings surface without --verbose noise.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// runBatch wires real dependencies together and executes one run.
func runBatch(ctx context.Context) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	glyphs := render.DetectGlyphRenderer(ctx, cfg.DisableEmoji, log)
	if !jsonOutput {
		if glyphs.Name() == "twemoji" {
			PrintSuccess("emoji glyphs enabled (twemoji)")
		} else {
			PrintWarning("emoji glyphs unavailable, emoji will render as font fallback")
		}
	}

	eng := engine.New(fsops.NewRealFS(), &clock.RealClock{}, glyphs, log)

	req := &engine.RunRequest{Config: cfg}
	if !jsonOutput {
		req.OnStart = printStart
		req.OnRow = printRow
	}

	result, err := eng.Run(ctx, req)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println()
	summary := fmt.Sprintf("Done: %d succeeded, %d failed (%.2fs), output in %q",
		result.Succeeded, result.Failed, result.Elapsed.Seconds(), cfg.OutputDir)
	if result.Failed > 0 {
		PrintWarning(summary)
	} else {
		PrintSuccess(summary)
	}
	// Row failures are reported above, not via the exit code.
	return nil
}

// printStart emits the mode banner.
func printStart(info engine.StartInfo) {
	if info.Mode == engine.ModeSharedBase {
		PrintInfo(fmt.Sprintf("Shared base image: %s (%dx%dpx)", info.BasePath, info.BaseW, info.BaseH))
	} else {
		PrintInfo("Per-row base images")
	}
	PrintInfo(fmt.Sprintf("Processing %d rows...", info.Rows))
}

// printRow emits one progress line per row.
func printRow(res engine.RowResult) {
	if res.OK {
		PrintInfo(fmt.Sprintf("  [%d] OK: %s -> %s", res.Ordinal, res.Detail, res.Output))
		return
	}
	PrintDim(fmt.Sprintf("  [%d] SKIP: %s", res.Ordinal, res.Err))
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
