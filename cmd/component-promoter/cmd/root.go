package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yi-nology/component_promoter/biz/service/promotion"
	"github.com/yi-nology/component_promoter/pkg/config"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags. Flag values override the matching config file fields
// only when set explicitly.
var (
	configPath        string
	bucket            string
	sourcePrefix      string
	destinationPrefix string
	profile           string
	mappingFile       string
	componentsFile    string
	region            string
	logLevel          string
	dryRun            bool
)

// errComponentsFailed marks a run where at least one component ended in
// FAILED; it maps to a different exit code than configuration errors.
var errComponentsFailed = errors.New("components failed")

// Exit codes: configuration problems abort before any component is
// touched and exit 2; per-component copy failures finish the run and
// exit 1.
const (
	exitOK           = 0
	exitRunFailed    = 1
	exitConfigFailed = 2
)

var rootCmd = &cobra.Command{
	Use:   "component-promoter",
	Short: "Promote versioned static components between environment prefixes",
	Long: `component-promoter copies versioned static assets between path prefixes
("environments") inside one object-storage bucket. Component identifiers
like "KP-SlotMachine-V2-22" are resolved against a declarative mapping to
concrete object keys; each source object is verified and copied to the
destination prefix unless it is already there.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := buildEnvironment(ctx, cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		identifiers, err := promotion.LoadComponents(env.cfg.Promotion.ComponentsFile)
		if err != nil {
			return err
		}
		if len(identifiers) == 0 {
			fmt.Println("nothing to promote: components file is empty")
			return nil
		}

		release, err := env.acquireLock(ctx)
		if err != nil {
			return err
		}
		defer release()

		result := env.service.Run(ctx, identifiers, dryRun)
		fmt.Print(promotion.FormatReport(result.Report))

		if n := result.Report.FailedCount(); n > 0 {
			return fmt.Errorf("%d component(s) failed: %w", n, errComponentsFailed)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("component-promoter %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "config.yaml", "path to YAML config file")
	pf.StringVar(&bucket, "bucket", config.DefaultBucket, "bucket name")
	pf.StringVar(&sourcePrefix, "source-prefix", "dev", "source path prefix")
	pf.StringVar(&destinationPrefix, "destination-prefix", "stage", "destination path prefix")
	pf.StringVar(&profile, "profile", "", "credential profile (default: ambient chain)")
	pf.StringVar(&mappingFile, "mapping-file", config.DefaultMappingFile, "path to mapping JSON")
	pf.StringVar(&componentsFile, "components-file", config.DefaultComponentsFile, "path to identifiers JSON")
	pf.StringVar(&region, "region", "", "bucket region (default: auto-detected)")
	pf.StringVar(&logLevel, "log-level", "INFO", "verbosity (ERROR, WARN, INFO, DEBUG)")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "no mutating calls")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and maps errors to process exit codes.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err)

	if errors.Is(err, errComponentsFailed) {
		return exitRunFailed
	}
	return exitConfigFailed
}
