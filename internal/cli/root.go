package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/casefixtures/internal/config"
	"github.com/fjglira/casefixtures/internal/domain"
)

var (
	cfgFile string
	envFile string
	verbose bool
	log     *logrus.Logger
)

// rootCmd is the base command for casefixtures.
var rootCmd = &cobra.Command{
	Use:   "casefixtures",
	Short: "Inspect and create data-driven test case directories",
	Long: `casefixtures works with the case directories read by the
github.com/fjglira/casefixtures/pkg/cases test helpers.

It lists the case files a test resolves to, checks that every case file
decodes, and scaffolds new case directories with a matching test.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return domain.NewError(domain.PhaseConfig, envFile, "failed to load env file", err)
			}
		}
		log = logrus.New()
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(logrus.InfoLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.FileName, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with CASEFIXTURES_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Initialize default logger (overridden in PersistentPreRunE)
	log = logrus.New()
	log.SetOutput(os.Stderr)
}

// loadConfig reads the --config file, or the config file at the module root
// (rootFlag or the module enclosing the working directory) when the flag is
// not given, then applies environment overrides. It returns the file used,
// "" for defaults.
func loadConfig(cmd *cobra.Command, rootFlag string) (*config.Config, string, error) {
	path := cfgFile
	if !cmd.Flags().Changed("config") {
		found, err := findConfig(rootFlag)
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg := config.DefaultConfig()
	if path == "" {
		log.Debugf("No %s found, using defaults", config.FileName)
	} else {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, "", err
		}
	}
	config.ApplyEnv(cfg)
	if !verbose {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err == nil {
			log.SetLevel(level)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// findConfig looks for the config file in the module root, or in the
// working directory outside a module.
func findConfig(rootFlag string) (string, error) {
	root, err := moduleRoot(rootFlag)
	if err != nil {
		log.Debugf("No module root found (%v), looking in the working directory", err)
		root = "."
	}
	return config.Find(root)
}

// NewRootCommand returns the root command; used by tests.
func NewRootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
