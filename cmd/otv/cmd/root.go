package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTraceVLSI/internal/prefs"
	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/tech"
)

var (
	// Global flags
	verbose    bool
	configFile string
	prefsFile  string

	// Set up by PersistentPreRunE for the running command
	cfg    *viper.Viper
	logger = log.New(io.Discard, "", 0)
)

var rootCmd = &cobra.Command{
	Use:   "otv",
	Short: "OpenTraceVLSI - layout generators for VLSI design libraries",
	Long: `OpenTraceVLSI (otv) places generated geometry into design libraries.

Settings are read from flags, OTV_* environment variables and an optional
otv.yaml in the working directory or the user config directory.

Examples:
  otv annulus --outer 10 --inner 4 --layer Metal-1   # Print a ring outline
  otv annulus --lib work.lib --cell ring --sweep 90  # Place a quarter ring
  otv annulus view --outer 20 --segments 64          # Preview in a window
  otv tech list                                      # Show known technologies
  otv lib show work.lib                              # Inspect a library`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&configFile, "config", "", "config file (default otv.yaml in . or the user config dir)")
	pf.StringVar(&prefsFile, "prefs", "", "preferences file (default in the user config dir)")
	pf.StringP("technology", "t", "mocmos", "technology to use")
	pf.String("tech-dir", "", "directory with additional .tech files")
	pf.Bool("strict", false, "reject out-of-range parameters instead of clamping them")
}

// initConfig layers config file, environment and flags into cfg.
func initConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("OTV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	} else {
		v.SetConfigName("otv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "otv"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg = v
	if v.GetBool("verbose") {
		logger = log.New(os.Stderr, "otv: ", log.LstdFlags|log.Lshortfile)
		if used := v.ConfigFileUsed(); used != "" {
			logger.Printf("using config %s", used)
		}
	} else {
		logger = log.New(io.Discard, "", 0)
	}
	return nil
}

// loadTechnologies returns the built-in technologies plus those in tech-dir.
func loadTechnologies() (*tech.MemoryRepository, error) {
	repo, err := tech.DefaultRepository()
	if err != nil {
		return nil, err
	}
	if dir := cfg.GetString("tech-dir"); dir != "" {
		logger.Printf("loading technologies from %s", dir)
		if err := repo.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func prefsPath() (string, error) {
	if prefsFile != "" {
		return prefsFile, nil
	}
	return prefs.DefaultPath()
}
