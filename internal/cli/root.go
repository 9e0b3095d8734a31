package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
	"github.com/nathfavour/pippin/pkg/config"
	"github.com/nathfavour/pippin/pkg/logging"
)

var (
	cfgFile string

	settings *config.Settings
	selector *brain.Selector
	logger   = zap.NewNop()
)

// flagKeys maps flag names to the viper keys they override.
var flagKeys = map[string]string{
	"delay":   config.KeyDelay,
	"persona": config.KeyPersona,
	"verbose": config.KeyVerbose,
	"addr":    config.KeyServerAddr,
	"ws-addr": config.KeyWSAddr,
}

var rootCmd = &cobra.Command{
	Use:   "pippin",
	Short: "Pippin is a gentle keyword chatbot",
	Long: `Pippin answers from the Wobbly Woods. It matches what you type against a small
set of keyword categories and replies with a canned line, or a random thought
when nothing matches.

Run without arguments to chat in the console.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", config.Version, config.Commit, config.BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := initConfig(cmd.Flags())
		if err != nil {
			return err
		}

		settings, err = config.Load(v)
		if err != nil {
			return err
		}

		logger, err = logging.New(settings.Verbose)
		if err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}

		selector, err = loadBrain(settings.PersonaFile)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pippin.yaml)")
	rootCmd.PersistentFlags().String("persona", "", "HJSON persona file replacing the built-in tables")
	rootCmd.PersistentFlags().Duration("delay", chat.DefaultDelay, "how long Pippin thinks before replying")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

func initConfig(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".pippin")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func loadBrain(personaFile string) (*brain.Selector, error) {
	if personaFile == "" {
		return brain.Default(), nil
	}
	p, err := brain.LoadPersona(personaFile)
	if err != nil {
		return nil, err
	}
	return brain.New(p)
}
