package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/config"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/log"
)

var (
	envFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "marvin",
	Short: "Marvin voice assistant with object and emotion detection",
	Long: `Marvin classifies spoken or typed commands and answers them: greetings,
web and encyclopedia lookups, weather, news, translation, jokes, navigation,
camera object detection and simulated emotion readouts. Pro mode hands
open-ended questions to a language model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(envFile)
		if err != nil {
			return err
		}
		if err := bindFlags(cmd, v); err != nil {
			return err
		}

		cfg = config.FromViper(v)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		log.Init(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"listen":     "listen",
	"data-dir":   "data_dir",
	"log-level":  "log_level",
	"log-format": "log_format",
	"llm-mode":   "llm.mode",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	pf.String("listen", config.DefaultListen, "dashboard listen address")
	pf.String("data-dir", "", "directory for the persistent store (default ~/.marvin)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("llm-mode", "proxy", "pro mode backend: proxy or direct")

	rootCmd.AddCommand(serveCmd, askCmd, replCmd, remoteCmd)
}

// bindFlags lets explicitly set flags override every other source.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}
