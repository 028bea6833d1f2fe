// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperchat CLI, a question
// answering assistant for research papers. Queries run in demo mode
// (served from a pre-computed response cache) or live mode (routed to
// prompt-specialized agents backed by the Gemini API).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperchat/internal/agent"
	"github.com/pdiddy/paperchat/internal/broker"
	"github.com/pdiddy/paperchat/internal/cache"
	"github.com/pdiddy/paperchat/internal/gemini"
	"github.com/pdiddy/paperchat/internal/paper"
	"github.com/pdiddy/paperchat/internal/secrets"
	"github.com/pdiddy/paperchat/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paperchat CLI.
var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Question answering assistant for research papers",
	Long: `paperchat answers questions about research papers. It extracts text and
sections from PDFs, routes each question to a specialized responder (math,
code, concept, or quiz), and serves answers either live from the Gemini API
or from a pre-computed cache that needs no credentials.

Typical flow: fetch a paper, generate its demo cache, then ask or chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperchat.yaml or ~/.config/paperchat/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperchat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperchat"))
		}
	}

	viper.SetEnvPrefix("PAPERCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// aiConfig assembles the AI backend settings. Precedence for the key:
// --api-key flag, then config/env (ai.api_key), then .secrets/google-api-key.
func aiConfig(cmd *cobra.Command) types.AIConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("ai.api_key")
	}
	apiKey = secretDefault("google-api-key", apiKey)

	return types.AIConfig{
		Model:      model,
		APIKey:     apiKey,
		MaxRetries: viper.GetInt("ai.max_retries"),
	}
}

// backendFactory wraps Gemini client construction for lazy use by the
// broker. Demo mode never invokes it.
func backendFactory(cfg types.AIConfig) broker.BackendFactory {
	return func() (agent.Backend, error) {
		return gemini.NewClient(cfg)
	}
}

// cacheDir resolves the cache directory from flag or config.
func cacheDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("cache.cache_dir")
	}
	if dir == "" {
		dir = filepath.Join("data", "cached_responses")
	}
	return dir
}

// newBroker builds a broker over the on-disk cache in the given mode.
func newBroker(cmd *cobra.Command, mode types.Mode) (*broker.Broker, error) {
	store, err := cache.Load(cacheDir(cmd))
	if err != nil {
		return nil, err
	}
	return broker.New(mode, store, backendFactory(aiConfig(cmd)))
}

// newParser builds a lazy PDF parser for the given path.
func newParser(pdfPath string) (*paper.Parser, error) {
	converter, err := paper.NewPdftotextConverter()
	if err != nil {
		return nil, err
	}
	return paper.NewParser(pdfPath, converter), nil
}

// paperIDFromPath derives a paper ID from a PDF filename.
func paperIDFromPath(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
