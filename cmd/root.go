package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "profile-advisor"

	defaultSession    = "default"
	defaultSessionDir = "sessions"
)

type Config struct {
	SessionDir string       `mapstructure:"session-dir"`
	AI         *AIConfig    `mapstructure:"ai"`
	Apify      *ApifyConfig `mapstructure:"apify"`
	Jobs       *JobsConfig  `mapstructure:"jobs"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string  `mapstructure:"api-key"`
	APIKeyFile   string  `mapstructure:"api-key-file"`
	Model        string  `mapstructure:"model"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxRetries   int     `mapstructure:"max-retries"`
	MaxLogLength int     `mapstructure:"max-log-length"`
}

type ApifyConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	ActorID   string `mapstructure:"actor-id"`
}

// JobsConfig controls where job descriptions come from.
type JobsConfig struct {
	SearchOnline bool   `mapstructure:"search-online"`
	Areas        []int  `mapstructure:"areas"`
	UserAgent    string `mapstructure:"user-agent"`
	TokenFile    string `mapstructure:"token-file"`
	Exclude      *struct {
		Employers []string `mapstructure:"employers"`
	} `mapstructure:"exclude"`
	// DisableFilters maps a screening filter name to the reason it is off.
	DisableFilters map[string]string `mapstructure:"disable-filters"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "profile-advisor reviews a professional profile and gives career advice with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var envBindings = map[string]string{
	"ai.gemini.api-key":      "GEMINI_API_KEY",
	"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	"apify.token":            "APIFY_API_TOKEN",
	"apify.token-file":       "APIFY_TOKEN_FILE",
	"jobs.token-file":        "HH_TOKEN_FILE",
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is profile-advisor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("session", "s", defaultSession, "session id to continue")
	rootCmd.PersistentFlags().Bool("new-session", false, "start a session with a fresh random id")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("session", rootCmd.PersistentFlags().Lookup("session"))
	viper.BindPFlag("new-session", rootCmd.PersistentFlags().Lookup("new-session"))
}

func initConfig() {
	// Secrets usually live in .env during development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.SessionDir == "" {
		config.SessionDir = defaultSessionDir
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Apify == nil {
		config.Apify = &ApifyConfig{}
	}
	if config.Jobs == nil {
		config.Jobs = &JobsConfig{}
	}

	return config, nil
}
