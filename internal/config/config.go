// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// Workdir holds session snapshots and other local state.
	Workdir    string           `mapstructure:"workdir"`
	Study      StudyConfig      `mapstructure:"study"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
}

type StudyConfig struct {
	NumDefaultCardsToStudy   int  `mapstructure:"num_default_cards_to_study" validate:"min=1"`
	NumCurrentQuestions      int  `mapstructure:"num_current_questions" validate:"min=1"`
	RequiredAnswers          int  `mapstructure:"required_answers" validate:"min=1"`
	RepeatsAfterMistake      int  `mapstructure:"repeats_after_mistake" validate:"min=0"`
	ShuffleQuestions         bool `mapstructure:"shuffle_questions"`
	RadicalsTestMeaning      bool `mapstructure:"radicals_test_meaning"`
	PracticeRadicalsForKanji bool `mapstructure:"practice_radicals_for_kanji"`
	PracticeKanjiForWords    bool `mapstructure:"practice_kanji_for_words"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DictionaryConfig struct {
	CacheDirectory string `mapstructure:"cache_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gaku")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// viper returns defaults verbatim, so the workdir default has to be an
	// expanded path already.
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve the home directory: %w", err)
	}
	v.SetDefault("workdir", filepath.Join(home, ".local", "share", "gaku"))
	v.SetDefault("study.num_default_cards_to_study", 10)
	v.SetDefault("study.num_current_questions", 7)
	v.SetDefault("study.required_answers", 1)
	v.SetDefault("study.repeats_after_mistake", 2)
	v.SetDefault("study.shuffle_questions", true)
	v.SetDefault("study.radicals_test_meaning", true)
	v.SetDefault("study.practice_radicals_for_kanji", true)
	v.SetDefault("study.practice_kanji_for_words", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "gaku")
	v.SetDefault("database.username", "gaku")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("dictionary.cache_directory", filepath.Join("dictionaries", "jisho"))

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
