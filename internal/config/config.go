// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"

	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"
	"github.com/spf13/viper"

	"github.com/hacksm-project/hacksm/internal/core"
)

// Config holds the global configuration for the application.
type Config struct {
	Log    logx.LoggingConfig `yaml:"log" json:"log"`
	Hacksm HacksmConfig       `yaml:"hacksm" json:"hacksm"`
}

// HacksmConfig represents the `hacksm` configuration block shared by all
// three binaries: the content store location, the session names each binds
// its recoverable lock under, and the timing knobs (quiescence gap, recall
// delay, poll interval, anti-thrash window).
type HacksmConfig struct {
	StoreBasePath      string        `yaml:"storeBasePath" json:"storeBasePath"`
	SessionNameDaemon  string        `yaml:"sessionNameDaemon" json:"sessionNameDaemon"`
	SessionNameMigrate string        `yaml:"sessionNameMigrate" json:"sessionNameMigrate"`
	SessionNameLister  string        `yaml:"sessionNameLister" json:"sessionNameLister"`
	QuiescenceDelay    time.Duration `yaml:"quiescenceDelay" json:"quiescenceDelay"`
	RecallDelayCeiling time.Duration `yaml:"recallDelayCeiling" json:"recallDelayCeiling"`
	PollInterval       time.Duration `yaml:"pollInterval" json:"pollInterval"`
	AntiThrashWindow   time.Duration `yaml:"antiThrashWindow" json:"antiThrashWindow"`
	ForkPerEvent       bool          `yaml:"forkPerEvent" json:"forkPerEvent"`
	NonBlocking        bool          `yaml:"nonBlocking" json:"nonBlocking"`
	QuiescenceRecheck  bool          `yaml:"quiescenceRecheck" json:"quiescenceRecheck"`
}

// Validate checks that the hacksm configuration block is internally consistent.
func (h *HacksmConfig) Validate() error {
	if h.StoreBasePath == "" {
		return errorx.IllegalArgument.New("hacksm.storeBasePath must not be empty")
	}
	if h.QuiescenceDelay < 0 || h.RecallDelayCeiling < 0 || h.PollInterval < 0 || h.AntiThrashWindow < 0 {
		return errorx.IllegalArgument.New("hacksm timing values must not be negative")
	}
	return nil
}

// Validate validates all configuration fields to ensure they are safe and secure.
func (c Config) Validate() error {
	return c.Hacksm.Validate()
}

var globalConfig = Config{
	Log: logx.LoggingConfig{
		Level:          "info",
		ConsoleLogging: true,
		FileLogging:    false,
	},
	Hacksm: HacksmConfig{
		StoreBasePath:      core.DefaultStoreBasePath,
		SessionNameDaemon:  core.DefaultSessionNameDaemon,
		SessionNameMigrate: core.DefaultSessionNameMigrate,
		SessionNameLister:  core.DefaultSessionNameLister,
		QuiescenceDelay:    100 * time.Millisecond,
		RecallDelayCeiling: 0,
		PollInterval:       10 * time.Millisecond,
		AntiThrashWindow:   60 * time.Second,
		ForkPerEvent:       false,
		NonBlocking:        false,
		QuiescenceRecheck:  true,
	},
}

// Initialize loads the configuration from the specified file. An empty path
// leaves the coded defaults in place, so all three binaries behave the same
// when run with no config file at all.
func Initialize(path string) error {
	if path != "" {
		globalConfig = Config{}
		viper.Reset()
		viper.SetConfigFile(path)
		viper.SetEnvPrefix("hacksm")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		err := viper.ReadInConfig()
		if err != nil {
			return NotFoundError.Wrap(err, "failed to read config file: %s", path).
				WithProperty(errorx.PropertyPayload(), path)
		}

		if err := viper.Unmarshal(&globalConfig); err != nil {
			return errorx.IllegalFormat.Wrap(err, "failed to parse configuration").
				WithProperty(errorx.PropertyPayload(), path)
		}
	}

	core.SetPaths(globalConfig.Hacksm.StoreBasePath)

	if err := logx.Initialize(globalConfig.Log); err != nil {
		return errorx.IllegalFormat.Wrap(err, "failed to apply log configuration")
	}

	return nil
}

// Get returns the loaded configuration.
func Get() Config {
	return globalConfig
}

func Set(c *Config) error {
	globalConfig = *c
	return nil
}
