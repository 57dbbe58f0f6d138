package config

import (
	"os"
	"path/filepath"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName  = "config.toml"
	defaultGenesisJSONName = "genesis.json"
)

var (
	defaultConfigFilePath  = filepath.Join(defaultConfigDir, defaultConfigFileName)
	defaultGenesisJSONPath = filepath.Join(defaultConfigDir, defaultGenesisJSONName)
)

// DefaultHome returns the default root directory of the node.
func DefaultHome() string {
	home := os.Getenv("BOUNTYHOME")
	if home != "" {
		return home
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".bounty"
	}

	return filepath.Join(userHome, ".bounty")
}

// GetConfig prepares the root directory and returns the node configuration.
func GetConfig(homeDir string) *Config {
	cfg := DefaultConfig()
	cfg.SetRoot(homeDir)
	EnsureRoot(homeDir)

	return cfg
}

// Config defines the top level configuration for a node
type Config struct {
	BaseConfig `mapstructure:",squash"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
	}
}

// SetRoot sets the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for a node
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Path to the JSON file containing the initial ledger state
	Genesis string `mapstructure:"genesis_file"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Logging format: plain or json
	LogFormat string `mapstructure:"log_format"`

	// Where to write the log: stdout, stderr or a file path
	LogPath string `mapstructure:"log_path"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// Address to listen for API connections
	APIListenAddress string `mapstructure:"api_listen_addr"`

	// Address to expose prometheus metrics, empty to disable
	InstrumentationListenAddress string `mapstructure:"instrumentation_listen_addr"`

	// Number of last states to keep in the state database
	KeepLastStates int64 `mapstructure:"keep_last_states"`

	// Size of the iavl node cache
	StateCacheSize int `mapstructure:"state_cache_size"`

	// Memory in megabytes available to the state database
	StateMemAvailable int `mapstructure:"state_mem_available"`

	// Maximum number of simultaneous API requests
	APISimultaneousRequests int `mapstructure:"api_simultaneous_requests"`
}

func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Genesis:                      defaultGenesisJSONPath,
		LogLevel:                     "info",
		LogFormat:                    LogFormatPlain,
		LogPath:                      "stdout",
		DBBackend:                    "goleveldb",
		DBPath:                       "data",
		APIListenAddress:             "tcp://0.0.0.0:8841",
		InstrumentationListenAddress: "",
		KeepLastStates:               120,
		StateCacheSize:               1000000,
		StateMemAvailable:            1024,
		APISimultaneousRequests:      100,
	}
}

// GenesisFile returns the full path to the genesis.json file
func (cfg BaseConfig) GenesisFile() string {
	return rootify(cfg.Genesis, cfg.RootDir)
}

// DBDir returns the full path to the database directory
func (cfg BaseConfig) DBDir() string {
	return rootify(cfg.DBPath, cfg.RootDir)
}

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
