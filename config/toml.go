package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/tendermint/libs/os"
)

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and panics if it fails.
func EnsureRoot(rootDir string) {
	if err := tmos.EnsureDir(rootDir, 0700); err != nil {
		panic(err)
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), 0700); err != nil {
		panic(err)
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), 0700); err != nil {
		panic(err)
	}

	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)

	// Write default config file if missing.
	if !tmos.FileExists(configFilePath) {
		WriteConfigFile(configFilePath, DefaultConfig())
	}
}

// WriteConfigFile renders config using the template and writes it to configFilePath.
func WriteConfigFile(configFilePath string, config *Config) {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	tmos.MustWriteFile(configFilePath, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

##### main base config options #####

# Path to the JSON file containing the initial ledger state
genesis_file = "{{ .BaseConfig.Genesis }}"

# Output level for logging
log_level = "{{ .BaseConfig.LogLevel }}"

# Logging format: plain or json
log_format = "{{ .BaseConfig.LogFormat }}"

# Where to write the log: stdout, stderr or a file path
log_path = "{{ .BaseConfig.LogPath }}"

# Database backend: goleveldb | memdb
db_backend = "{{ .BaseConfig.DBBackend }}"

# Database directory
db_dir = "{{ .BaseConfig.DBPath }}"

# Address to listen for API connections
api_listen_addr = "{{ .BaseConfig.APIListenAddress }}"

# Address to expose prometheus metrics, empty to disable
instrumentation_listen_addr = "{{ .BaseConfig.InstrumentationListenAddress }}"

# Number of last states to keep in the state database
keep_last_states = {{ .BaseConfig.KeepLastStates }}

# Size of the iavl node cache
state_cache_size = {{ .BaseConfig.StateCacheSize }}

# Memory in megabytes available to the state database
state_mem_available = {{ .BaseConfig.StateMemAvailable }}

# Maximum number of simultaneous API requests
api_simultaneous_requests = {{ .BaseConfig.APISimultaneousRequests }}
`
