package emu

import (
	"os"
	"path/filepath"
	"sync"

	"kim/emu/log"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

type Config struct {
	Run RunConfig `toml:"run"`
}

type RunConfig struct {
	// LoadAddr is where images are loaded when the command line does not
	// say otherwise.
	LoadAddr uint16 `toml:"load_addr"`

	// StopOnBRK stops the machine after the first BRK.
	StopOnBRK bool `toml:"stop_on_brk"`

	// DebugAddr, when set, is the host:port the debugger service listens
	// on.
	DebugAddr string `toml:"debug_addr"`
}

func defaultConfig() Config {
	return Config{
		Run: RunConfig{
			LoadAddr:  0x0600,
			StopOnBRK: true,
		},
	}
}

var ConfigDir string = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("kim")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})()

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the kim config directory,
// or provides a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir, cfgFilename), &cfg)
	if err != nil {
		return defaultConfig()
	}
	return cfg
}

// SaveConfig into the kim config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir, cfgFilename), buf, 0644)
}
