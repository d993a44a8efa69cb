package emulator

import (
	"io"

	yaml "gopkg.in/yaml.v2"

	"github.com/ezrec/rvmon/memory"
)

// Config is the emulator configuration, as read from a YAML file.
type Config struct {
	MemBase uint32 `yaml:"mem_base"`          // Guest memory base address.
	MemSize int    `yaml:"mem_size"`          // Guest memory size in bytes.
	Entry   uint32 `yaml:"entry"`             // Reset pc, and load address of images.
	Batch   bool   `yaml:"batch,omitempty"`   // Run to completion without a prompt.
	Verbose bool   `yaml:"verbose,omitempty"` // Enable verbose logging.
	Image   string `yaml:"image,omitempty"`   // Raw image to load at Entry.
	Source  string `yaml:"source,omitempty"`  // Assembly source to load at Entry.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MemBase: memory.MEM_BASE_DEFAULT,
		MemSize: memory.MEM_SIZE_DEFAULT,
		Entry:   memory.MEM_BASE_DEFAULT,
	}
}

// LoadConfig reads a YAML configuration. Keys not present keep their
// default values; unknown keys are an error.
func LoadConfig(r io.Reader) (cfg *Config, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	cfg = DefaultConfig()
	err = yaml.UnmarshalStrict(data, cfg)
	if err != nil {
		cfg = nil
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// Validate checks the memory layout of the configuration.
func (cfg *Config) Validate() (err error) {
	if cfg.MemSize <= 0 {
		err = ErrConfigMemSize
		return
	}

	if cfg.Entry < cfg.MemBase || uint64(cfg.Entry-cfg.MemBase)+4 > uint64(cfg.MemSize) {
		err = ErrConfigEntry
		return
	}

	return
}

// Marshal writes the configuration as YAML.
func (cfg *Config) Marshal(w io.Writer) (err error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}

	_, err = w.Write(data)
	return
}
