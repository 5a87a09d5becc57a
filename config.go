package ftpstream

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// optionsFile mirrors the documented option names.
type optionsFile struct {
	Timeout           *int   `yaml:"timeout"`
	WriteSeekable     int    `yaml:"ftp-write-seekable"`
	AnonymousPassword string `yaml:"ftp-anonymous-password"`
}

// OptionsFromFile loads options from a YAML file keyed by the documented
// option names:
//
//	timeout: 30                     # seconds; negative keeps the transport default
//	ftp-write-seekable: 1           # 0 or 1
//	ftp-anonymous-password: a@b.org
//
// The result is passed to Open alongside any programmatic options.
func OptionsFromFile(path string) ([]Option, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg optionsFile
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}

	var opts []Option
	if cfg.Timeout != nil && *cfg.Timeout >= 0 {
		opts = append(opts, WithTimeout(time.Duration(*cfg.Timeout)*time.Second))
	}
	if cfg.WriteSeekable == 1 {
		opts = append(opts, WithWriteSeekable())
	}
	if cfg.AnonymousPassword != "" {
		opts = append(opts, WithAnonymousPassword(cfg.AnonymousPassword))
	}
	return opts, nil
}
