// Package config handles sheetlang.toml configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is read when no explicit configuration file is given.
const DefaultPath = "sheetlang.toml"

// Config represents a sheetlang.toml file.
type Config struct {
	Log  Log  `toml:"log"`
	Eval Eval `toml:"eval"`
	View View `toml:"view"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Log configures the commonlog backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Eval configures formula evaluation.
type Eval struct {
	DetectCycles bool `toml:"detect-cycles"`
}

// View configures the terminal viewer.
type View struct {
	ColumnWidth     int  `toml:"column-width"`
	ShowExpressions bool `toml:"show-expressions"`
}

func Default() *Config {
	return &Config{
		View: View{ColumnWidth: 12},
	}
}

// Load reads path. An empty path means DefaultPath, which may be absent, in
// which case the defaults are returned.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path

	if c.View.ColumnWidth < 4 {
		return nil, fmt.Errorf("%s: view.column-width must be at least 4, got %d", path, c.View.ColumnWidth)
	}
	return c, nil
}
