// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package lower

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/lower/fault"
	"github.com/wdamron/lower/logger"
)

// DefaultVersion is the language version accepted by version checks when none is configured.
const DefaultVersion = "1"

// Config controls a transformation session.
type Config struct {
	// MaxDepth is the nesting ceiling shared by transformation, subtyping and grounding.
	MaxDepth int `toml:"max-depth" yaml:"max-depth"`
	// Version is compared against version checks in transformed terms.
	Version string `toml:"version" yaml:"version"`
	// Trace logs every rule dispatch at debug level.
	Trace bool `toml:"trace" yaml:"trace"`
	// PointerSize configures the default size oracle.
	PointerSize int64 `toml:"pointer-size" yaml:"pointer-size"`

	Logging logger.Config `toml:"logging" yaml:"logging"`
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() Config {
	return Config{
		MaxDepth:    fault.DefaultMaxDepth,
		Version:     DefaultVersion,
		PointerSize: 8,
		Logging:     logger.NewConfig(),
	}
}

// ParseConfig parses a TOML configuration string, applying defaults for omitted settings.
func ParseConfig(s string) (Config, error) {
	c := NewConfig()
	if _, err := toml.Decode(s, &c); err != nil {
		return c, errors.Wrap(err, "parsing configuration")
	}
	return c, nil
}

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are decoded as YAML, any
// other file as TOML.
func LoadConfig(path string) (Config, error) {
	c := NewConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrapf(err, "reading %s", path)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, errors.Wrapf(err, "decoding %s", path)
		}
	default:
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return c, errors.Wrapf(err, "decoding %s", path)
		}
	}
	return c, nil
}
