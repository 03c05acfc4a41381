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

package lower_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	. "github.com/wdamron/lower"
	. "github.com/wdamron/lower/construct"
	"github.com/wdamron/lower/fault"
)

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig(`
max-depth = 50
version = "3"

[logging]
format = "json"
level = "debug"
`)
	require.NoError(t, err)
	require.Equal(t, 50, c.MaxDepth)
	require.Equal(t, "3", c.Version)
	require.Equal(t, int64(8), c.PointerSize, "omitted settings keep their defaults")
	require.Equal(t, "json", c.Logging.Format)
	require.Equal(t, zapcore.DebugLevel, c.Logging.Level)

	_, err = ParseConfig(`max-depth = "deep"`)
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "lower.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("trace: true\npointer-size: 4\nlogging:\n  level: warn\n"), 0o644))
	c, err := LoadConfig(yml)
	require.NoError(t, err)
	require.True(t, c.Trace)
	require.Equal(t, int64(4), c.PointerSize)
	require.Equal(t, zapcore.WarnLevel, c.Logging.Level)
	require.Equal(t, fault.DefaultMaxDepth, c.MaxDepth)

	tml := filepath.Join(dir, "lower.toml")
	require.NoError(t, os.WriteFile(tml, []byte("version = \"2\"\n"), 0o644))
	c, err = LoadConfig(tml)
	require.NoError(t, err)
	require.Equal(t, "2", c.Version)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestPointerSizeReachesSizeQueries(t *testing.T) {
	c := NewConfig()
	c.PointerSize = 4
	tr := New(c)
	res, err := tr.Transform(SizeOf(TRef(TInt(64))))
	require.NoError(t, err)
	requireInt(t, res.Value, 4)
}
