// Package config holds the evaluator's ambient, process-wide settings:
// the one-shot source filename used when rendering diagnostic snippets,
// the driver's optional YAML configuration, and the version constant,
// all as flat exported values.
package config

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Version is the current Fang evaluator version.
const Version = "0.1.0"

// SourceFileExtensions are the recognized Fang source file extensions.
var SourceFileExtensions = []string{".fang"}

var (
	fileNameOnce sync.Once
	fileName     string
)

// SetFileName establishes the process-wide source filename used when
// rendering diagnostic snippets. It is written exactly once by the
// driver before evaluation begins, then read-only; later calls are
// no-ops.
func SetFileName(name string) {
	fileNameOnce.Do(func() { fileName = name })
}

// FileName returns the filename established by SetFileName, or "<fang>"
// if none was ever set (e.g. in a unit test that constructs trees
// directly).
func FileName() string {
	if fileName == "" {
		return "<fang>"
	}
	return fileName
}

// DriverConfig is the driver's optional, YAML-loaded configuration. Its
// absence is not an error — DefaultDriverConfig covers a bare
// `fang <file>` invocation.
type DriverConfig struct {
	Color    string `yaml:"color"`    // "auto" (default) | "always" | "never"
	DumpAST  bool   `yaml:"dumpAst"`  // default true, see DefaultDriverConfig
	DumpPath string `yaml:"dumpPath"` // default "./fg.ast"
	Trace    bool   `yaml:"trace"`   // default false
}

// DefaultDriverConfig is used when no fang.yaml/.fangrc.yaml is present.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{Color: "auto", DumpAST: true, DumpPath: "./fg.ast"}
}

// LoadDriverConfig reads path (typically "fang.yaml" or ".fangrc.yaml"
// next to the source file). A missing file yields the defaults, not an
// error.
func LoadDriverConfig(path string) (DriverConfig, error) {
	cfg := DefaultDriverConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DumpPath == "" {
		cfg.DumpPath = "./fg.ast"
	}
	return cfg, nil
}

// ResolveColor decides whether diagnostic snippets should be colorized,
// resolving "auto" by probing whether stderr is a terminal with
// go-isatty.
func (c DriverConfig) ResolveColor() bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}
