// Package config holds the options shared by the IR builder and the lowering
// engine.  Options can be populated programmatically or loaded from a TOML
// file.
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pelletier/go-toml"
)

// Options configures IR construction and lowering.
type Options struct {
	// ModuleName overrides the produced module's name when non-empty.
	ModuleName string `toml:"module-name"`

	// Triple is the target triple stamped onto the lowered module.  Empty
	// means the native target.
	Triple string `toml:"target-triple"`

	// Strict controls how the builder treats syntax it has no rule for.
	// When false (the default) unsupported expressions degrade to a void
	// placeholder literal; when true they are compile errors.
	Strict bool `toml:"strict"`
}

// Default returns the default option set.
func Default() Options {
	return Options{}
}

// Load parses an option set from TOML source.
func Load(data []byte) (Options, error) {
	opts := Default()
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("error parsing options: %s", err.Error())
	}

	return opts, nil
}

// LoadFile loads an option set from a TOML file.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), fmt.Errorf("unable to open options file at `%s`: %s", path, err.Error())
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return Default(), fmt.Errorf("error reading options file at `%s`: %s", path, err.Error())
	}

	return Load(buff)
}
