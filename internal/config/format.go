package config

import (
	"fmt"
)

// Format is a manifest output format.
type Format int

const (
	FormatInvalid Format = iota
	FormatText
	FormatYAML
	FormatJSON
)

var formatValueMap = map[Format]string{
	FormatText: "text",
	FormatYAML: "yaml",
	FormatJSON: "json",
}

func (f Format) String() string {
	v, ok := formatValueMap[f]
	if !ok {
		return fmt.Sprintf("invalid(%d)", f)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (f *Format) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for k, v := range formatValueMap {
		if v == text {
			*f = k
			return nil
		}
	}

	return fmt.Errorf("unknown output format %q", text)
}

func (f Format) MarshalText() ([]byte, error) {
	v, ok := formatValueMap[f]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Format(%d)", f)
	}

	return []byte(v), nil
}

// Set and Type make Format usable as a command line flag value.
func (f *Format) Set(s string) error {
	return f.UnmarshalText([]byte(s))
}

func (f *Format) Type() string {
	return "format"
}
