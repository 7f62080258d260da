// Package rollcode derives a student's college and branch from the coded
// segments of a roll number, e.g. 22JN1A0501: characters [2:4) carry the
// college code, characters [6:8) the branch code.
package rollcode

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed codebook.yml
var defaultCodebook []byte

// Codebook maps the two-character code segments of a roll number onto
// institution names. It is injected configuration so other institutions can
// ship their own tables without code changes.
type Codebook struct {
	Colleges map[string]string `yaml:"colleges"`
	Branches map[string]string `yaml:"branches"`
}

// Default returns the built-in codebook.
func Default() Codebook {
	cb, err := parse(defaultCodebook)
	if err != nil {
		panic("rollcode: embedded codebook is invalid: " + err.Error())
	}
	return cb
}

// Load reads a codebook from a YAML file, falling back to the built-in
// tables when path is empty.
func Load(path string) (Codebook, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Codebook{}, err
	}
	return parse(b)
}

func parse(b []byte) (Codebook, error) {
	var cb Codebook
	if err := yaml.Unmarshal(b, &cb); err != nil {
		return Codebook{}, err
	}
	if cb.Colleges == nil {
		cb.Colleges = map[string]string{}
	}
	if cb.Branches == nil {
		cb.Branches = map[string]string{}
	}
	return cb, nil
}

// Decode extracts the college and branch encoded in a roll number. Unknown
// codes and roll numbers shorter than 8 characters yield empty strings, not
// errors; callers supply their own defaults.
func (cb Codebook) Decode(rollNo string) (college, branch string) {
	r := strings.ToUpper(strings.TrimSpace(rollNo))
	if len(r) < 8 {
		return "", ""
	}
	return cb.Colleges[r[2:4]], cb.Branches[r[6:8]]
}
