package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Target is one survey to fill in a batch run.
type Target struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Runs       int    `yaml:"runs"`
	Screenshot bool   `yaml:"screenshot"`
}

// TargetFile is the YAML document read by `autofill batch`.
type TargetFile struct {
	Parallel int      `yaml:"parallel"`
	Targets  []Target `yaml:"targets"`
}

var ErrNoTargets = errors.New("no targets")

// LoadTargets reads and validates a target list.
func LoadTargets(path string) (*TargetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	return ParseTargets(data)
}

func ParseTargets(data []byte) (*TargetFile, error) {
	var tf TargetFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	if len(tf.Targets) == 0 {
		return nil, ErrNoTargets
	}

	tf.applyDefaults()
	for i, t := range tf.Targets {
		if t.URL == "" {
			return nil, fmt.Errorf("target %d (%s): missing url", i, t.Name)
		}
	}
	return &tf, nil
}

func (tf *TargetFile) applyDefaults() {
	if tf.Parallel <= 0 {
		tf.Parallel = 1
	}
	for i := range tf.Targets {
		if tf.Targets[i].Runs <= 0 {
			tf.Targets[i].Runs = 1
		}
		if tf.Targets[i].Name == "" {
			tf.Targets[i].Name = fmt.Sprintf("target-%d", i+1)
		}
	}
}
