package static

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Def is one static-reply command definition from YAML.
type Def struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Reply       string `yaml:"reply"`
	Ephemeral   bool   `yaml:"ephemeral"`
}

// file is the top-level YAML document.
type file struct {
	Commands []Def `yaml:"commands"`
}

// Load reads static command definitions from a YAML file and rejects
// entries missing a name or reply.
func Load(path string) ([]Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static commands file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse static commands file: %w", err)
	}

	for i, def := range f.Commands {
		if def.Name == "" {
			return nil, fmt.Errorf("static command %d: missing name", i)
		}
		if def.Reply == "" {
			return nil, fmt.Errorf("static command %q: missing reply", def.Name)
		}
	}

	return f.Commands, nil
}
