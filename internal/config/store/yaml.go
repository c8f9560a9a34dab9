package store

import (
	"gopkg.in/yaml.v3"
)

// yamlDocument is the layout of a YAML overrides file.
type yamlDocument struct {
	Keybindings []Record `yaml:"keybindings"`
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte) ([]Record, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Keybindings, nil
}

func (yamlCodec) encode(records []Record) ([]byte, error) {
	return yaml.Marshal(yamlDocument{Keybindings: records})
}

// YAMLStore keeps overrides in a YAML file.
type YAMLStore struct {
	fileStore
}

// NewYAMLStore creates a store for the YAML file at path.
func NewYAMLStore(path string, opts ...Option) *YAMLStore {
	return &YAMLStore{fileStore: newFileStore(path, yamlCodec{}, opts)}
}
