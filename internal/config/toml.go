package config

import (
	"github.com/pelletier/go-toml/v2"
)

// tomlParser lets koanf read and write TOML through go-toml
type tomlParser struct{}

// TOMLParser returns a koanf.Parser for TOML documents
func TOMLParser() *tomlParser {
	return &tomlParser{}
}

// Unmarshal parses TOML bytes into a nested map
func (p *tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML
func (p *tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	return toml.Marshal(m)
}
