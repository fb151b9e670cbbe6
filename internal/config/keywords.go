package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carson-networks/finances-tracker/internal/classify"
)

// LoadKeywords reads classifier keyword lists from a YAML file. An empty path
// returns the defaults; lists missing from the file keep their defaults.
func LoadKeywords(path string) (classify.Keywords, error) {
	if path == "" {
		return classify.DefaultKeywords(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return classify.Keywords{}, fmt.Errorf("reading keywords file: %w", err)
	}

	var k classify.Keywords
	if err := yaml.Unmarshal(data, &k); err != nil {
		return classify.Keywords{}, fmt.Errorf("parsing keywords file: %w", err)
	}
	return k.WithDefaults(), nil
}
