package ai

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Emoji is one custom server emoji the model may use.
type Emoji struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"` // <:name:id> or <a:name:id>
}

type emojiFile struct {
	Emojis map[string]string `yaml:"emojis"`
}

// LoadEmojis reads a YAML catalogue of the form
//
//	emojis:
//	  SUCCESS: "<:CORRETO:1445291463398129805>"
//
// An empty path yields an empty catalogue.
func LoadEmojis(path string) ([]Emoji, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading emoji catalogue: %w", err)
	}
	return ParseEmojis(data)
}

func ParseEmojis(data []byte) ([]Emoji, error) {
	var f emojiFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing emoji catalogue: %w", err)
	}
	out := make([]Emoji, 0, len(f.Emojis))
	for name, token := range f.Emojis {
		if token == "" {
			continue
		}
		out = append(out, Emoji{Name: name, Token: token})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
