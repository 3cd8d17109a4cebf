package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/gaku/internal/card"
)

// SourceLink ties a card to the source it was imported from.
type SourceLink struct {
	CardID   string `yaml:"card_id"`
	SourceID string `yaml:"source_id"`
}

// CardFile is the YAML exchange format for card import and export.
type CardFile struct {
	Sources []card.Source `yaml:"sources,omitempty"`
	Cards   []card.Card   `yaml:"cards"`
	Links   []SourceLink  `yaml:"card_source_links,omitempty"`
}

// ReadCardFile loads a card file from disk and validates every card in it.
func ReadCardFile(path string) (CardFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CardFile{}, fmt.Errorf("read card file %s > %w", path, err)
	}

	var file CardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return CardFile{}, fmt.Errorf("unmarshal card file %s > %w", path, err)
	}
	for _, c := range file.Cards {
		if err := c.Validate(); err != nil {
			return CardFile{}, fmt.Errorf("card file %s > %w", path, err)
		}
	}
	return file, nil
}

// WriteCardFile writes a card file to disk.
func WriteCardFile(path string, file CardFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal card file > %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write card file %s > %w", path, err)
	}
	return nil
}
