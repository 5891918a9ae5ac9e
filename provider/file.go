package provider

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/market-bubbles/market"
)

// fileDocument is the on-disk layout of a market list
type fileDocument struct {
	Markets []market.Market `yaml:"markets"`
}

// FileSource reads markets from a YAML file on every fetch, for offline use and demos
type FileSource struct {
	Path string
}

// NewFileSource creates a source reading path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Fetch(ctx context.Context) ([]market.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read market file: %w", err)
	}
	return ParseMarkets(data)
}

// ParseMarkets decodes a YAML market document
func ParseMarkets(data []byte) ([]market.Market, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse market file: %w", err)
	}
	for i := range doc.Markets {
		if doc.Markets[i].ID == "" {
			return nil, fmt.Errorf("parse market file: market %d has no id", i)
		}
	}
	return doc.Markets, nil
}

// MarshalSnapshot encodes a snapshot as YAML grouped by category in display order
func MarshalSnapshot(s market.Snapshot) ([]byte, error) {
	type group struct {
		Category  market.Category `yaml:"category"`
		MaxVolume float64         `yaml:"max_volume"`
		Markets   []market.Market `yaml:"markets"`
	}
	var groups []group
	for _, c := range market.Categories {
		items := s.Markets[c]
		if len(items) == 0 {
			continue
		}
		groups = append(groups, group{Category: c, MaxVolume: s.MaxVolume[c], Markets: items})
	}

	out, err := yaml.Marshal(map[string]any{"snapshot": groups})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return out, nil
}
