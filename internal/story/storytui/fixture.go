package storytui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/orgball2608/vibestream/internal/domain"
	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Stories []domain.StoryItem `yaml:"stories"`
}

// LoadFile reads a YAML story sequence. Authors keep the order of their first
// appearance and each author's stories are sorted by posted time.
func LoadFile(path string) ([]domain.StoryItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]domain.StoryItem, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse story file: %w", err)
	}

	authors := make(map[string]uuid.UUID)
	for i := range f.Stories {
		item := &f.Stories[i]
		item.AuthorHandle = strings.TrimPrefix(strings.TrimSpace(item.AuthorHandle), "@")
		if item.AuthorHandle == "" {
			return nil, fmt.Errorf("story %d: author is required", i+1)
		}
		if item.MediaRef == "" {
			return nil, fmt.Errorf("story %d: media is required", i+1)
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if item.AuthorID == uuid.Nil {
			id, ok := authors[item.AuthorHandle]
			if !ok {
				id = uuid.New()
				authors[item.AuthorHandle] = id
			}
			item.AuthorID = id
		}
	}

	groups := domain.GroupByAuthor(f.Stories)
	for _, g := range groups {
		sort.SliceStable(g.Items, func(i, j int) bool {
			return g.Items[i].PostedAt.Before(g.Items[j].PostedAt)
		})
	}

	items := make([]domain.StoryItem, 0, len(f.Stories))
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return items, nil
}
