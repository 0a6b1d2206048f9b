package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoryItem is one entry of a story sequence shown in the viewer.
type StoryItem struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	AuthorID     uuid.UUID `json:"author_id" yaml:"author_id"`
	AuthorHandle string    `json:"author_handle" yaml:"author"`
	AvatarRef    string    `json:"avatar_ref" yaml:"avatar"`
	MediaRef     string    `json:"media_ref" yaml:"media"`
	IsVideo      bool      `json:"is_video" yaml:"video"`
	PostedAt     time.Time `json:"posted_at" yaml:"posted_at"`
	MediaKey     string    `json:"-" yaml:"-"`
}

// StoryGroup is the carousel entry of one author with their active stories.
type StoryGroup struct {
	AuthorID     uuid.UUID   `json:"author_id"`
	AuthorHandle string      `json:"author_handle"`
	AvatarRef    string      `json:"avatar_ref"`
	Items        []StoryItem `json:"items"`
}

// GroupByAuthor keeps the input order of authors and of items per author.
func GroupByAuthor(items []StoryItem) []StoryGroup {
	var groups []StoryGroup
	index := make(map[uuid.UUID]int)
	for _, item := range items {
		i, ok := index[item.AuthorID]
		if !ok {
			i = len(groups)
			index[item.AuthorID] = i
			groups = append(groups, StoryGroup{
				AuthorID:     item.AuthorID,
				AuthorHandle: item.AuthorHandle,
				AvatarRef:    item.AvatarRef,
			})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
