package models

import "slices"

type ResourceType string

const (
	ResourceFile     ResourceType = "file"
	ResourceLink     ResourceType = "link"
	ResourceYouTube  ResourceType = "youtube"
	ResourceWebsite  ResourceType = "website"
	ResourceDocument ResourceType = "document"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFile, ResourceLink, ResourceYouTube, ResourceWebsite, ResourceDocument:
		return true
	}
	return false
}

type FileMeta struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type Resource struct {
	Base
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description,omitempty" db:"description"`
	Type        ResourceType `json:"type" db:"type"`
	Category    Category     `json:"category" db:"category"`
	Tags        []string     `json:"tags" db:"tags"`
	Notes       string       `json:"notes" db:"notes"`
	URL         string       `json:"url,omitempty" db:"url"`
	YouTubeID   string       `json:"youtubeId,omitempty" db:"youtube_id"`
	File        *FileMeta    `json:"file,omitempty" db:"file"`
	Favorite    bool         `json:"favorite" db:"favorite"`
}

func (r *Resource) ApplyDefaults() {
	if r.Type == "" {
		r.Type = ResourceLink
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.Category.normalize()
	if r.Type == ResourceYouTube && r.YouTubeID == "" {
		r.YouTubeID = YouTubeID(r.URL)
	}
}

func (r *Resource) Normalize() {
	r.Category.normalize()
}

func (r *Resource) Clone() *Resource {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	if r.File != nil {
		f := *r.File
		c.File = &f
	}
	return &c
}
