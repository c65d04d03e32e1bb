package models

import "slices"

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectDone       ProjectStatus = "done"
	ProjectOnHold     ProjectStatus = "on-hold"
)

type Project struct {
	Base
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	Tags        []string      `json:"tags"`
	TechStack   []string      `json:"techStack"`
	Status      ProjectStatus `json:"status"`
	RepoURL     string        `json:"repoUrl,omitempty"`
	LiveURL     string        `json:"liveUrl,omitempty"`
	Notes       string        `json:"notes"`
}

func (p *Project) ApplyDefaults() {
	if p.Status == "" {
		p.Status = ProjectPlanning
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	p.Category.normalize()
}

func (p *Project) Normalize() {
	p.Category.normalize()
}

func (p *Project) Clone() *Project {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.TechStack = slices.Clone(p.TechStack)
	return &c
}
