package assistant

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var promptFile []byte

type actionDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Prompt struct {
	System      string      `yaml:"system"`
	Actions     []actionDoc `yaml:"actions"`
	CannedReply string      `yaml:"canned_reply"`

	tmpl *template.Template
}

// LoadPrompt разбирает встроенный prompt.yaml.
func LoadPrompt() (*Prompt, error) {
	return ParsePrompt(promptFile)
}

func ParsePrompt(data []byte) (*Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("разбор промпта: %w", err)
	}
	if p.System == "" {
		return nil, fmt.Errorf("в промпте нет поля system")
	}

	tmpl, err := template.New("system").Parse(p.System)
	if err != nil {
		return nil, fmt.Errorf("шаблон промпта: %w", err)
	}
	p.tmpl = tmpl
	return &p, nil
}

// Render подставляет сводку и список действий в системный промпт.
func (p *Prompt) Render(summary ContextSummary, now time.Time) (string, error) {
	var sb strings.Builder
	err := p.tmpl.Execute(&sb, map[string]any{
		"Actions": p.Actions,
		"Summary": summary,
		"Now":     now.Format("2006-01-02 15:04 Monday"),
	})
	if err != nil {
		return "", fmt.Errorf("рендер промпта: %w", err)
	}
	return sb.String(), nil
}
