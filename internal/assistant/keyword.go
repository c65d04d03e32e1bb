package assistant

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// KeywordProvider - офлайн-провайдер без модели: распознаёт действия
// по ключевым словам и отвечает тем же JSON, что и модель.
type KeywordProvider struct{}

func NewKeywordProvider() KeywordProvider {
	return KeywordProvider{}
}

func (KeywordProvider) Name() string {
	return "keyword"
}

var numberRe = regexp.MustCompile(`\d+`)

type rule struct {
	words []string
	build func(message string) (string, Action)
}

var rules = []rule{
	{
		words: []string{"add task", "create task", "new task", "добавь задачу", "создай задачу", "новая задача"},
		build: func(m string) (string, Action) {
			return "Создаю задачу.", Action{Type: ActionCreateTask, Params: map[string]any{"title": payload(m)}}
		},
	},
	{
		words: []string{"note", "заметк", "запиши"},
		build: func(m string) (string, Action) {
			text := payload(m)
			return "Сохраняю заметку.", Action{Type: ActionCreateNote, Params: map[string]any{"title": firstLine(text), "content": text}}
		},
	},
	{
		words: []string{"pomodoro", "focus", "помидор", "фокус"},
		build: func(m string) (string, Action) {
			params := map[string]any{"type": "focus"}
			if n := numberRe.FindString(m); n != "" {
				minutes, _ := strconv.Atoi(n)
				params["duration"] = minutes
			}
			return "Запускаю фокус-сессию.", Action{Type: ActionStartPomodoro, Params: params}
		},
	},
	{
		words: []string{"plan", "план"},
		build: func(string) (string, Action) {
			return "Вот план на сегодня.", Action{Type: ActionGenerateDailyPlan}
		},
	},
	{
		words: []string{"analy", "productiv", "stats", "продуктив", "статистик"},
		build: func(string) (string, Action) {
			return "Смотрю на вашу продуктивность.", Action{Type: ActionAnalyzeProductivity}
		},
	},
	{
		words: []string{"tasks", "todo", "задачи", "список"},
		build: func(string) (string, Action) {
			return "Ваши задачи:", Action{Type: ActionListTasks}
		},
	},
}

func (KeywordProvider) Complete(_ context.Context, _ string, message string) (string, error) {
	lower := strings.ToLower(message)

	reply := modelReply{
		Reply:   "Я могу создать задачу или заметку, запустить помидор, показать задачи, оценить продуктивность или составить план на день.",
		Actions: []Action{},
	}
	for _, r := range rules {
		if containsAny(lower, r.words) {
			text, action := r.build(message)
			reply.Reply = text
			reply.Actions = append(reply.Actions, action)
			break
		}
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// payload - текст после двоеточия, а без него всё сообщение.
func payload(message string) string {
	if _, after, ok := strings.Cut(message, ":"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(message)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
