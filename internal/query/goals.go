package query

import "zeno/internal/models"

func ActiveGoals(goals []*models.Goal) []*models.Goal {
	var out []*models.Goal
	for _, g := range goals {
		if !g.IsCompleted {
			out = append(out, g)
		}
	}
	return out
}

func CompletedGoals(goals []*models.Goal) []*models.Goal {
	var out []*models.Goal
	for _, g := range goals {
		if g.IsCompleted {
			out = append(out, g)
		}
	}
	return out
}

// AverageProgress - средний прогресс по целям, 0 для пустого списка.
func AverageProgress(goals []*models.Goal) int {
	if len(goals) == 0 {
		return 0
	}
	sum := 0
	for _, g := range goals {
		sum += g.Progress
	}
	return sum / len(goals)
}
