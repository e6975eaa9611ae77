package report

import (
	"sort"

	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
)

// StatusBuckets partitions a task set into the three workflow states,
// preserving input order within each bucket.
type StatusBuckets struct {
	Todo       []models.Task
	InProgress []models.Task
	Completed  []models.Task
}

// BucketByStatus splits tasks into disjoint status buckets.
func BucketByStatus(tasks []models.Task) StatusBuckets {
	var b StatusBuckets
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusTodo:
			b.Todo = append(b.Todo, t)
		case models.TaskStatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case models.TaskStatusCompleted:
			b.Completed = append(b.Completed, t)
		}
	}
	return b
}

// ComplexityCount is one slice of the complexity histogram.
type ComplexityCount struct {
	Complexity models.TaskComplexity `json:"complexity"`
	Count      int                   `json:"count"`
}

// ComplexityHistogram counts tasks per complexity level. Levels with a zero
// count are omitted from the result.
func ComplexityHistogram(tasks []models.Task) []ComplexityCount {
	levels := []models.TaskComplexity{
		models.ComplexityMedium,
		models.ComplexityHard,
		models.ComplexityVeryHard,
	}

	counts := make(map[models.TaskComplexity]int, len(levels))
	for _, t := range tasks {
		counts[t.Complexity]++
	}

	histogram := make([]ComplexityCount, 0, len(levels))
	for _, level := range levels {
		if counts[level] > 0 {
			histogram = append(histogram, ComplexityCount{Complexity: level, Count: counts[level]})
		}
	}
	return histogram
}

// Points returns the score value of a completed task of the given
// complexity. Unknown levels are worth nothing.
func Points(c models.TaskComplexity) int {
	switch c {
	case models.ComplexityMedium:
		return 1
	case models.ComplexityHard:
		return 3
	case models.ComplexityVeryHard:
		return 5
	default:
		return 0
	}
}

// PerformanceEntry is one row of the staff performance ranking.
type PerformanceEntry struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	AssignedCount int    `json:"assigned_count"`
	Score         int    `json:"score"`
}

// RankPerformance scores each user over an already-filtered task set:
// AssignedCount counts the tasks the user created, Score sums the point
// values of completed tasks the user leads. The result is sorted by score
// descending (ties keep the user-list order) and truncated to the top 8.
func RankPerformance(users []models.User, tasks []models.Task) []PerformanceEntry {
	entries := make([]PerformanceEntry, 0, len(users))
	for _, u := range users {
		entry := PerformanceEntry{UserID: u.ID, Name: u.Name}
		for _, t := range tasks {
			if t.UserID == u.ID {
				entry.AssignedCount++
			}
			if t.LeadID == u.ID && t.Status == models.TaskStatusCompleted {
				entry.Score += Points(t.Complexity)
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if len(entries) > constants.PerformanceTopN {
		entries = entries[:constants.PerformanceTopN]
	}
	return entries
}
