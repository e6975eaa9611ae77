package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tvhoang/workunit-api/internal/models"
)

func TestBucketByStatus(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Status: models.TaskStatusTodo},
		{ID: "t2", Status: models.TaskStatusCompleted},
		{ID: "t3", Status: models.TaskStatusTodo},
		{ID: "t4", Status: models.TaskStatusInProgress},
	}

	b := BucketByStatus(tasks)
	assert.Len(t, b.Todo, 2)
	assert.Len(t, b.InProgress, 1)
	assert.Len(t, b.Completed, 1)
	assert.Equal(t, "t1", b.Todo[0].ID)
	assert.Equal(t, "t3", b.Todo[1].ID, "bucket keeps input order")
}

func TestComplexityHistogram_OmitsZeroLevels(t *testing.T) {
	tasks := []models.Task{
		{Complexity: models.ComplexityHard},
		{Complexity: models.ComplexityHard},
		{Complexity: models.ComplexityVeryHard},
	}

	hist := ComplexityHistogram(tasks)
	assert.Len(t, hist, 2, "MEDIUM has no tasks and is dropped")
	assert.Equal(t, models.ComplexityHard, hist[0].Complexity)
	assert.Equal(t, 2, hist[0].Count)
	assert.Equal(t, models.ComplexityVeryHard, hist[1].Complexity)
	assert.Equal(t, 1, hist[1].Count)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 1, Points(models.ComplexityMedium))
	assert.Equal(t, 3, Points(models.ComplexityHard))
	assert.Equal(t, 5, Points(models.ComplexityVeryHard))
	assert.Equal(t, 0, Points(models.TaskComplexity("WEIRD")))
}

func TestRankPerformance_Score(t *testing.T) {
	users := []models.User{{ID: "u1", Name: "Lead"}}
	now := time.Now()
	tasks := []models.Task{
		{ID: "t1", UserID: "u9", LeadID: "u1", Status: models.TaskStatusCompleted, Complexity: models.ComplexityHard, StartTime: now},
		{ID: "t2", UserID: "u9", LeadID: "u1", Status: models.TaskStatusCompleted, Complexity: models.ComplexityVeryHard, StartTime: now},
		{ID: "t3", UserID: "u1", LeadID: "u1", Status: models.TaskStatusInProgress, Complexity: models.ComplexityMedium, StartTime: now},
	}

	entries := RankPerformance(users, tasks)
	assert.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].Score, "3 (Hard) + 5 (Very Hard); in-progress Medium not counted")
	assert.Equal(t, 1, entries[0].AssignedCount, "only t3 was created by u1")
}

func TestRankPerformance_SortAndTruncate(t *testing.T) {
	users := make([]models.User, 10)
	for i := range users {
		users[i] = models.User{ID: fmt.Sprintf("u%d", i), Name: fmt.Sprintf("User %d", i)}
	}

	// u5 leads one completed hard task, everyone else scores zero.
	tasks := []models.Task{
		{ID: "t1", UserID: "u0", LeadID: "u5", Status: models.TaskStatusCompleted, Complexity: models.ComplexityHard},
	}

	entries := RankPerformance(users, tasks)
	assert.Len(t, entries, 8, "ranking is truncated to the top 8")
	assert.Equal(t, "u5", entries[0].UserID)
	// Stable sort: zero-score users keep their original relative order.
	assert.Equal(t, "u0", entries[1].UserID)
	assert.Equal(t, "u1", entries[2].UserID)
}
