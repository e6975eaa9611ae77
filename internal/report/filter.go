// Package report implements the in-memory filtering and aggregation behind
// the dashboard, the search view, and the spreadsheet export. All functions
// are pure: they never mutate their inputs and preserve input order.
package report

import (
	"strings"
	"time"

	"github.com/tvhoang/workunit-api/internal/models"
)

// Criteria narrows a task collection. Every field is optional; a zero value
// always matches. Supplied criteria combine with logical AND.
type Criteria struct {
	Unit          string
	StaffID       string
	NameSubstring string
	Complexity    models.TaskComplexity
	StartDate     *time.Time
	EndDate       *time.Time
}

// Filter returns the ordered subsequence of tasks matching all supplied
// criteria. Name matching resolves the creator and lead display names from
// the user collection.
func Filter(tasks []models.Task, users []models.User, c Criteria) []models.Task {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	nameNeedle := strings.ToLower(c.NameSubstring)

	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Unit != "" && t.Unit != c.Unit {
			continue
		}
		if c.StaffID != "" && !involvesStaff(t, c.StaffID) {
			continue
		}
		if nameNeedle != "" && !matchesName(t, byID, nameNeedle) {
			continue
		}
		if c.Complexity != "" && t.Complexity != c.Complexity {
			continue
		}
		if c.StartDate != nil && t.StartTime.Before(*c.StartDate) {
			continue
		}
		// The end bound is inclusive through the entirety of the end
		// calendar day: start-of-day plus 24h, compared with <=.
		if c.EndDate != nil && t.StartTime.After(c.EndDate.Add(24*time.Hour)) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

func involvesStaff(t models.Task, staffID string) bool {
	return t.UserID == staffID || t.LeadID == staffID || t.HasCollaborator(staffID)
}

func matchesName(t models.Task, users map[string]models.User, needle string) bool {
	if creator, ok := users[t.UserID]; ok {
		if strings.Contains(strings.ToLower(creator.Name), needle) {
			return true
		}
	}
	if lead, ok := users[t.LeadID]; ok {
		if strings.Contains(strings.ToLower(lead.Name), needle) {
			return true
		}
	}
	return false
}
