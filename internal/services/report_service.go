package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/policy"
	"github.com/tvhoang/workunit-api/internal/report"
	"github.com/tvhoang/workunit-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService computes dashboard aggregates and builds the spreadsheet
// export over the actor's visible task set.
type ReportService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewReportService creates a new ReportService.
func NewReportService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Dashboard is the aggregate view backing the overview page.
type Dashboard struct {
	Total       []models.Task             `json:"total"`
	Todo        []models.Task             `json:"todo"`
	InProgress  []models.Task             `json:"in_progress"`
	Completed   []models.Task             `json:"completed"`
	Complexity  []report.ComplexityCount  `json:"complexity"`
	Performance []report.PerformanceEntry `json:"performance"`
}

// BuildDashboard filters the actor's visible tasks by the supplied criteria
// and aggregates them into status buckets, a complexity histogram, and the
// staff performance ranking.
func (s *ReportService) BuildDashboard(actor models.User, criteria report.Criteria) (*Dashboard, error) {
	users, tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	visible := policy.VisibleTasks(actor, tasks)
	filtered := report.Filter(visible, users, criteria)
	buckets := report.BucketByStatus(filtered)

	return &Dashboard{
		Total:       filtered,
		Todo:        buckets.Todo,
		InProgress:  buckets.InProgress,
		Completed:   buckets.Completed,
		Complexity:  report.ComplexityHistogram(filtered),
		Performance: report.RankPerformance(policy.VisibleUsers(actor, users), filtered),
	}, nil
}

// exportHeader matches the report spreadsheet layout: one row per task.
var exportHeader = []string{
	"Assigner", "Lead", "Unit", "Content", "Complexity", "Status", "Started", "Completed",
}

// ExportTasks renders the actor's filtered visible tasks as an xlsx workbook.
func (s *ReportService) ExportTasks(actor models.User, criteria report.Criteria) ([]byte, error) {
	users, tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	visible := policy.VisibleTasks(actor, tasks)
	filtered := report.Filter(visible, users, criteria)

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, t := range filtered {
		row := []interface{}{
			nameOrPlaceholder(byID, t.UserID),
			nameOrPlaceholder(byID, t.LeadID),
			t.Unit,
			t.Content,
			string(t.Complexity),
			string(t.Status),
			t.StartTime.Format(constants.TimeLayout),
			formatCompleted(t.CompletedTime),
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) load() ([]models.User, []models.Task, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load users: %w", err)
	}
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return users, tasks, nil
}

func nameOrPlaceholder(users map[string]models.User, id string) string {
	if u, ok := users[id]; ok {
		return u.Name
	}
	return "N/A"
}

func formatCompleted(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(constants.TimeLayout)
}
