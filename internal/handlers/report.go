package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tvhoang/workunit-api/internal/errors"
	"github.com/tvhoang/workunit-api/internal/middleware"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/report"
	"github.com/tvhoang/workunit-api/internal/services"
)

// ReportHandler serves the dashboard aggregates and the spreadsheet export.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// dateLayout matches the date pickers: a bare calendar day.
const dateLayout = "2006-01-02"

// criteriaFromQuery reads the shared filter query parameters.
func criteriaFromQuery(c *gin.Context) (report.Criteria, error) {
	criteria := report.Criteria{
		Unit:          c.Query("unit"),
		StaffID:       c.Query("staff_id"),
		NameSubstring: c.Query("name"),
		Complexity:    models.TaskComplexity(c.Query("complexity")),
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return criteria, fmt.Errorf("invalid start_date %q", v)
		}
		criteria.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return criteria, fmt.Errorf("invalid end_date %q", v)
		}
		criteria.EndDate = &t
	}

	return criteria, nil
}

// Dashboard returns status buckets, the complexity histogram, and the staff
// performance ranking over the actor's filtered visible tasks.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	dashboard, err := h.reportService.BuildDashboard(actor, criteria)
	if err != nil {
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_count":       len(dashboard.Total),
		"todo_count":        len(dashboard.Todo),
		"in_progress_count": len(dashboard.InProgress),
		"completed_count":   len(dashboard.Completed),
		"complexity":        dashboard.Complexity,
		"performance":       dashboard.Performance,
	})
}

// Export streams the filtered task report as an xlsx workbook.
func (h *ReportHandler) Export(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	data, err := h.reportService.ExportTasks(actor, criteria)
	if err != nil {
		apierrors.InternalError(c, "Failed to build report")
		return
	}

	filename := fmt.Sprintf("task_report_%d.xlsx", time.Now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
