package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/database"
	"github.com/tvhoang/workunit-api/internal/dto"
	"github.com/tvhoang/workunit-api/internal/middleware"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/repository"
	"github.com/tvhoang/workunit-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *services.TaskService
	router      *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskCollaborator{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.taskService = services.NewTaskService(taskRepo, userRepo)
	handler := NewTaskHandler(suite.taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Create router. The identity middleware stands in for the session
	// layer: the X-Test-User header becomes the authenticated user ID.
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})

	tasks := suite.router.Group("/api/tasks", middleware.LoadActor(userRepo))
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
	tasks.POST("/:id/status", handler.UpdateStatus)
	tasks.GET("/:id/attachments/:att_id", handler.DownloadAttachment)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(id, unit, level string, role models.UserRole) *models.User {
	user := &models.User{
		ID:            id,
		Name:          "User " + id,
		Unit:          unit,
		Email:         id + "@gdt.gov.vn",
		PasswordHash:  "hashedpassword",
		Role:          role,
		DelegateLevel: level,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTaskAs(actor *models.User, input services.CreateTaskInput) *models.Task {
	task, err := suite.taskService.CreateTask(*actor, input)
	suite.Require().NoError(err)
	return task
}

// do performs a request against the router as the given user.
func (suite *TaskHandlerTestSuite) do(method, url string, payload interface{}, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) listedIDs(w *httptest.ResponseRecorder) []string {
	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	ids := make([]string, len(response.Tasks))
	for i, task := range response.Tasks {
		ids[i] = task.ID
	}
	return ids
}

// TestListTasks_VisibilityMatrix walks the three access tiers over a mixed
// two-unit board.
func (suite *TaskHandlerTestSuite) TestListTasks_VisibilityMatrix() {
	admin := suite.createTestUser("admin", "Head Office", "X1", models.RoleAdmin)
	leadIT := suite.createTestUser("lead-it", "IT", "X2", models.RoleUnitLead)
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	staffB := suite.createTestUser("staff-b", "IT", "X3", models.RoleStaff)
	staffFin := suite.createTestUser("staff-fin", "Finance", "X3", models.RoleStaff)

	own := suite.createTaskAs(staffA, services.CreateTaskInput{Content: "own work"})
	delegated := suite.createTaskAs(leadIT, services.CreateTaskInput{
		Content:         "delegated work",
		LeadID:          staffB.ID,
		CollaboratorIDs: []string{staffA.ID},
	})
	finance := suite.createTaskAs(staffFin, services.CreateTaskInput{Content: "finance work"})

	w := suite.do("GET", "/api/tasks", nil, admin.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{own.ID, delegated.ID, finance.ID}, suite.listedIDs(w))

	w = suite.do("GET", "/api/tasks", nil, leadIT.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{own.ID, delegated.ID}, suite.listedIDs(w),
		"a unit lead sees every task in their unit")

	w = suite.do("GET", "/api/tasks", nil, staffA.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{own.ID, delegated.ID}, suite.listedIDs(w),
		"staff see their own and collaborated tasks")

	w = suite.do("GET", "/api/tasks", nil, staffB.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{delegated.ID}, suite.listedIDs(w))

	w = suite.do("GET", "/api/tasks", nil, staffFin.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.ElementsMatch(suite.T(), []string{finance.ID}, suite.listedIDs(w))
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthenticated() {
	w := suite.do("GET", "/api/tasks", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_DeletedAccount() {
	w := suite.do("GET", "/api/tasks", nil, "ghost")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Delegation() {
	leadIT := suite.createTestUser("lead-it", "IT", "X2", models.RoleUnitLead)
	staffB := suite.createTestUser("staff-b", "IT", "X3", models.RoleStaff)

	w := suite.do("POST", "/api/tasks", map[string]interface{}{
		"content":    "quarterly numbers",
		"complexity": "HARD",
		"lead_id":    staffB.ID,
	}, leadIT.ID)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), leadIT.ID, response.UserID)
	assert.Equal(suite.T(), staffB.ID, response.LeadID)
	assert.Equal(suite.T(), models.ComplexityHard, response.Complexity)
	assert.Equal(suite.T(), models.TaskStatusTodo, response.Status)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_LateralDelegationForbidden() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	staffB := suite.createTestUser("staff-b", "IT", "X3", models.RoleStaff)

	w := suite.do("POST", "/api/tasks", map[string]interface{}{
		"content": "pass the buck",
		"lead_id": staffB.ID,
	}, staffA.ID)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateStatus() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	task := suite.createTaskAs(staffA, services.CreateTaskInput{Content: "work"})

	w := suite.do("POST", "/api/tasks/"+task.ID+"/status", map[string]string{
		"status": "IN_PROGRESS",
	}, staffA.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusInProgress, response.Status)
	assert.Nil(suite.T(), response.CompletedTime)

	w = suite.do("POST", "/api/tasks/"+task.ID+"/status", map[string]string{
		"status": "DONE",
	}, staffA.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialEdit() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	task := suite.createTaskAs(staffA, services.CreateTaskInput{Content: "draft"})

	w := suite.do("PATCH", "/api/tasks/"+task.ID, map[string]string{
		"content": "final",
	}, staffA.ID)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "final", response.Content)
	assert.Equal(suite.T(), models.ComplexityMedium, response.Complexity)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Forbidden() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	outsider := suite.createTestUser("staff-fin", "Finance", "X3", models.RoleStaff)
	task := suite.createTaskAs(staffA, services.CreateTaskInput{Content: "private"})

	w := suite.do("GET", "/api/tasks/"+task.ID, nil, outsider.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)
	outsider := suite.createTestUser("staff-fin", "Finance", "X3", models.RoleStaff)
	task := suite.createTaskAs(staffA, services.CreateTaskInput{Content: "scrap"})

	w := suite.do("DELETE", "/api/tasks/"+task.ID, nil, outsider.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do("DELETE", "/api/tasks/"+task.ID, nil, staffA.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", "/api/tasks/"+task.ID, nil, staffA.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAttachmentRoundTrip() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)

	content := []byte("%PDF-1.4 fake")
	w := suite.do("POST", "/api/tasks", map[string]interface{}{
		"content": "with file",
		"attachments": []map[string]string{
			{
				"name":         "scan.pdf",
				"content_type": "application/pdf",
				"data":         base64.StdEncoding.EncodeToString(content),
			},
		},
	}, staffA.ID)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Require().Len(created.Attachments, 1)
	assert.Equal(suite.T(), "scan.pdf", created.Attachments[0].Name)

	attID := strconv.FormatUint(created.Attachments[0].ID, 10)
	w = suite.do("GET", "/api/tasks/"+created.ID+"/attachments/"+attID, nil, staffA.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Equal(suite.T(), "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(suite.T(), content, w.Body.Bytes())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_BadAttachmentEncoding() {
	staffA := suite.createTestUser("staff-a", "IT", "X3", models.RoleStaff)

	w := suite.do("POST", "/api/tasks", map[string]interface{}{
		"content": "with file",
		"attachments": []map[string]string{
			{"name": "scan.pdf", "data": "not base64!!"},
		},
	}, staffA.ID)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
