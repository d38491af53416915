package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/teamtrack/workforce-api/internal/constants"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"github.com/teamtrack/workforce-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.TaskService
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.AssigneeProgress{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	suite.service = services.NewTaskService(taskRepo, userRepo)
	suite.handler = NewTaskHandler(suite.service)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
		Active:       true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(creatorID uint64, assigneeIDs ...uint64) *models.Task {
	task, err := suite.service.CreateTask(services.CreateTaskInput{
		Title:       "Ship release",
		AssigneeIDs: assigneeIDs,
		CreatorID:   creatorID,
	})
	suite.Require().NoError(err)
	return task
}

// createAuthContext builds a request context as RequireAuth would have left it.
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
	}

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{
		"title":     "Ship release",
		"priority":  "high",
		"assignees": []uint64{alice.ID},
	})

	c, w := suite.createAuthContext("POST", "/api/tasks", body, admin)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), true, response["success"])

	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Ship release", data["title"])
	assert.Equal(suite.T(), "pending", data["status"])
	assert.Len(suite.T(), data["progress"].([]interface{}), 1)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingAssignees() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "No one to do it",
	})

	c, w := suite.createAuthContext("POST", "/api/tasks", body, admin)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Unauthorized() {
	c, w := suite.createAuthContext("POST", "/api/tasks", []byte(`{}`), nil)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotVisibleToOutsider() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	mallory := suite.createTestUser("mallory", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, mallory)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_InvalidID() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("GET", "/api/tasks/abc", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, admin)
	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), data["total_count"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidStatusFilter() {
	admin := suite.createTestUser("admin", models.RoleAdmin)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, admin)
	c.Request.URL.RawQuery = "status=bogus"
	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestRequestCompletion_ReportsAwaitingApproval() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	body, _ := json.Marshal(map[string]string{"notes": "all done"})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/request-completion", body, alice)
	suite.setIDParam(c, task.ID)
	suite.handler.RequestCompletion(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, data["awaiting_approval"])

	taskData := data["task"].(map[string]interface{})
	assert.Equal(suite.T(), "completion-requested", taskData["status"])
}

func (suite *TaskHandlerTestSuite) TestRequestCompletion_NotAssignee() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	mallory := suite.createTestUser("mallory", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/request-completion", nil, mallory)
	suite.setIDParam(c, task.ID)
	suite.handler.RequestCompletion(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestApproveCompletion_WrongState() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1/approve", nil, admin)
	suite.setIDParam(c, task.ID)
	suite.handler.ApproveCompletion(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_OPERATION", response["code"])
}

func (suite *TaskHandlerTestSuite) TestRejectCompletion_RequiresReason() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1/reject", []byte(`{}`), admin)
	suite.setIDParam(c, task.ID)
	suite.handler.RejectCompletion(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_UserProgressPatch() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "in-progress",
		"notes":  "started this morning",
		"title":  "should be ignored",
	})

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, alice)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Ship release", data["title"])

	progress := data["progress"].([]interface{})
	suite.Require().Len(progress, 1)
	row := progress[0].(map[string]interface{})
	assert.Equal(suite.T(), "in-progress", row["status"])
	assert.Equal(suite.T(), "started this morning", row["notes"])
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Forbidden() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)
	task := suite.createTestTask(admin.ID, alice.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, alice)
	suite.setIDParam(c, task.ID)
	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
