package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

// AttendanceHandlerTestSuite defines the test suite for AttendanceHandler
type AttendanceHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.AttendanceService
	handler *AttendanceHandler
}

// SetupTest runs before each test
func (suite *AttendanceHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Attendance{},
	)
	suite.Require().NoError(err)

	attRepo := repository.NewAttendanceRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	suite.service = services.NewAttendanceService(attRepo, userRepo)
	suite.handler = NewAttendanceHandler(suite.service)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AttendanceHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AttendanceHandlerTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
		Active:       true,
	}
	suite.db.Create(user)
	return user
}

func (suite *AttendanceHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *AttendanceHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_Success() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("POST", "/api/attendance/checkin", nil, alice)
	suite.handler.CheckIn(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "present", data["status"])
	assert.NotNil(suite.T(), data["check_in_time"])
}

func (suite *AttendanceHandlerTestSuite) TestCheckIn_Twice() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, _ := suite.createAuthContext("POST", "/api/attendance/checkin", nil, alice)
	suite.handler.CheckIn(c)

	c, w := suite.createAuthContext("POST", "/api/attendance/checkin", nil, alice)
	suite.handler.CheckIn(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "CONFLICT", response["code"])
}

func (suite *AttendanceHandlerTestSuite) TestCheckOut_WithoutCheckIn() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("POST", "/api/attendance/checkout", nil, alice)
	suite.handler.CheckOut(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestCheckOut_Success() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, _ := suite.createAuthContext("POST", "/api/attendance/checkin", nil, alice)
	suite.handler.CheckIn(c)

	c, w := suite.createAuthContext("POST", "/api/attendance/checkout", nil, alice)
	suite.handler.CheckOut(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.NotNil(suite.T(), data["check_out_time"])
}

func (suite *AttendanceHandlerTestSuite) TestCreateAttendance_Success() {
	admin := suite.createTestUser("admin", models.RoleAdmin)
	alice := suite.createTestUser("alice", models.RoleUser)

	date := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(map[string]interface{}{
		"user_id": alice.ID,
		"date":    date.Format(time.RFC3339),
		"status":  "leave",
		"remarks": "annual leave",
	})

	c, w := suite.createAuthContext("POST", "/api/attendance", body, admin)
	suite.handler.CreateAttendance(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "leave", data["status"])
	assert.Equal(suite.T(), float64(alice.ID), data["user_id"])
}

func (suite *AttendanceHandlerTestSuite) TestCreateAttendance_InvalidStatus() {
	alice := suite.createTestUser("alice", models.RoleUser)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "bogus",
	})

	c, w := suite.createAuthContext("POST", "/api/attendance", body, alice)
	suite.handler.CreateAttendance(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestGetAttendance_OtherUsersRecord() {
	alice := suite.createTestUser("alice", models.RoleUser)
	bob := suite.createTestUser("bob", models.RoleUser)

	att, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/attendance/1", nil, bob)
	suite.setIDParam(c, att.ID)
	suite.handler.GetAttendance(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestUpdateAttendance_UserMaskedFieldsIgnored() {
	alice := suite.createTestUser("alice", models.RoleUser)

	att, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"status":         "late",
		"remarks":        "overslept",
		"check_out_time": "2026-08-21T23:00:00Z",
	})

	c, w := suite.createAuthContext("PUT", "/api/attendance/1", body, alice)
	suite.setIDParam(c, att.ID)
	suite.handler.UpdateAttendance(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "late", data["status"])
	assert.Equal(suite.T(), "overslept", data["remarks"])
	assert.Nil(suite.T(), data["check_out_time"])
}

func (suite *AttendanceHandlerTestSuite) TestApprove_Forbidden() {
	alice := suite.createTestUser("alice", models.RoleUser)

	att, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PUT", "/api/attendance/1/approve", nil, alice)
	suite.setIDParam(c, att.ID)
	suite.handler.Approve(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestDisapprove_ForcesAbsent() {
	alice := suite.createTestUser("alice", models.RoleUser)
	admin := suite.createTestUser("admin", models.RoleAdmin)

	att, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("PUT", "/api/attendance/1/disapprove", nil, admin)
	suite.setIDParam(c, att.ID)
	suite.handler.Disapprove(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "absent", data["status"])
	assert.Nil(suite.T(), data["approved_by_id"])
}

func (suite *AttendanceHandlerTestSuite) TestListPending_Success() {
	alice := suite.createTestUser("alice", models.RoleUser)
	admin := suite.createTestUser("admin", models.RoleAdmin)

	_, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/attendance/pending", nil, admin)
	suite.handler.ListPending(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response["data"].([]interface{}), 1)
}

func (suite *AttendanceHandlerTestSuite) TestDeleteAttendance_Forbidden() {
	alice := suite.createTestUser("alice", models.RoleUser)

	att, err := suite.service.CheckIn(alice.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("DELETE", "/api/attendance/1", nil, alice)
	suite.setIDParam(c, att.ID)
	suite.handler.DeleteAttendance(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestAttendanceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceHandlerTestSuite))
}
