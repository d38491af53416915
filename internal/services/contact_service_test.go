package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/teamtrack/workforce-api/internal/authz"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ContactServiceTestSuite defines the test suite for ContactService
type ContactServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ContactService
}

// SetupTest runs before each test
func (suite *ContactServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Contact{})
	suite.Require().NoError(err)

	suite.service = NewContactService(repository.NewContactRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *ContactServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ContactServiceTestSuite) adminCaller() authz.Caller {
	return authz.Caller{ID: 1, Role: models.RoleAdmin}
}

func (suite *ContactServiceTestSuite) userCaller() authz.Caller {
	return authz.Caller{ID: 2, Role: models.RoleUser}
}

func (suite *ContactServiceTestSuite) createTestContact() *models.Contact {
	contact, err := suite.service.CreateContact(CreateContactInput{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Question",
		Message: "How do I reset my password?",
	})
	suite.Require().NoError(err)
	return contact
}

func (suite *ContactServiceTestSuite) TestCreateContact_GeneratesReference() {
	first := suite.createTestContact()
	second := suite.createTestContact()

	assert.NotEmpty(suite.T(), first.Reference)
	assert.NotEqual(suite.T(), first.Reference, second.Reference)
	assert.Equal(suite.T(), models.ContactStatusNew, first.Status)
}

func (suite *ContactServiceTestSuite) TestCreateContact_MissingFields() {
	_, err := suite.service.CreateContact(CreateContactInput{
		Name:  "Visitor",
		Email: "visitor@example.com",
	})
	assert.ErrorIs(suite.T(), err, ErrContactFieldsMissing)
}

func (suite *ContactServiceTestSuite) TestListContacts_AdminOnly() {
	suite.createTestContact()

	_, _, err := suite.service.ListContacts(ListContactsInput{}, suite.userCaller())
	assert.ErrorIs(suite.T(), err, ErrAdminOnly)

	contacts, total, err := suite.service.ListContacts(ListContactsInput{}, suite.adminCaller())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), contacts, 1)
}

func (suite *ContactServiceTestSuite) TestUpdateContactStatus_StampsResolver() {
	contact := suite.createTestContact()

	resolved, err := suite.service.UpdateContactStatus(contact.ID, models.ContactStatusResolved, suite.adminCaller())
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.ContactStatusResolved, resolved.Status)
	suite.Require().NotNil(resolved.ResolvedByID)
	assert.Equal(suite.T(), uint64(1), *resolved.ResolvedByID)
}

func (suite *ContactServiceTestSuite) TestUpdateContactStatus_InvalidStatus() {
	contact := suite.createTestContact()

	_, err := suite.service.UpdateContactStatus(contact.ID, models.ContactStatus("archived"), suite.adminCaller())
	assert.ErrorIs(suite.T(), err, ErrInvalidContactStatus)
}

func (suite *ContactServiceTestSuite) TestDeleteContact_AdminOnly() {
	contact := suite.createTestContact()

	err := suite.service.DeleteContact(contact.ID, suite.userCaller())
	assert.ErrorIs(suite.T(), err, ErrAdminOnly)

	err = suite.service.DeleteContact(contact.ID, suite.adminCaller())
	suite.Require().NoError(err)

	_, err = suite.service.GetContact(contact.ID, suite.adminCaller())
	assert.ErrorIs(suite.T(), err, ErrContactNotFound)
}

func TestContactServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContactServiceTestSuite))
}
