package service_test

import (
	"testing"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/mocks"
	"deployment-tracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockUsers       *mocks.MockUserRepositoryInterface
	mockTechnicians *mocks.MockTechnicianRepositoryInterface
	svc             *service.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockUsers = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.mockTechnicians = mocks.NewMockTechnicianRepositoryInterface(suite.ctrl)
	suite.svc = service.NewUserService(suite.mockUsers, suite.mockTechnicians, validator.New())
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestCreateHashesPasswordAndDefaultsRole() {
	techID := uuid.New()
	var created *models.User

	suite.mockUsers.EXPECT().GetByUsername("sam").Return(nil, gorm.ErrRecordNotFound)
	suite.mockTechnicians.EXPECT().GetByID(techID).Return(&models.Technician{}, nil)
	suite.mockUsers.EXPECT().Create(gomock.Any()).DoAndReturn(func(u *models.User) error {
		u.ID = uuid.New()
		created = u
		return nil
	})
	suite.mockUsers.EXPECT().GetByID(gomock.Any()).DoAndReturn(func(uuid.UUID) (*models.User, error) {
		return created, nil
	})

	user, err := suite.svc.Create(&service.CreateUserRequest{
		Username:     " sam ",
		Email:        "sam@example.com",
		Password:     "s3cret-pass",
		TechnicianID: &techID,
	})
	suite.Require().NoError(err)
	suite.Equal("sam", user.Username)
	suite.Equal(models.RoleTechnician, user.Role)
	suite.Equal(&techID, user.TechnicianID)
	suite.NotEqual("s3cret-pass", user.PasswordHash)
	suite.True(auth.CheckPassword(user.PasswordHash, "s3cret-pass"))
}

func (suite *UserServiceTestSuite) TestCreateRejections() {
	_, err := suite.svc.Create(&service.CreateUserRequest{Username: "sam", Password: "short"})
	suite.Error(err)

	_, err = suite.svc.Create(&service.CreateUserRequest{Username: "sam", Password: "long-enough", Role: "superuser"})
	suite.True(apperrors.IsValidation(err))

	suite.mockUsers.EXPECT().GetByUsername("sam").Return(&models.User{}, nil)
	_, err = suite.svc.Create(&service.CreateUserRequest{Username: "sam", Password: "long-enough"})
	suite.ErrorIs(err, apperrors.ErrUserExists)

	missing := uuid.New()
	suite.mockUsers.EXPECT().GetByUsername("sam").Return(nil, gorm.ErrRecordNotFound)
	suite.mockTechnicians.EXPECT().GetByID(missing).Return(nil, gorm.ErrRecordNotFound)
	_, err = suite.svc.Create(&service.CreateUserRequest{Username: "sam", Password: "long-enough", TechnicianID: &missing})
	suite.ErrorIs(err, apperrors.ErrTechnicianNotFound)
}

func (suite *UserServiceTestSuite) TestUpdateRoleAndUnlinkTechnician() {
	id, techID := uuid.New(), uuid.New()
	user := &models.User{
		BaseModel:    models.BaseModel{ID: id},
		Username:     "sam",
		Role:         models.RoleTechnician,
		TechnicianID: &techID,
		Technician:   &models.Technician{BaseModel: models.BaseModel{ID: techID}},
	}
	role := models.RoleAdmin
	unlink := uuid.Nil

	suite.mockUsers.EXPECT().GetByID(id).Return(user, nil).Times(2)
	suite.mockUsers.EXPECT().Update(gomock.Any()).DoAndReturn(func(u *models.User) error {
		suite.Equal(models.RoleAdmin, u.Role)
		suite.Nil(u.TechnicianID)
		suite.Nil(u.Technician)
		return nil
	})

	updated, err := suite.svc.Update(id, &service.UpdateUserRequest{Role: &role, TechnicianID: &unlink})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, updated.Role)
}

func (suite *UserServiceTestSuite) TestUpdateUnknownUser() {
	id := uuid.New()
	suite.mockUsers.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	email := "x@example.com"
	_, err := suite.svc.Update(id, &service.UpdateUserRequest{Email: &email})
	suite.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestResetPassword() {
	id := uuid.New()
	user := &models.User{BaseModel: models.BaseModel{ID: id}, Username: "sam", PasswordHash: "old"}

	suite.mockUsers.EXPECT().GetByID(id).Return(user, nil)
	suite.mockUsers.EXPECT().Update(user).Return(nil)
	suite.Require().NoError(suite.svc.ResetPassword(id, &service.ResetPasswordRequest{Password: "brand-new-pass"}))
	suite.True(auth.CheckPassword(user.PasswordHash, "brand-new-pass"))

	suite.Error(suite.svc.ResetPassword(id, &service.ResetPasswordRequest{Password: ""}))
}

func (suite *UserServiceTestSuite) TestListAndDelete() {
	suite.mockUsers.EXPECT().GetAll(20, 0).Return(nil, int64(0), nil)
	list, err := suite.svc.List(0, 500)
	suite.Require().NoError(err)
	suite.NotNil(list.Users)
	suite.Equal(1, list.Page)
	suite.Equal(20, list.PageSize)

	id := uuid.New()
	suite.mockUsers.EXPECT().GetByID(id).Return(&models.User{}, nil)
	suite.mockUsers.EXPECT().Delete(id).Return(nil)
	suite.NoError(suite.svc.Delete(id))

	suite.mockUsers.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.svc.Delete(id), apperrors.ErrUserNotFound)
}
