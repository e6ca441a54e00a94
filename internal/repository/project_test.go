package repository

import (
	"errors"
	"testing"

	"deployment-tracker/internal/database/models"
	"deployment-tracker/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ProjectRepositoryTestSuite tests the ProjectRepository and FieldRepository
type ProjectRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *ProjectRepository
	fields        *FieldRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *ProjectRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupSQLiteSuite(suite.T())
	suite.repo = NewProjectRepository(suite.baseTestSuite.DB)
	suite.fields = NewFieldRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// SetupTest runs before each test
func (suite *ProjectRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *ProjectRepositoryTestSuite) TestCreateWithFields() {
	f := suite.factories.Field
	project := suite.factories.Project.WithFields(
		*f.Create(uuid.Nil, "Serial"),
		*f.WithType(uuid.Nil, "Site", models.FieldTypeDropdown),
	)
	project.Fields[1].Options = []string{"HQ", "Annex"}

	suite.Require().NoError(suite.repo.Create(project))
	suite.NotZero(project.CreatedAt)

	got, err := suite.repo.GetWithFields(project.ID)
	suite.Require().NoError(err)
	suite.Require().Len(got.Fields, 2)
	suite.Equal("Serial", got.Fields[0].Name)
	suite.Equal(project.ID, got.Fields[0].ProjectID)
	suite.Equal([]string{"HQ", "Annex"}, []string(got.Fields[1].Options))
}

func (suite *ProjectRepositoryTestSuite) TestGetByIDNotFound() {
	_, err := suite.repo.GetByID(uuid.New())
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *ProjectRepositoryTestSuite) TestGetAllPaginates() {
	for i := 0; i < 3; i++ {
		suite.Require().NoError(suite.repo.Create(suite.factories.Project.Create()))
	}

	projects, total, err := suite.repo.GetAll(2, 0)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(projects, 2)

	projects, _, err = suite.repo.GetAll(2, 2)
	suite.Require().NoError(err)
	suite.Len(projects, 1)
}

func (suite *ProjectRepositoryTestSuite) TestUpdateAndGetByName() {
	project := suite.factories.Project.WithName("Before")
	suite.Require().NoError(suite.repo.Create(project))

	project.Name = "After"
	project.ExpectedCount = 99
	suite.Require().NoError(suite.repo.Update(project))

	got, err := suite.repo.GetByName("After")
	suite.Require().NoError(err)
	suite.Equal(99, got.ExpectedCount)
}

func (suite *ProjectRepositoryTestSuite) TestDeleteCascades() {
	project := suite.factories.Project.WithFields(*suite.factories.Field.Create(uuid.Nil, "Serial"))
	suite.Require().NoError(suite.repo.Create(project))
	deployment := suite.factories.Deployment.Create(project.ID)
	deployment.FieldValues = []models.DeploymentFieldValue{{FieldID: project.Fields[0].ID, Value: "SN1"}}
	suite.Require().NoError(NewDeploymentRepository(suite.baseTestSuite.DB).Create(deployment))

	suite.Require().NoError(suite.repo.Delete(project.ID))

	var count int64
	suite.baseTestSuite.DB.Model(&models.ProjectField{}).Count(&count)
	suite.Zero(count)
	suite.baseTestSuite.DB.Model(&models.Deployment{}).Count(&count)
	suite.Zero(count)
	suite.baseTestSuite.DB.Model(&models.DeploymentFieldValue{}).Count(&count)
	suite.Zero(count)
}

func (suite *ProjectRepositoryTestSuite) TestFieldOrderAndLookup() {
	project := suite.factories.Project.Create()
	suite.Require().NoError(suite.repo.Create(project))

	order, err := suite.fields.MaxOrder(project.ID)
	suite.Require().NoError(err)
	suite.Equal(-1, order)

	first := suite.factories.Field.Create(project.ID, "Serial Number")
	first.Order = 4
	suite.Require().NoError(suite.fields.Create(first))
	second := suite.factories.Field.Create(project.ID, "Asset")
	second.Order = 1
	suite.Require().NoError(suite.fields.Create(second))

	order, err = suite.fields.MaxOrder(project.ID)
	suite.Require().NoError(err)
	suite.Equal(4, order)

	list, err := suite.fields.GetByProjectID(project.ID)
	suite.Require().NoError(err)
	suite.Equal("Asset", list[0].Name)

	got, err := suite.fields.GetByName(project.ID, "serial number")
	suite.Require().NoError(err)
	suite.Equal(first.ID, got.ID)

	suite.Require().NoError(suite.fields.Delete(first.ID))
	_, err = suite.fields.GetByID(first.ID)
	suite.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (suite *ProjectRepositoryTestSuite) TestFieldNameUniquePerProject() {
	project := suite.factories.Project.Create()
	suite.Require().NoError(suite.repo.Create(project))

	suite.Require().NoError(suite.fields.Create(suite.factories.Field.Create(project.ID, "Serial")))
	suite.Error(suite.fields.Create(suite.factories.Field.Create(project.ID, "Serial")))
}

func TestProjectRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectRepositoryTestSuite))
}
