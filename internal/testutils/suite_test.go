package testutils

import (
	"testing"

	"deployment-tracker/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSQLiteSuiteCleansTables(t *testing.T) {
	s := SetupSQLiteSuite(t)
	f := NewFactorySet()

	project := f.Project.WithFields(*f.Field.Required(uuid.Nil, "Serial"))
	require.NoError(t, s.DB.Create(project).Error)
	status := f.Status.Create("Pending", 0)
	require.NoError(t, s.DB.Create(status).Error)
	require.NoError(t, s.DB.Create(f.Deployment.WithStatus(project.ID, status.ID)).Error)
	require.NoError(t, s.DB.Create(f.User.Create(models.RoleAdmin)).Error)

	var count int64
	require.NoError(t, s.DB.Model(&models.ProjectField{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	s.CleanTestDB()

	for _, model := range []interface{}{&models.Project{}, &models.ProjectField{}, &models.Deployment{}, &models.DeploymentStatus{}, &models.User{}} {
		require.NoError(t, s.DB.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestFactoriesProduceUniqueRecords(t *testing.T) {
	f := NewFactorySet()

	a, b := f.Technician.Create(), f.Technician.Create()
	assert.NotEqual(t, a.Username, b.Username)
	assert.NotEqual(t, a.ID, b.ID)

	project := f.Project.WithFields(*f.Field.Create(a.ID, "Serial"), *f.Field.Create(a.ID, "Site"))
	assert.Equal(t, 0, project.Fields[0].Order)
	assert.Equal(t, 1, project.Fields[1].Order)

	user := f.User.Create(models.RoleTechnician)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password")))
}
