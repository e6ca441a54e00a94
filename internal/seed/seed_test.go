package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"deployment-tracker/internal/auth"
	"deployment-tracker/internal/database/models"
	"deployment-tracker/internal/seed"
	"deployment-tracker/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `
statuses:
  - name: Pending
    order: 1
  - name: Completed
    order: 4
technicians:
  - username: jdoe
    name: Jane Doe
departments:
  - name: IT
    division: Technology
  - name: Finance
    division: Corporate
users:
  - username: admin
    password: admin123
    role: admin
  - username: jdoe
    password: tech123
    technician: jdoe
`

func TestApplyCreatesRecordsOnce(t *testing.T) {
	db := testutils.NewSQLiteDB(t)

	data, err := seed.Parse([]byte(sampleSeed))
	require.NoError(t, err)

	result, err := seed.Apply(db, data)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{Statuses: 2, Technicians: 1, Departments: 2, Users: 2}, result)

	again, err := seed.Apply(db, data)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{}, again)

	var statuses []models.DeploymentStatus
	require.NoError(t, db.Order("sort_order").Find(&statuses).Error)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Pending", statuses[0].Name)

	var technician models.Technician
	require.NoError(t, db.Where("username = ?", "jdoe").First(&technician).Error)

	var user models.User
	require.NoError(t, db.Where("username = ?", "jdoe").First(&user).Error)
	assert.Equal(t, models.RoleTechnician, user.Role)
	require.NotNil(t, user.TechnicianID)
	assert.Equal(t, technician.ID, *user.TechnicianID)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "tech123"))

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Nil(t, admin.TechnicianID)
}

func TestApplyRollsBackOnInvalidUser(t *testing.T) {
	db := testutils.NewSQLiteDB(t)

	data := &seed.Data{
		Statuses: []seed.StatusData{{Name: "Pending"}},
		Users:    []seed.UserData{{Username: "ghost", Password: "x", Role: "owner"}},
	}
	_, err := seed.Apply(db, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "owner"`)

	var count int64
	require.NoError(t, db.Model(&models.DeploymentStatus{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyRejectsUnknownTechnicianLink(t *testing.T) {
	db := testutils.NewSQLiteDB(t)

	data := &seed.Data{
		Users: []seed.UserData{{Username: "tech", Password: "tech123", Technician: "nobody"}},
	}
	_, err := seed.Apply(db, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown technician nobody")
}

func TestLoadFile(t *testing.T) {
	db := testutils.NewSQLiteDB(t)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o600))

	result, err := seed.LoadFile(db, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Departments)

	_, err = seed.LoadFile(db, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := seed.Parse([]byte("statuses: [name: {"))
	assert.Error(t, err)
}
