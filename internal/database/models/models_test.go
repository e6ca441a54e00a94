package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFieldTypeIsValid(t *testing.T) {
	for _, ft := range FieldTypes() {
		assert.True(t, ft.IsValid(), ft)
	}
	assert.False(t, FieldType("percentage").IsValid())
	assert.False(t, FieldType("").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleTechnician.IsValid())
	assert.False(t, Role("viewer").IsValid())
}

func TestProjectSortedFields(t *testing.T) {
	p := &Project{Fields: []ProjectField{
		{Name: "Serial", Order: 2},
		{Name: "Asset", Order: 0},
		{Name: "Building", Order: 2},
		{Name: "Model", Order: 1},
	}}

	sorted := p.SortedFields()

	names := make([]string, len(sorted))
	for i, f := range sorted {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Asset", "Model", "Building", "Serial"}, names)
	assert.Equal(t, "Serial", p.Fields[0].Name, "original slice must not be reordered")
}

func TestBeforeCreateAssignsID(t *testing.T) {
	var b BaseModel
	assert.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)

	fixed := uuid.New()
	b2 := BaseModel{ID: fixed}
	assert.NoError(t, b2.BeforeCreate(nil))
	assert.Equal(t, fixed, b2.ID)
}
