package models

// FieldType defines the value type of a project field
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
)

// IsValid checks if the FieldType is valid
func (f FieldType) IsValid() bool {
	switch f {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeDropdown, FieldTypeCheckbox:
		return true
	}
	return false
}

// FieldTypes lists every supported field type in display order
func FieldTypes() []FieldType {
	return []FieldType{FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeDropdown, FieldTypeCheckbox}
}

// Role is the closed set of user roles
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

// IsValid checks if the Role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTechnician:
		return true
	}
	return false
}
