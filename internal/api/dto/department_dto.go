package dto

// CreateDepartmentRequest payload for POST /departments. Any departmentId sent is ignored.
type CreateDepartmentRequest struct {
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName" validate:"required"`
}

// UpdateDepartmentRequest payload for PUT /departments.
type UpdateDepartmentRequest struct {
	DepartmentID   int64  `json:"departmentId" validate:"required,gt=0"`
	DepartmentName string `json:"departmentName" validate:"required"`
}

// DepartmentIDQuery binds the ?id= parameter.
type DepartmentIDQuery struct {
	ID int64 `query:"id" validate:"required"`
}
