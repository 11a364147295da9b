package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-service/internal/api/dto"
	"github.com/spec-kit/department-service/internal/service"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

// DepartmentsHandler exposes department CRUD endpoints.
type DepartmentsHandler struct {
	queries  *service.DepartmentQueryService
	commands *service.DepartmentCommandService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(queries *service.DepartmentQueryService, commands *service.DepartmentCommandService) *DepartmentsHandler {
	return &DepartmentsHandler{queries: queries, commands: commands}
}

// List handles GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	return write(c, h.queries.GetAllDepartments(c.UserContext()))
}

// GetByID handles GET /departments/GetById?id=.
func (h *DepartmentsHandler) GetByID(c *fiber.Ctx) error {
	id, err := departmentID(c)
	if err != nil {
		return err
	}
	return write(c, h.queries.GetDepartmentByID(c.UserContext(), id))
}

// Create handles POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return write(c, h.commands.CreateDepartment(c.UserContext(), req.DepartmentName))
}

// Update handles PUT /departments.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDepartmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return write(c, h.commands.UpdateDepartment(c.UserContext(), req.DepartmentID, req.DepartmentName))
}

// Delete handles DELETE /departments?id=.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	id, err := departmentID(c)
	if err != nil {
		return err
	}
	return write(c, h.commands.DeleteDepartment(c.UserContext(), id))
}

func departmentID(c *fiber.Ctx) (int64, error) {
	var q dto.DepartmentIDQuery
	if err := c.QueryParser(&q); err != nil {
		return 0, apperrors.NewValidationError("Validation failed", []string{"id must be an integer"})
	}
	if err := dto.Validate(q); err != nil {
		return 0, err
	}
	return q.ID, nil
}
