package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/models"
	"github.com/sosnovich/skyward/internal/services"
)

type UserHandler struct {
	userService    *services.UserService
	projectService *services.ProjectService
}

func NewUserHandler(userService *services.UserService, projectService *services.ProjectService) *UserHandler {
	return &UserHandler{userService: userService, projectService: projectService}
}

func userID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func toProjectResponse(p *models.ExternalProject) dto.ProjectResponse {
	return dto.ProjectResponse{ProjectID: p.ProjectID, UserID: p.UserID, Name: p.Name}
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.NewUserRequest
	if err := c.BodyParser(&req); err != nil {
		return malformedBody(c, err)
	}
	if err := req.Validate(); err != nil {
		return validationFailure(c, err, &req)
	}

	user, err := h.userService.CreateUser(c.Context(), &req).Await(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found",
		})
	}

	user, err := h.userService.GetUserByID(c.Context(), id).Await(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found with ID: " + c.Params("id"),
		})
	}
	return c.JSON(toUserResponse(user))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found",
		})
	}

	var patch dto.UpdateUserRequest
	if err := c.BodyParser(&patch); err != nil {
		return malformedBody(c, err)
	}
	if err := patch.Validate(); err != nil {
		return validationFailure(c, err, &patch)
	}

	updated, err := h.userService.UpdateUser(c.Context(), id, &patch).Await(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found with ID: " + c.Params("id"),
		})
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found",
		})
	}

	if _, err := h.userService.DeleteUser(c.Context(), id).Await(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) AssignProject(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found",
		})
	}

	var req dto.NewProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return malformedBody(c, err)
	}
	if err := req.Validate(); err != nil {
		return validationFailure(c, err, &req)
	}

	project, err := h.projectService.AssignProject(c.Context(), id, &req).Await(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProjectResponse(project))
}

func (h *UserHandler) ListProjects(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "user not found",
		})
	}

	projects, err := h.projectService.ProjectsByUserID(c.Context(), id).Await(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, toProjectResponse(&projects[i]))
	}
	return c.JSON(resp)
}
