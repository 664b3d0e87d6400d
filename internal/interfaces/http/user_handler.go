package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
)

// UserHandler CRUD de usuarios más el cambio de contraseña.
type UserHandler struct {
	*ResourceHandler[dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserResponse, dto.UserListResponse]
	uc *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		ResourceHandler: NewResourceHandler[dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserResponse, dto.UserListResponse](uc),
		uc:              uc,
	}
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.ChangePasswordRequest  true  "nueva contraseña"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ChangePassword(c.UserContext(), id, in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RoleHandler CRUD de roles y catálogo de permisos.
type RoleHandler struct {
	*ResourceHandler[dto.RoleRequest, dto.RoleRequest, dto.RoleResponse, dto.RoleListResponse]
	uc *usecase.RoleUseCase
}

func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{
		ResourceHandler: NewResourceHandler[dto.RoleRequest, dto.RoleRequest, dto.RoleResponse, dto.RoleListResponse](uc),
		uc:              uc,
	}
}

// Permissions lista los permisos asignables a un rol.
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"permissions": h.uc.ListPermissions()})
}
