package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/auth"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	BrandUC      *usecase.BrandUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	ProductUC    *usecase.ProductUseCase
	UserUC       *usecase.UserUseCase
	RoleUC       *usecase.RoleUseCase
	StatisticsUC *usecase.StatisticsUseCase
	InputUC      *inventory.StockInputUseCase
	OutputUC     *inventory.StockOutputUseCase
	ReceiptUC    *inventory.ReceiptUseCase
	JWTSecret    string
	// Health verifica dependencias (p. ej. ping a la DB); nil = siempre ok.
	Health func(ctx context.Context) error
}

// Router registra /health y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "base de datos no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	NewResourceHandler[dto.BrandRequest, dto.BrandRequest, dto.BrandResponse, dto.BrandListResponse](deps.BrandUC).
		register(protected.Group("/brands"), entity.PermCatalogRead, entity.PermCatalogWrite)
	NewResourceHandler[dto.CategoryRequest, dto.CategoryRequest, dto.CategoryResponse, dto.CategoryListResponse](deps.CategoryUC).
		register(protected.Group("/categories"), entity.PermCatalogRead, entity.PermCatalogWrite)
	NewResourceHandler[dto.SupplierRequest, dto.SupplierRequest, dto.SupplierResponse, dto.SupplierListResponse](deps.SupplierUC).
		register(protected.Group("/suppliers"), entity.PermCatalogRead, entity.PermCatalogWrite)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/:id/batches", RequirePermission(entity.PermProductsRead), productHandler.Batches)
	productHandler.register(products, entity.PermProductsRead, entity.PermProductsWrite)

	stockHandler := NewStockHandler(deps.InputUC, deps.OutputUC, deps.ReceiptUC)
	inputs := protected.Group("/inputs")
	inputsRead := RequirePermission(entity.PermInputsRead)
	inputsWrite := RequirePermission(entity.PermInputsWrite)
	inputs.Get("/", inputsRead, stockHandler.ListInputs)
	inputs.Post("/", inputsWrite, stockHandler.CreateInput)
	inputs.Get("/:id", inputsRead, stockHandler.GetInput)
	inputs.Delete("/:id", inputsWrite, stockHandler.DeleteInput)
	inputs.Post("/:id/restore", inputsWrite, stockHandler.RestoreInput)

	outputs := protected.Group("/outputs")
	outputsRead := RequirePermission(entity.PermOutputsRead)
	outputsWrite := RequirePermission(entity.PermOutputsWrite)
	outputs.Get("/", outputsRead, stockHandler.ListOutputs)
	outputs.Post("/", outputsWrite, stockHandler.CreateOutput)
	outputs.Get("/:id", outputsRead, stockHandler.GetOutput)
	outputs.Get("/:id/pdf", outputsRead, stockHandler.OutputPDF)
	outputs.Delete("/:id", outputsWrite, stockHandler.DeleteOutput)
	outputs.Post("/:id/restore", outputsWrite, stockHandler.RestoreOutput)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Put("/:id/password", RequirePermission(entity.PermUsersManage), userHandler.ChangePassword)
	userHandler.register(users, entity.PermUsersManage, entity.PermUsersManage)

	roleHandler := NewRoleHandler(deps.RoleUC)
	protected.Get("/permissions", RequirePermission(entity.PermRolesManage), roleHandler.Permissions)
	roleHandler.register(protected.Group("/roles"), entity.PermRolesManage, entity.PermRolesManage)

	stats := protected.Group("/statistics", RequirePermission(entity.PermStatisticsRead))
	statsHandler := NewStatisticsHandler(deps.StatisticsUC)
	stats.Get("/summary", statsHandler.Summary)
	stats.Get("/low-stock", statsHandler.LowStock)
}
