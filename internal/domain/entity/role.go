package entity

import "time"

// Permisos del sistema. Los roles agrupan subconjuntos de este catálogo.
const (
	PermProductsRead   = "products.read"
	PermProductsWrite  = "products.write"
	PermCatalogRead    = "catalog.read"
	PermCatalogWrite   = "catalog.write"
	PermInputsRead     = "inputs.read"
	PermInputsWrite    = "inputs.write"
	PermOutputsRead    = "outputs.read"
	PermOutputsWrite   = "outputs.write"
	PermUsersManage    = "users.manage"
	PermRolesManage    = "roles.manage"
	PermStatisticsRead = "statistics.read"
)

// Roles creados por el seed inicial.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista"
	RoleVendedor    = "vendedor"
)

// AllPermissions catálogo completo en orden estable.
func AllPermissions() []string {
	return []string{
		PermProductsRead, PermProductsWrite,
		PermCatalogRead, PermCatalogWrite,
		PermInputsRead, PermInputsWrite,
		PermOutputsRead, PermOutputsWrite,
		PermUsersManage, PermRolesManage,
		PermStatisticsRead,
	}
}

// IsValidPermission verifica que p pertenezca al catálogo.
func IsValidPermission(p string) bool {
	for _, known := range AllPermissions() {
		if known == p {
			return true
		}
	}
	return false
}

// Role agrupa permisos asignables a usuarios.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SoftDelete
}

// HasPermission informa si el rol incluye el permiso p.
func (r *Role) HasPermission(p string) bool {
	for _, perm := range r.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// DefaultRoles roles base con sus permisos.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleAdmin, Description: "Acceso total", Permissions: AllPermissions()},
		{Name: RoleAlmacenista, Description: "Catálogo y entradas de stock", Permissions: []string{
			PermProductsRead, PermProductsWrite, PermCatalogRead, PermCatalogWrite,
			PermInputsRead, PermInputsWrite, PermOutputsRead,
		}},
		{Name: RoleVendedor, Description: "Ventas", Permissions: []string{
			PermProductsRead, PermCatalogRead, PermOutputsRead, PermOutputsWrite,
		}},
	}
}
