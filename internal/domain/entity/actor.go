package entity

// Actor quién ejecuta una operación: identidad de la sesión más la empresa resuelta para la petición.
type Actor struct {
	UserID    string
	CompanyID string // empresa efectiva; para platform_admin la seleccionada
	Roles     []string
	StoreID   string
	Name      string
	IP        string
}

// Has true si el actor tiene alguno de los roles.
func (a Actor) Has(roles ...string) bool {
	return HasAnyRole(a.Roles, roles...)
}

// IsPlatformAdmin atajo para el rol de plataforma.
func (a Actor) IsPlatformAdmin() bool {
	return HasRole(a.Roles, RolePlatformAdmin)
}
