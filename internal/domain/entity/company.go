package entity

import (
	"regexp"
	"strings"
	"time"
)

var companyCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Company representa un tenant del portal. Todo dato de negocio se aísla por CompanyID.
type Company struct {
	ID        string
	Name      string
	Code      string // código de acceso que el usuario escribe en el login
	CreatedAt time.Time
}

// NormalizeCompanyCode pasa el código a mayúsculas y recorta espacios.
func NormalizeCompanyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCompanyCode indica si el código (ya normalizado) solo tiene A-Z, 0-9, guion y guion bajo.
func ValidCompanyCode(code string) bool {
	return companyCodePattern.MatchString(code)
}

// Store tienda o centro de costo al que se imputan reportes y referidos.
type Store struct {
	ID        string
	CompanyID string
	Name      string
	IsActive  bool
}
