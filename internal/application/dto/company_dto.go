package dto

import "time"

// CompanyRequest alta o edición de empresa.
type CompanyRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// CompanyResponse empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreResponse tienda activa.
type StoreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
