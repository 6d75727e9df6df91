package dto

import "time"

// UserRequest alta o edición de usuario. Password obligatorio solo al crear.
type UserRequest struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Department   string   `json:"department"`
	ApproverID   string   `json:"approver_id"`
	StoreID      string   `json:"store_id"`
	EmployeeCode string   `json:"employee_code"`
	Roles        []string `json:"roles"`
}

// UserResponse usuario (sin hash de contraseña).
type UserResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	ApproverID   string    `json:"approver_id,omitempty"`
	StoreID      string    `json:"store_id,omitempty"`
	EmployeeCode string    `json:"employee_code,omitempty"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}
