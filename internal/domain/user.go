package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleSalesEngineer   Role = "sales_engineer"
	RoleCustomerSuccess Role = "customer_success"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSalesEngineer, RoleCustomerSuccess:
		return true
	}
	return false
}

// Operator é um usuário do console administrativo
type Operator struct {
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type Claims struct {
	OperatorEmail string `json:"email"`
	OperatorRole  Role   `json:"role"`
	jwt.RegisteredClaims
}
