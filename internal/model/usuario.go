package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles reconocidos por el middleware de autorización.
const (
	RolAdmin     = "admin"
	RolCliente   = "cliente"
	RolProveedor = "proveedor"
)

// Usuario existe como referencia para compras, carrito y productos de
// proveedor. El alta de usuarios y la emisión de tokens ocurren fuera de
// este servicio; cmd/seeduser crea cuentas de demostración.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"not null;default:'cliente'"` // admin | cliente | proveedor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
