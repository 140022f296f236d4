package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2,max=120"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"       validate:"required"`
	Cantidad    int             `json:"cantidad"     validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID *string          `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	EnStock     bool   `form:"en_stock"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Cantidad    int             `json:"cantidad"`
	StockMinimo int             `json:"stock_minimo"`
	Categoria   *string         `json:"categoria"`
	CreatedAt   string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// DisponibilidadResponse alimenta la consulta pública de catálogo; se cachea
// en Redis con TTL corto, así que el stock puede tener segundos de atraso.
type DisponibilidadResponse struct {
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Disponible int             `json:"disponible"`
	Categoria  *string         `json:"categoria"`
}
