package dto

import "github.com/shopspring/decimal"

type AgregarCarritoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1,max=100"`
}

type ActualizarCarritoRequest struct {
	Cantidad int `json:"cantidad" validate:"required,min=1,max=100"`
}

type CarritoItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	Items []CarritoItemResponse `json:"items"`
	Total decimal.Decimal       `json:"total"`
}

type CarritoContarResponse struct {
	Count int64 `json:"count"`
}
