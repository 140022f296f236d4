package dto

import "github.com/shopspring/decimal"

type DetalleCompraRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
}

type CrearCompraRequest struct {
	// Fecha de compra en RFC 3339.
	FechaCompra string                 `json:"fecha_compra" validate:"required"`
	Total       decimal.Decimal        `json:"total"        validate:"required"`
	Detalles    []DetalleCompraRequest `json:"detalles"     validate:"required,min=1,dive"`
}

// ActualizarCompraRequest edita solo el encabezado; los detalles y el stock
// no se tocan (para eso está eliminar + volver a crear).
type ActualizarCompraRequest struct {
	FechaCompra string          `json:"fecha_compra" validate:"required"`
	Total       decimal.Decimal `json:"total"        validate:"required"`
}

type DetalleCompraResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type CompraResponse struct {
	ID          string                  `json:"id"`
	UsuarioID   string                  `json:"usuario_id"`
	Comprador   string                  `json:"comprador,omitempty"`
	FechaCompra string                  `json:"fecha_compra"`
	Total       decimal.Decimal         `json:"total"`
	Detalles    []DetalleCompraResponse `json:"detalles"`
	CreatedAt   string                  `json:"created_at"`
}
