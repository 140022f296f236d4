package dto

import "github.com/shopspring/decimal"

// RegistrarMovimientoRequest crea un movimiento de inventario.
// Para tipo "ajuste", cantidad es la NUEVA cantidad total del producto (puede
// ser 0); para el resto es la magnitud del movimiento (>= 1). El mínimo por
// tipo se valida en el servicio, no acá.
type RegistrarMovimientoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Tipo       string `json:"tipo"        validate:"required"`
	Cantidad   int    `json:"cantidad"    validate:"min=0"`
	// Fecha declarada del movimiento (RFC 3339); vacío = ahora.
	Fecha string `json:"fecha" validate:"omitempty"`
}

type ActualizarMovimientoRequest struct {
	Tipo     string `json:"tipo"     validate:"required"`
	Cantidad int    `json:"cantidad" validate:"min=0"`
	Fecha    string `json:"fecha"    validate:"omitempty"`
}

type MovimientoResponse struct {
	ID            string `json:"id"`
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto,omitempty"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo,omitempty"`
	Fecha         string `json:"fecha"`
	CreatedAt     string `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Resumen de inventario ───────────────────────────────────────────────────

type ResumenProducto struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Cantidad    int             `json:"cantidad"`
	Precio      decimal.Decimal `json:"precio"`
	Categoria   *string         `json:"categoria"`
	ValorTotal  decimal.Decimal `json:"valor_total"`
	EstadoStock string          `json:"estado_stock"` // Bueno | Bajo | Agotado
}

type ResumenInventarioResponse struct {
	Productos []ResumenProducto `json:"productos"`
	Totales   ResumenTotales    `json:"totales"`
}

type ResumenTotales struct {
	ProductosTotal       int             `json:"productos_total"`
	ProductosEnStock     int             `json:"productos_en_stock"`
	ProductosAgotados    int             `json:"productos_agotados"`
	ValorTotalInventario decimal.Decimal `json:"valor_total_inventario"`
}
