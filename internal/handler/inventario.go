package handler

import (
	"net/http"
	"strconv"

	"github.com/Juan-JM/proyecto2/internal/apierror"
	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"
	"github.com/Juan-JM/proyecto2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary      Registrar un movimiento de inventario
// @Description  Registra entrada, salida o ajuste y actualiza el stock del producto en la misma transacción.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/inventarios [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimientos returns the paginated ledger, newest first.
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	filter := repository.MovimientoFilter{
		Tipo: c.Query("tipo"),
	}
	if raw := c.Query("producto_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &pid
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarMovimiento rewrites a ledger row: the old effect is reverted and
// the new one applied against current stock.
func (h *InventarioHandler) ActualizarMovimiento(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarMovimiento(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) EliminarMovimiento(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resumen godoc
// @Summary      Resumen de inventario
// @Description  Estado de stock y valorización por producto, con totales.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ResumenInventarioResponse
// @Router       /v1/admin/inventarios/resumen [get]
func (h *InventarioHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ─── Rutas de proveedor ──────────────────────────────────────────────────────
// Un proveedor solo registra entradas y solo puede corregir sus movimientos
// dentro de las 24 horas posteriores a su creación.

func (h *InventarioHandler) RegistrarEntradaProveedor(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Tipo != model.TipoEntrada {
		responderError(c, service.ErrSoloEntradasProveedor)
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventarioHandler) ActualizarMovimientoProveedor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Tipo != model.TipoEntrada {
		responderError(c, service.ErrSoloEntradasProveedor)
		return
	}
	if err := h.svc.EdicionProveedorPermitida(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	resp, err := h.svc.ActualizarMovimiento(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) EliminarMovimientoProveedor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EdicionProveedorPermitida(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	if err := h.svc.EliminarMovimiento(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
