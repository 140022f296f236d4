package handler

import (
	"fmt"
	"net/http"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/middleware"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler {
	return &ComprasHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar compra a proveedor
// @Description  Crea la compra con sus detalles y genera una entrada de inventario por detalle, todo en una transacción.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearCompraRequest true "Compra"
// @Success      201  {object} dto.CompraResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/proveedor/compras [post]
func (h *ComprasHandler) Crear(c *gin.Context) {
	var req dto.CrearCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID := middleware.GetUsuarioID(c)

	resp, err := h.svc.CrearCompra(c.Request.Context(), usuarioID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComprasHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarCompra(c.Request.Context(), id, h.propietario(c), req); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary      Eliminar compra
// @Description  Revierte cada detalle como salida de inventario y borra la compra. Si algún detalle no tiene stock suficiente, no se revierte nada.
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/proveedor/compras/{id} [delete]
func (h *ComprasHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarCompra(c.Request.Context(), id, h.propietario(c)); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ComprasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, h.propietario(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar: admin ve todas las compras; proveedor solo las propias.
func (h *ComprasHandler) Listar(c *gin.Context) {
	if h.propietario(c) == nil {
		resp, err := h.svc.Listar(c.Request.Context())
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	resp, err := h.svc.ListarPorUsuario(c.Request.Context(), middleware.GetUsuarioID(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comprobante streams the purchase receipt PDF.
func (h *ComprasHandler) Comprobante(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.GenerarComprobante(c.Request.Context(), id, h.propietario(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="compra_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// propietario restringe las lecturas y escrituras al dueño cuando el rol es
// proveedor; admin opera sin restricción.
func (h *ComprasHandler) propietario(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Rol != model.RolProveedor {
		return nil
	}
	id := middleware.GetUsuarioID(c)
	return &id
}
