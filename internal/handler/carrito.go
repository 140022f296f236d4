package handler

import (
	"net/http"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/middleware"
	"github.com/Juan-JM/proyecto2/internal/service"

	"github.com/gin-gonic/gin"
)

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

// Agregar godoc
// @Summary      Agregar producto al carrito
// @Description  Agrega o fusiona una línea del carrito, validando stock contra la cantidad acumulada. No reserva stock.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AgregarCarritoRequest true "Línea"
// @Success      201  {object} dto.CarritoItemResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/carrito [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), middleware.GetUsuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CarritoHandler) ActualizarCantidad(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), middleware.GetUsuarioID(c), itemID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Eliminar(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetUsuarioID(c), itemID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CarritoHandler) Limpiar(c *gin.Context) {
	if err := h.svc.Limpiar(c.Request.Context(), middleware.GetUsuarioID(c)); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CarritoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetUsuarioID(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ContarItems feeds the cart badge in the storefront header.
func (h *CarritoHandler) ContarItems(c *gin.Context) {
	count, err := h.svc.ContarItems(c.Request.Context(), middleware.GetUsuarioID(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CarritoContarResponse{Count: count})
}
