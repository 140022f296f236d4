package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Juan-JM/proyecto2/internal/apierror"
	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/repository"
	"github.com/Juan-JM/proyecto2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const disponibilidadCacheTTL = 60 * time.Second

// ProductosHandler serves the admin product CRUD routes.
type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ─── Catálogo público ────────────────────────────────────────────────────────

// CatalogoHandler serves the public catalog endpoints.
// No authentication required — no side effects whatsoever.
type CatalogoHandler struct {
	svc  service.ProductoService
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewCatalogoHandler(svc service.ProductoService, repo repository.ProductoRepository, rdb *redis.Client) *CatalogoHandler {
	return &CatalogoHandler{svc: svc, repo: repo, rdb: rdb}
}

// Listar returns the paginated, filtered public catalog.
func (h *CatalogoHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogoHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Disponibilidad godoc
// @Summary Consulta de disponibilidad de un producto (sin autenticacion)
// @Tags catalogo
// @Produce json
// @Param id path string true "UUID del producto"
// @Success 200 {object} dto.DisponibilidadResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/catalogo/{id}/disponibilidad [get]
func (h *CatalogoHandler) Disponibilidad(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cacheKey := "disponibilidad:" + id.String()

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.DisponibilidadResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	producto, err := h.repo.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	var categoria *string
	if producto.Categoria != nil {
		categoria = &producto.Categoria.Nombre
	}
	resp := dto.DisponibilidadResponse{
		Nombre:     producto.Nombre,
		Precio:     producto.Precio,
		Disponible: producto.Cantidad,
		Categoria:  categoria,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, disponibilidadCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
