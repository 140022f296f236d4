package router

import (
	"time"

	"github.com/Juan-JM/proyecto2/internal/config"
	"github.com/Juan-JM/proyecto2/internal/handler"
	"github.com/Juan-JM/proyecto2/internal/middleware"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"
	"github.com/Juan-JM/proyecto2/internal/service"
	"github.com/Juan-JM/proyecto2/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	carritoRepo := repository.NewCarritoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	txManager := service.NewTxManager(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, txManager, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, inventarioSvc, txManager)
	carritoSvc := service.NewCarritoService(carritoRepo, productoRepo, txManager)
	productoSvc := service.NewProductoService(productoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	catalogoH := handler.NewCatalogoHandler(productoSvc, productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Catálogo — no auth required
	catalogo := r.Group("/v1/catalogo")
	{
		catalogo.GET("", catalogoH.Listar)
		catalogo.GET("/:id", catalogoH.ObtenerPorID)
		catalogo.GET("/:id/disponibilidad", catalogoH.Disponibilidad)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Carrito — cualquier usuario autenticado con rol cliente
		carrito := v1.Group("/carrito", middleware.RequireRole(model.RolCliente, model.RolAdmin))
		{
			carrito.POST("", carritoH.Agregar)
			carrito.GET("", carritoH.Listar)
			carrito.GET("/count", carritoH.ContarItems)
			carrito.PUT("/:id", carritoH.ActualizarCantidad)
			carrito.DELETE("/:id", carritoH.Eliminar)
			carrito.DELETE("", carritoH.Limpiar)
		}

		// Admin — inventario completo, compras y productos
		admin := v1.Group("/admin", middleware.RequireRole(model.RolAdmin))
		{
			admin.POST("/inventarios", inventarioH.RegistrarMovimiento)
			admin.GET("/inventarios", inventarioH.ListarMovimientos)
			admin.GET("/inventarios/resumen", inventarioH.Resumen)
			admin.PUT("/inventarios/:id", inventarioH.ActualizarMovimiento)
			admin.DELETE("/inventarios/:id", inventarioH.EliminarMovimiento)

			admin.GET("/compras", comprasH.Listar)
			admin.GET("/compras/:id", comprasH.ObtenerPorID)
			admin.GET("/compras/:id/comprobante", comprasH.Comprobante)

			admin.POST("/productos", productosH.Crear)
			admin.PUT("/productos/:id", productosH.Actualizar)
		}

		// Proveedor — entradas propias con ventana de edición, y sus compras
		prov := v1.Group("/proveedor", middleware.RequireRole(model.RolProveedor))
		{
			prov.POST("/inventarios", inventarioH.RegistrarEntradaProveedor)
			prov.PUT("/inventarios/:id", inventarioH.ActualizarMovimientoProveedor)
			prov.DELETE("/inventarios/:id", inventarioH.EliminarMovimientoProveedor)

			prov.POST("/compras", comprasH.Crear)
			prov.GET("/compras", comprasH.Listar)
			prov.GET("/compras/:id", comprasH.ObtenerPorID)
			prov.PUT("/compras/:id", comprasH.Actualizar)
			prov.DELETE("/compras/:id", comprasH.Eliminar)
			prov.GET("/compras/:id/comprobante", comprasH.Comprobante)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
