package service

import (
	"context"
	"testing"
	"time"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompraFixture() (*stubProductoRepo, *stubMovimientoRepo, *stubCompraRepo, CompraService) {
	productoRepo := newStubProductoRepo()
	movRepo := newStubMovimientoRepo()
	compraRepo := newStubCompraRepo()
	tx := newMemTxManager(productoRepo, movRepo, compraRepo)
	inventario := NewInventarioService(productoRepo, movRepo, tx, nil)
	svc := NewCompraService(compraRepo, inventario, tx)
	return productoRepo, movRepo, compraRepo, svc
}

func fechaRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

func TestCrearCompraGeneraUnaEntradaPorDetalle(t *testing.T) {
	productoRepo, movRepo, compraRepo, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Arroz", 10, 2)
	p2 := seedProducto(productoRepo, "Azúcar", 0, 2)
	proveedor := uuid.New()

	resp, err := svc.CrearCompra(context.Background(), proveedor, dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(350),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 10, PrecioUnitario: decimal.NewFromFloat(20)},
			{ProductoID: p2.ID.String(), Cantidad: 5, PrecioUnitario: decimal.NewFromFloat(30)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Detalles, 2)
	assert.Len(t, compraRepo.compras, 1)

	// Una entrada por detalle, referenciada a la compra.
	assert.Len(t, movRepo.movimientos, 2)
	for _, m := range movRepo.movimientos {
		assert.Equal(t, model.TipoEntrada, m.Tipo)
		require.NotNil(t, m.ReferenciaID)
		assert.Equal(t, resp.ID, m.ReferenciaID.String())
	}

	a1, _ := productoRepo.FindByID(context.Background(), p1.ID)
	a2, _ := productoRepo.FindByID(context.Background(), p2.ID)
	assert.Equal(t, 20, a1.Cantidad)
	assert.Equal(t, 5, a2.Cantidad)
}

func TestCrearCompraConDetalleInvalidoNoDejaNada(t *testing.T) {
	productoRepo, movRepo, compraRepo, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Harina", 10, 2)

	_, err := svc.CrearCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(100),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 4, PrecioUnitario: decimal.NewFromFloat(10)},
			// Producto inexistente: aborta la transacción completa.
			{ProductoID: uuid.New().String(), Cantidad: 2, PrecioUnitario: decimal.NewFromFloat(10)},
		},
	})
	require.ErrorIs(t, err, ErrProductoNoEncontrado)

	assert.Empty(t, compraRepo.compras)
	assert.Empty(t, movRepo.movimientos)
	a1, _ := productoRepo.FindByID(context.Background(), p1.ID)
	assert.Equal(t, 10, a1.Cantidad)
}

func TestEliminarCompraRevierteTodosLosDetalles(t *testing.T) {
	productoRepo, movRepo, compraRepo, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Fideos", 0, 2)
	p2 := seedProducto(productoRepo, "Salsa", 3, 2)

	resp, err := svc.CrearCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(90),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 6, PrecioUnitario: decimal.NewFromFloat(10)},
			{ProductoID: p2.ID.String(), Cantidad: 3, PrecioUnitario: decimal.NewFromFloat(10)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.EliminarCompra(context.Background(), uuid.MustParse(resp.ID), nil))

	assert.Empty(t, compraRepo.compras)
	a1, _ := productoRepo.FindByID(context.Background(), p1.ID)
	a2, _ := productoRepo.FindByID(context.Background(), p2.ID)
	assert.Equal(t, 0, a1.Cantidad)
	assert.Equal(t, 3, a2.Cantidad)

	// Quedan las entradas originales más una salida de reversión por detalle.
	entradas, salidas := 0, 0
	for _, m := range movRepo.movimientos {
		switch m.Tipo {
		case model.TipoEntrada:
			entradas++
		case model.TipoSalida:
			salidas++
		}
	}
	assert.Equal(t, 2, entradas)
	assert.Equal(t, 2, salidas)
}

func TestEliminarCompraEsTodoONada(t *testing.T) {
	productoRepo, movRepo, compraRepo, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Café", 0, 2)
	p2 := seedProducto(productoRepo, "Yerba", 0, 2)

	resp, err := svc.CrearCompra(context.Background(), uuid.New(), dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(80),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 5, PrecioUnitario: decimal.NewFromFloat(8)},
			{ProductoID: p2.ID.String(), Cantidad: 5, PrecioUnitario: decimal.NewFromFloat(8)},
		},
	})
	require.NoError(t, err)

	// El stock del segundo detalle ya se vendió: revertirlo dejaría negativo.
	inventario := NewInventarioService(productoRepo, movRepo, newMemTxManager(productoRepo, movRepo), nil)
	_, err = inventario.RegistrarMovimiento(context.Background(), dto.RegistrarMovimientoRequest{
		ProductoID: p2.ID.String(),
		Tipo:       model.TipoVenta,
		Cantidad:   4,
	})
	require.NoError(t, err)

	err = svc.EliminarCompra(context.Background(), uuid.MustParse(resp.ID), nil)
	var stockErr *StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)

	// Nada se revirtió: la compra sigue y el primer producto conserva su stock.
	assert.Len(t, compraRepo.compras, 1)
	a1, _ := productoRepo.FindByID(context.Background(), p1.ID)
	a2, _ := productoRepo.FindByID(context.Background(), p2.ID)
	assert.Equal(t, 5, a1.Cantidad)
	assert.Equal(t, 1, a2.Cantidad)
}

func TestActualizarCompraSoloEncabezado(t *testing.T) {
	productoRepo, _, compraRepo, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Té", 0, 2)
	proveedor := uuid.New()

	resp, err := svc.CrearCompra(context.Background(), proveedor, dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(40),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 4, PrecioUnitario: decimal.NewFromFloat(10)},
		},
	})
	require.NoError(t, err)

	nuevaFecha := time.Now().Add(-48 * time.Hour)
	err = svc.ActualizarCompra(context.Background(), uuid.MustParse(resp.ID), &proveedor, dto.ActualizarCompraRequest{
		FechaCompra: nuevaFecha.Format(time.RFC3339),
		Total:       decimal.NewFromFloat(55),
	})
	require.NoError(t, err)

	actual := compraRepo.compras[uuid.MustParse(resp.ID)]
	assert.Equal(t, "55", actual.Total.String())
	// El stock no se toca en la edición de encabezado.
	a1, _ := productoRepo.FindByID(context.Background(), p1.ID)
	assert.Equal(t, 4, a1.Cantidad)
}

func TestCompraAjenaSeReportaComoInexistente(t *testing.T) {
	productoRepo, _, _, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Sal", 0, 2)
	dueno := uuid.New()
	otro := uuid.New()

	resp, err := svc.CrearCompra(context.Background(), dueno, dto.CrearCompraRequest{
		FechaCompra: fechaRFC3339(),
		Total:       decimal.NewFromFloat(10),
		Detalles: []dto.DetalleCompraRequest{
			{ProductoID: p1.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromFloat(10)},
		},
	})
	require.NoError(t, err)

	_, err = svc.ObtenerPorID(context.Background(), uuid.MustParse(resp.ID), &otro)
	assert.ErrorIs(t, err, ErrCompraNoEncontrada)

	err = svc.EliminarCompra(context.Background(), uuid.MustParse(resp.ID), &otro)
	assert.ErrorIs(t, err, ErrCompraNoEncontrada)

	// El dueño sí la ve.
	vista, err := svc.ObtenerPorID(context.Background(), uuid.MustParse(resp.ID), &dueno)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, vista.ID)
}

func TestListarPorUsuarioFiltraLasPropias(t *testing.T) {
	productoRepo, _, _, svc := newCompraFixture()
	p1 := seedProducto(productoRepo, "Aceite", 0, 2)
	u1 := uuid.New()
	u2 := uuid.New()

	for _, u := range []uuid.UUID{u1, u1, u2} {
		_, err := svc.CrearCompra(context.Background(), u, dto.CrearCompraRequest{
			FechaCompra: fechaRFC3339(),
			Total:       decimal.NewFromFloat(10),
			Detalles: []dto.DetalleCompraRequest{
				{ProductoID: p1.ID.String(), Cantidad: 1, PrecioUnitario: decimal.NewFromFloat(10)},
			},
		})
		require.NoError(t, err)
	}

	propias, err := svc.ListarPorUsuario(context.Background(), u1)
	require.NoError(t, err)
	assert.Len(t, propias, 2)

	todas, err := svc.Listar(context.Background())
	require.NoError(t, err)
	assert.Len(t, todas, 3)
}
