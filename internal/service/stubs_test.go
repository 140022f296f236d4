package service

// Stubs en memoria para los tests unitarios de servicios. Cada stub guarda
// valores (no punteros) y devuelve copias, imitando las lecturas de fila de
// la base real. memTxManager toma un snapshot de todos los stores antes de
// ejecutar la transacción y lo restaura si la función falla, reproduciendo
// la semántica de rollback.

import (
	"context"
	"time"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Los stubs devuelven el mismo error de fila ausente que la base real, para
// que la traducción a sentinels de dominio se ejercite igual que en producción.
var errNotFound = gorm.ErrRecordNotFound

// ── TxManager en memoria ─────────────────────────────────────────────────────

type snapshotter interface {
	snapshot() interface{}
	restore(interface{})
}

type memTxManager struct{ stores []snapshotter }

func newMemTxManager(stores ...snapshotter) *memTxManager {
	return &memTxManager{stores: stores}
}

func (m *memTxManager) RunInTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	snaps := make([]interface{}, len(m.stores))
	for i, s := range m.stores {
		snaps[i] = s.snapshot()
	}
	if err := fn(nil); err != nil {
		for i, s := range m.stores {
			s.restore(snaps[i])
		}
		return err
	}
	return nil
}

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]model.Producto)}
}

func (r *stubProductoRepo) snapshot() interface{} {
	c := make(map[uuid.UUID]model.Producto, len(r.productos))
	for k, v := range r.productos {
		c[k] = v
	}
	return c
}

func (r *stubProductoRepo) restore(s interface{}) {
	r.productos = s.(map[uuid.UUID]model.Producto)
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListTodos(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return errNotFound
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) SetCantidadTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.Cantidad = cantidad
	r.productos[id] = p
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── MovimientoRepository ─────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos map[uuid.UUID]model.MovimientoInventario
}

func newStubMovimientoRepo() *stubMovimientoRepo {
	return &stubMovimientoRepo{movimientos: make(map[uuid.UUID]model.MovimientoInventario)}
}

func (r *stubMovimientoRepo) snapshot() interface{} {
	c := make(map[uuid.UUID]model.MovimientoInventario, len(r.movimientos))
	for k, v := range r.movimientos {
		c[k] = v
	}
	return c
}

func (r *stubMovimientoRepo) restore(s interface{}) {
	r.movimientos = s.(map[uuid.UUID]model.MovimientoInventario)
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movimientos[m.ID] = *m
	return nil
}

func (r *stubMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoInventario, error) {
	m, ok := r.movimientos[id]
	if !ok {
		return nil, errNotFound
	}
	return &m, nil
}

func (r *stubMovimientoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.MovimientoInventario, error) {
	m, ok := r.movimientos[id]
	if !ok {
		return nil, errNotFound
	}
	return &m, nil
}

func (r *stubMovimientoRepo) UpdateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if _, ok := r.movimientos[m.ID]; !ok {
		return errNotFound
	}
	r.movimientos[m.ID] = *m
	return nil
}

func (r *stubMovimientoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.movimientos, id)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	out := make([]model.MovimientoInventario, 0, len(r.movimientos))
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── CompraRepository ─────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras map[uuid.UUID]model.Compra
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]model.Compra)}
}

func cloneCompra(c model.Compra) model.Compra {
	detalles := make([]model.DetalleCompra, len(c.Detalles))
	copy(detalles, c.Detalles)
	c.Detalles = detalles
	return c
}

func (r *stubCompraRepo) snapshot() interface{} {
	c := make(map[uuid.UUID]model.Compra, len(r.compras))
	for k, v := range r.compras {
		c[k] = cloneCompra(v)
	}
	return c
}

func (r *stubCompraRepo) restore(s interface{}) {
	r.compras = s.(map[uuid.UUID]model.Compra)
}

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Detalles {
		if c.Detalles[i].ID == uuid.Nil {
			c.Detalles[i].ID = uuid.New()
		}
		c.Detalles[i].CompraID = c.ID
	}
	r.compras[c.ID] = cloneCompra(*c)
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, errNotFound
	}
	c = cloneCompra(c)
	return &c, nil
}

func (r *stubCompraRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCompraRepo) UpdateHeader(_ context.Context, id uuid.UUID, c *model.Compra) error {
	existing, ok := r.compras[id]
	if !ok {
		return errNotFound
	}
	existing.FechaCompra = c.FechaCompra
	existing.Total = c.Total
	r.compras[id] = existing
	return nil
}

func (r *stubCompraRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.compras, id)
	return nil
}

func (r *stubCompraRepo) List(_ context.Context) ([]model.Compra, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		out = append(out, cloneCompra(c))
	}
	return out, nil
}

func (r *stubCompraRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.Compra, error) {
	out := make([]model.Compra, 0, len(r.compras))
	for _, c := range r.compras {
		if c.UsuarioID == usuarioID {
			out = append(out, cloneCompra(c))
		}
	}
	return out, nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── CarritoRepository ────────────────────────────────────────────────────────

type stubCarritoRepo struct {
	items map[uuid.UUID]model.CarritoItem
}

func newStubCarritoRepo() *stubCarritoRepo {
	return &stubCarritoRepo{items: make(map[uuid.UUID]model.CarritoItem)}
}

func (r *stubCarritoRepo) snapshot() interface{} {
	c := make(map[uuid.UUID]model.CarritoItem, len(r.items))
	for k, v := range r.items {
		c[k] = v
	}
	return c
}

func (r *stubCarritoRepo) restore(s interface{}) {
	r.items = s.(map[uuid.UUID]model.CarritoItem)
}

func (r *stubCarritoRepo) FindLineaTx(_ *gorm.DB, usuarioID, productoID uuid.UUID) (*model.CarritoItem, error) {
	for _, item := range r.items {
		if item.UsuarioID == usuarioID && item.ProductoID == productoID {
			i := item
			return &i, nil
		}
	}
	return nil, errNotFound
}

func (r *stubCarritoRepo) FindByIDYUsuario(_ context.Context, id, usuarioID uuid.UUID) (*model.CarritoItem, error) {
	item, ok := r.items[id]
	if !ok || item.UsuarioID != usuarioID {
		return nil, errNotFound
	}
	return &item, nil
}

func (r *stubCarritoRepo) CreateTx(_ *gorm.DB, item *model.CarritoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *stubCarritoRepo) UpdateCantidadTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	item, ok := r.items[id]
	if !ok {
		return errNotFound
	}
	item.Cantidad = cantidad
	r.items[id] = item
	return nil
}

func (r *stubCarritoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *stubCarritoRepo) DeleteByUsuario(_ context.Context, usuarioID uuid.UUID) error {
	for id, item := range r.items {
		if item.UsuarioID == usuarioID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *stubCarritoRepo) ListByUsuario(_ context.Context, usuarioID uuid.UUID) ([]model.CarritoItem, error) {
	out := make([]model.CarritoItem, 0, len(r.items))
	for _, item := range r.items {
		if item.UsuarioID == usuarioID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubCarritoRepo) Total(_ context.Context, usuarioID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.items {
		if item.UsuarioID == usuarioID {
			total = total.Add(item.Subtotal())
		}
	}
	return total, nil
}

func (r *stubCarritoRepo) ContarItems(_ context.Context, usuarioID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.UsuarioID == usuarioID {
			count += int64(item.Cantidad)
		}
	}
	return count, nil
}

func (r *stubCarritoRepo) DB() *gorm.DB { return nil }

var _ repository.CarritoRepository = (*stubCarritoRepo)(nil)

// ── Dispatcher de alertas ────────────────────────────────────────────────────

type stubDispatcher struct {
	alertas []interface{}
}

func (d *stubDispatcher) EncolarAlertaStock(_ context.Context, payload interface{}) error {
	d.alertas = append(d.alertas, payload)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre string, stock, stockMin int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Precio:      decimal.NewFromFloat(15.00),
		Cantidad:    stock,
		StockMinimo: stockMin,
	}
	repo.productos[p.ID] = *p
	return p
}
