package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Juan-JM/proyecto2/internal/dto"
	"github.com/Juan-JM/proyecto2/internal/model"
	"github.com/Juan-JM/proyecto2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarritoService implementa la reserva blanda del carrito: comprueba
// disponibilidad contra el stock vigente al escribir, pero nunca lo
// descuenta ni asienta movimientos — el débito real ocurre en el checkout,
// fuera de este servicio.
type CarritoService interface {
	Agregar(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarCarritoRequest) (*dto.CarritoItemResponse, error)
	ActualizarCantidad(ctx context.Context, usuarioID, itemID uuid.UUID, req dto.ActualizarCarritoRequest) (*dto.CarritoItemResponse, error)
	Eliminar(ctx context.Context, usuarioID, itemID uuid.UUID) error
	Limpiar(ctx context.Context, usuarioID uuid.UUID) error
	Listar(ctx context.Context, usuarioID uuid.UUID) (*dto.CarritoResponse, error)
	ContarItems(ctx context.Context, usuarioID uuid.UUID) (int64, error)
}

type carritoService struct {
	repo         repository.CarritoRepository
	productoRepo repository.ProductoRepository
	tx           TxManager
}

func NewCarritoService(repo repository.CarritoRepository, productoRepo repository.ProductoRepository, tx TxManager) CarritoService {
	return &carritoService{repo: repo, productoRepo: productoRepo, tx: tx}
}

// Agregar crea la línea o fusiona cantidades si el producto ya está en el
// carrito del usuario. El chequeo de stock es contra el objetivo fusionado y
// se hace bajo lock de fila del producto, con la misma disciplina que el
// motor de inventario, para que dos agregados simultáneos no pasen ambos.
func (s *carritoService) Agregar(ctx context.Context, usuarioID uuid.UUID, req dto.AgregarCarritoRequest) (*dto.CarritoItemResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}

	var item *model.CarritoItem
	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		prod, err := s.productoRepo.FindByIDForUpdate(tx, pid)
		if err != nil {
			return traducirNoEncontrado(err, ErrProductoNoEncontrado)
		}

		// Solo la ausencia de fila significa "no está en el carrito"; otro
		// error de la base aborta, o un fallo transitorio duplicaría la línea.
		existente, err := s.repo.FindLineaTx(tx, usuarioID, pid)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		enCarrito := err == nil

		objetivo := req.Cantidad
		if enCarrito {
			objetivo = existente.Cantidad + req.Cantidad
		}
		if !prod.TieneStock(objetivo) {
			return &StockInsuficienteError{Disponible: prod.Cantidad}
		}

		if enCarrito {
			// Fusión: solo cambia la cantidad; el precio capturado en el
			// primer agregado se conserva.
			if err := s.repo.UpdateCantidadTx(tx, existente.ID, objetivo); err != nil {
				return err
			}
			existente.Cantidad = objetivo
			item = existente
			return nil
		}

		item = &model.CarritoItem{
			UsuarioID:      usuarioID,
			ProductoID:     pid,
			Cantidad:       req.Cantidad,
			PrecioUnitario: prod.Precio,
		}
		return s.repo.CreateTx(tx, item)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := carritoItemToResponse(item)
	return &resp, nil
}

// ActualizarCantidad fija la cantidad absoluta de una línea, revalidando
// disponibilidad contra el nuevo objetivo (no contra el incremento).
func (s *carritoService) ActualizarCantidad(ctx context.Context, usuarioID, itemID uuid.UUID, req dto.ActualizarCarritoRequest) (*dto.CarritoItemResponse, error) {
	item, err := s.repo.FindByIDYUsuario(ctx, itemID, usuarioID)
	if err != nil {
		return nil, traducirNoEncontrado(err, ErrItemCarritoNoEncontrado)
	}

	txErr := s.tx.RunInTx(ctx, func(tx *gorm.DB) error {
		prod, err := s.productoRepo.FindByIDForUpdate(tx, item.ProductoID)
		if err != nil {
			return traducirNoEncontrado(err, ErrProductoNoEncontrado)
		}
		if !prod.TieneStock(req.Cantidad) {
			return &StockInsuficienteError{Disponible: prod.Cantidad}
		}
		if err := s.repo.UpdateCantidadTx(tx, item.ID, req.Cantidad); err != nil {
			return err
		}
		item.Cantidad = req.Cantidad
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := carritoItemToResponse(item)
	return &resp, nil
}

func (s *carritoService) Eliminar(ctx context.Context, usuarioID, itemID uuid.UUID) error {
	item, err := s.repo.FindByIDYUsuario(ctx, itemID, usuarioID)
	if err != nil {
		return traducirNoEncontrado(err, ErrItemCarritoNoEncontrado)
	}
	return s.repo.Delete(ctx, item.ID)
}

func (s *carritoService) Limpiar(ctx context.Context, usuarioID uuid.UUID) error {
	return s.repo.DeleteByUsuario(ctx, usuarioID)
}

func (s *carritoService) Listar(ctx context.Context, usuarioID uuid.UUID) (*dto.CarritoResponse, error) {
	items, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := &dto.CarritoResponse{Items: make([]dto.CarritoItemResponse, 0, len(items)), Total: decimal.Zero}
	for i := range items {
		r := carritoItemToResponse(&items[i])
		resp.Items = append(resp.Items, r)
		resp.Total = resp.Total.Add(r.Subtotal)
	}
	return resp, nil
}

func (s *carritoService) ContarItems(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	return s.repo.ContarItems(ctx, usuarioID)
}

func carritoItemToResponse(i *model.CarritoItem) dto.CarritoItemResponse {
	nombre := ""
	if i.Producto != nil {
		nombre = i.Producto.Nombre
	}
	return dto.CarritoItemResponse{
		ID:             i.ID.String(),
		ProductoID:     i.ProductoID.String(),
		Producto:       nombre,
		Cantidad:       i.Cantidad,
		PrecioUnitario: i.PrecioUnitario,
		Subtotal:       i.Subtotal(),
	}
}
