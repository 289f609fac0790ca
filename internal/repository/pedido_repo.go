package repository

import (
	"context"

	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"

	"gorm.io/gorm"
)

type PedidoRepository interface {
	FindByID(ctx context.Context, id string) (*model.Pedido, error)
	FindByIDTx(tx *gorm.DB, id string) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	CountByEstado(ctx context.Context) (map[string]int64, int64, error)
	ListVencenAntes(ctx context.Context, fecha string) ([]model.Pedido, error)

	CreateTx(tx *gorm.DB, p *model.Pedido) error
	UpdateCamposTx(tx *gorm.DB, id string, campos map[string]any) error
	DeleteTx(tx *gorm.DB, id string) (int64, error)
	CreateFaseTx(tx *gorm.DB, f *model.Fase) error
	UpdateFaseTx(tx *gorm.DB, pedidoID string, f *model.Fase) error

	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Fases").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDTx re-reads a pedido inside an open transaction, so snapshots see
// the uncommitted writes of that transaction.
func (r *pedidoRepo) FindByIDTx(tx *gorm.DB, id string) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Preload("Fases").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Centro != "" {
		q = q.Where("centro = ?", filter.Centro)
	}
	if filter.Material != "" {
		q = q.Where("material = ?", filter.Material)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.FechaDesde != "" {
		q = q.Where("fecha_entrada >= ?", filter.FechaDesde)
	}
	if filter.FechaHasta != "" {
		q = q.Where("fecha_entrada <= ?", filter.FechaHasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Fases").
		Order("fecha_entrada DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

// CountByEstado returns per-estado counts plus the grand total in one scan.
func (r *pedidoRepo) CountByEstado(ctx context.Context) (map[string]int64, int64, error) {
	type fila struct {
		Estado string
		N      int64
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Select("estado, COUNT(*) AS n").
		Group("estado").
		Scan(&filas).Error
	if err != nil {
		return nil, 0, err
	}
	counts := make(map[string]int64, len(filas))
	var total int64
	for _, f := range filas {
		counts[f.Estado] = f.N
		total += f.N
	}
	return counts, total, nil
}

// ListVencenAntes returns orders not yet Listo whose due date is on or before
// fecha ("YYYY-MM-DD"). Used by the due-date notification cron.
func (r *pedidoRepo) ListVencenAntes(ctx context.Context, fecha string) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Where("fecha_vencimiento <= ? AND estado <> ?", fecha, model.EstadoListo).
		Order("fecha_vencimiento").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) UpdateCamposTx(tx *gorm.DB, id string, campos map[string]any) error {
	if len(campos) == 0 {
		return nil
	}
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Updates(campos).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id string) (int64, error) {
	res := tx.Delete(&model.Pedido{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *pedidoRepo) CreateFaseTx(tx *gorm.DB, f *model.Fase) error {
	return tx.Create(f).Error
}

// UpdateFaseTx updates an existing fase scoped to its pedido so a fase ID
// from another pedido cannot be hijacked.
func (r *pedidoRepo) UpdateFaseTx(tx *gorm.DB, pedidoID string, f *model.Fase) error {
	return tx.Model(&model.Fase{}).
		Where("id = ? AND pedido_id = ?", f.ID, pedidoID).
		Updates(map[string]any{
			"estado":        f.Estado,
			"fecha_inicio":  f.FechaInicio,
			"fecha_fin":     f.FechaFin,
			"operario_id":   f.OperarioID,
			"observaciones": f.Observaciones,
		}).Error
}
