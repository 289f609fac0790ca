package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"
	"github.com/Fraancoboss/WTRACKER/internal/repository"
	"github.com/Fraancoboss/WTRACKER/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const fechaLayout = "2006-01-02"

// Actor identifies who performs a mutation, for auditing and per-phase
// authorization.
type Actor struct {
	ID  uuid.UUID
	Rol string
}

type PedidoService interface {
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Obtener(ctx context.Context, id string) (*dto.PedidoResponse, error)
	Crear(ctx context.Context, actor Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Actualizar(ctx context.Context, actor Actor, id string, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, actor Actor, id string) error
}

type pedidoService struct {
	repo       repository.PedidoRepository
	audit      repository.AuditoriaRepository
	resumen    ResumenService
	dispatcher *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	audit repository.AuditoriaRepository,
	resumen ResumenService,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{repo: repo, audit: audit, resumen: resumen, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.NewDatabase("Error al listar pedidos", err)
	}

	items := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		items = append(items, *pedidoToResponse(&pedidos[i]))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	log.Info().Int("count", len(items)).Int("page", filter.Page).Msg("pedidos listados")

	return &dto.PedidoListResponse{
		Pedidos:    items,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

// ── Obtener ───────────────────────────────────────────────────────────────────

func (s *pedidoService) Obtener(ctx context.Context, id string) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido " + id + " no encontrado")
		}
		return nil, apierror.NewDatabase("Error al obtener pedido", err)
	}
	return pedidoToResponse(pedido), nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Pre-flight validation runs outside the transaction so validation failures
// propagate typed; only genuine storage failures get wrapped.

func (s *pedidoService) Crear(ctx context.Context, actor Actor, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := buildPedido(actor, req)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, pedido); err != nil {
			return err
		}
		return s.auditTx(tx, actor, model.AccionCreate, pedido.ID, nil, pedido)
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, apierror.NewConflict("El pedido " + req.ID + " ya existe")
		}
		log.Error().Err(txErr).Str("pedido_id", req.ID).Msg("error creando pedido")
		return nil, apierror.NewDatabase("Error al crear pedido", txErr)
	}

	s.invalidateResumen(ctx)
	log.Info().Str("pedido_id", pedido.ID).Str("usuario_id", actor.ID.String()).Msg("pedido creado")

	return pedidoToResponse(pedido), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *pedidoService) Actualizar(ctx context.Context, actor Actor, id string, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("Pedido " + id + " no encontrado")
		}
		return nil, apierror.NewDatabase("Error al obtener pedido", err)
	}

	if err := checkPermisoFases(actor, req); err != nil {
		return nil, err
	}

	campos, err := buildCampos(req)
	if err != nil {
		return nil, err
	}

	fases, err := buildFases(id, current.Fases, req.Fases)
	if err != nil {
		return nil, err
	}

	var updated *model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateCamposTx(tx, id, campos); err != nil {
			return err
		}

		for i := range fases {
			f := &fases[i]
			if f.ID != uuid.Nil {
				if err := s.repo.UpdateFaseTx(tx, id, f); err != nil {
					return err
				}
			} else {
				if err := s.repo.CreateFaseTx(tx, f); err != nil {
					return err
				}
			}
		}

		updated, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}

		// Server-side recompute: once production fases exist the aggregate
		// estado is derived, never client-supplied.
		if TieneFasesProduccion(updated.Fases) {
			derivado := CalcularEstado(updated.Fases)
			if derivado != updated.Estado {
				if err := s.repo.UpdateCamposTx(tx, id, map[string]any{"estado": derivado}); err != nil {
					return err
				}
				updated.Estado = derivado
			}
		}

		return s.auditTx(tx, actor, model.AccionUpdate, id, current, updated)
	})
	if txErr != nil {
		log.Error().Err(txErr).Str("pedido_id", id).Msg("error actualizando pedido")
		return nil, apierror.NewDatabase("Error al actualizar pedido", txErr)
	}

	s.invalidateResumen(ctx)

	if current.Estado != model.EstadoDetenido && updated.Estado == model.EstadoDetenido {
		s.notificarDetenido(ctx, updated)
	}

	log.Info().Str("pedido_id", id).Str("usuario_id", actor.ID.String()).Msg("pedido actualizado")

	return pedidoToResponse(updated), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Hard delete: the fases FK cascades at schema level. A failed delete leaves
// no audit row because the audit insert shares the transaction.

func (s *pedidoService) Eliminar(ctx context.Context, actor Actor, id string) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("Pedido " + id + " no encontrado")
		}
		return apierror.NewDatabase("Error al obtener pedido", err)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.DeleteTx(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.NewNotFound("Pedido " + id + " no encontrado")
		}
		return s.auditTx(tx, actor, model.AccionDelete, id, pedido, nil)
	})
	if txErr != nil {
		var apiErr *apierror.Error
		if errors.As(txErr, &apiErr) {
			return apiErr
		}
		log.Error().Err(txErr).Str("pedido_id", id).Msg("error eliminando pedido")
		return apierror.NewDatabase("Error al eliminar pedido", txErr)
	}

	s.invalidateResumen(ctx)
	log.Info().Str("pedido_id", id).Str("usuario_id", actor.ID.String()).Msg("pedido eliminado")
	return nil
}

// ── Validation and assembly helpers ───────────────────────────────────────────

func buildPedido(actor Actor, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	if req.ID == "" {
		return nil, apierror.NewValidation("ID de pedido es requerido")
	}
	if req.Centro == "" {
		return nil, apierror.NewValidation("Centro es requerido")
	}
	if req.Material != model.MaterialPVC && req.Material != model.MaterialAluminio {
		return nil, apierror.NewValidation("Material debe ser PVC o Aluminio")
	}
	fechaEntrada, err := parseFecha(req.FechaEntrada, "Fecha de entrada")
	if err != nil {
		return nil, err
	}
	fechaVencimiento, err := parseFecha(req.FechaVencimiento, "Fecha de vencimiento")
	if err != nil {
		return nil, err
	}

	fases, err := buildFases(req.ID, nil, req.Fases)
	if err != nil {
		return nil, err
	}

	estado := req.Estado
	if estado == "" {
		estado = model.EstadoNoIniciado
	}
	if TieneFasesProduccion(fases) {
		estado = CalcularEstado(fases)
	}

	actorID := actor.ID
	return &model.Pedido{
		ID:               req.ID,
		FechaEntrada:     fechaEntrada,
		Centro:           req.Centro,
		Material:         req.Material,
		FechaVencimiento: fechaVencimiento,
		Estado:           estado,
		Incidencias:      req.Incidencias,
		Transporte:       req.Transporte,
		CreatedBy:        &actorID,
		Fases:            fases,
	}, nil
}

// buildFases converts fase requests to models, rejecting unknown tipos,
// duplicate tipos within the request, and new fases whose tipo already
// exists on the pedido.
func buildFases(pedidoID string, existentes []model.Fase, reqs []dto.FaseRequest) ([]model.Fase, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	tipoExistente := make(map[string]uuid.UUID, len(existentes))
	for _, f := range existentes {
		tipoExistente[f.Tipo] = f.ID
	}

	vistos := make(map[string]bool, len(reqs))
	fases := make([]model.Fase, 0, len(reqs))
	for _, fr := range reqs {
		if !model.EsTipoFase(fr.Tipo) {
			return nil, apierror.NewValidation("Tipo de fase inválido: " + fr.Tipo)
		}
		if vistos[fr.Tipo] {
			return nil, apierror.NewValidation("Fase duplicada en la petición: " + fr.Tipo)
		}
		vistos[fr.Tipo] = true

		f := model.Fase{
			PedidoID:      pedidoID,
			Tipo:          fr.Tipo,
			Estado:        fr.Estado,
			Observaciones: fr.Observaciones,
		}
		if f.Estado == "" {
			f.Estado = model.FasePendiente
		}

		if fr.ID != "" {
			fid, err := uuid.Parse(fr.ID)
			if err != nil {
				return nil, apierror.NewValidation("ID de fase inválido")
			}
			f.ID = fid
		} else if _, ok := tipoExistente[fr.Tipo]; ok {
			return nil, apierror.NewConflict("Ya existe una fase de tipo " + fr.Tipo)
		}

		var err error
		if f.FechaInicio, err = parseFechaPtr(fr.FechaInicio, "Fecha de inicio"); err != nil {
			return nil, err
		}
		if f.FechaFin, err = parseFechaPtr(fr.FechaFin, "Fecha de fin"); err != nil {
			return nil, err
		}
		if fr.OperarioID != nil {
			oid, err := uuid.Parse(*fr.OperarioID)
			if err != nil {
				return nil, apierror.NewValidation("ID de operario inválido")
			}
			f.OperarioID = &oid
		}

		fases = append(fases, f)
	}
	return fases, nil
}

// buildCampos maps the supplied partial fields to their columns. Estado is
// applied here too; the transaction overrides it afterwards whenever
// production fases exist.
func buildCampos(req dto.ActualizarPedidoRequest) (map[string]any, error) {
	campos := make(map[string]any)
	if req.FechaEntrada != nil {
		f, err := parseFecha(*req.FechaEntrada, "Fecha de entrada")
		if err != nil {
			return nil, err
		}
		campos["fecha_entrada"] = f
	}
	if req.Centro != nil {
		campos["centro"] = *req.Centro
	}
	if req.Material != nil {
		if *req.Material != model.MaterialPVC && *req.Material != model.MaterialAluminio {
			return nil, apierror.NewValidation("Material debe ser PVC o Aluminio")
		}
		campos["material"] = *req.Material
	}
	if req.FechaVencimiento != nil {
		f, err := parseFecha(*req.FechaVencimiento, "Fecha de vencimiento")
		if err != nil {
			return nil, err
		}
		campos["fecha_vencimiento"] = f
	}
	if req.Estado != nil {
		campos["estado"] = *req.Estado
	}
	if req.Incidencias != nil {
		campos["incidencias"] = *req.Incidencias
	}
	if req.Transporte != nil {
		campos["transporte"] = *req.Transporte
	}
	return campos, nil
}

// checkPermisoFases enforces per-phase write eligibility: a process-role
// actor may only touch the fase matching their rol, and no header fields.
func checkPermisoFases(actor Actor, req dto.ActualizarPedidoRequest) error {
	if !model.EsRolProceso(actor.Rol) {
		return nil
	}
	if req.FechaEntrada != nil || req.Centro != nil || req.Material != nil ||
		req.FechaVencimiento != nil || req.Estado != nil ||
		req.Incidencias != nil || req.Transporte != nil {
		return apierror.NewAuthorization("El rol " + actor.Rol + " solo puede modificar su propia fase")
	}
	for _, f := range req.Fases {
		if f.Tipo != actor.Rol {
			return apierror.NewAuthorization("El rol " + actor.Rol + " no puede modificar la fase " + f.Tipo)
		}
	}
	return nil
}

// auditTx writes the append-only audit row inside the mutation's transaction.
func (s *pedidoService) auditTx(tx *gorm.DB, actor Actor, accion, entidadID string, antes, despues *model.Pedido) error {
	entry := &model.RegistroAuditoria{
		UsuarioID: &actor.ID,
		Accion:    accion,
		Entidad:   "pedido",
		EntidadID: entidadID,
	}
	if antes != nil {
		b, err := json.Marshal(pedidoToResponse(antes))
		if err != nil {
			return err
		}
		entry.DatosAnteriores = b
	}
	if despues != nil {
		b, err := json.Marshal(pedidoToResponse(despues))
		if err != nil {
			return err
		}
		entry.DatosNuevos = b
	}
	return s.audit.CreateTx(tx, entry)
}

func (s *pedidoService) invalidateResumen(ctx context.Context) {
	if s.resumen != nil {
		s.resumen.Invalidate(ctx)
	}
}

// notificarDetenido enqueues a best-effort notification job; a queue failure
// never fails the update.
func (s *pedidoService) notificarDetenido(ctx context.Context, p *model.Pedido) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionPayload{
		Tipo:             worker.NotificacionPedidoDetenido,
		PedidoID:         p.ID,
		Centro:           p.Centro,
		FechaVencimiento: p.FechaVencimiento.Format(fechaLayout),
	})
	if err != nil {
		log.Warn().Err(err).Str("pedido_id", p.ID).Msg("no se pudo encolar aviso de pedido detenido")
	}
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func parseFecha(s, campo string) (time.Time, error) {
	t, err := time.Parse(fechaLayout, s)
	if err != nil {
		return time.Time{}, apierror.NewValidation(campo + " inválida (formato YYYY-MM-DD)")
	}
	return t, nil
}

func parseFechaPtr(s *string, campo string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFecha(*s, campo)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func fmtFechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(fechaLayout)
	return &s
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	fases := make([]model.Fase, len(p.Fases))
	copy(fases, p.Fases)
	sort.SliceStable(fases, func(i, j int) bool {
		return model.OrdenFase[fases[i].Tipo] < model.OrdenFase[fases[j].Tipo]
	})

	faseResps := make([]dto.FaseResponse, 0, len(fases))
	for _, f := range fases {
		fr := dto.FaseResponse{
			ID:            f.ID.String(),
			PedidoID:      f.PedidoID,
			Tipo:          f.Tipo,
			Estado:        f.Estado,
			FechaInicio:   fmtFechaPtr(f.FechaInicio),
			FechaFin:      fmtFechaPtr(f.FechaFin),
			Observaciones: f.Observaciones,
		}
		if f.OperarioID != nil {
			s := f.OperarioID.String()
			fr.OperarioID = &s
		}
		faseResps = append(faseResps, fr)
	}

	resp := &dto.PedidoResponse{
		ID:               p.ID,
		FechaEntrada:     p.FechaEntrada.Format(fechaLayout),
		Centro:           p.Centro,
		Material:         p.Material,
		FechaVencimiento: p.FechaVencimiento.Format(fechaLayout),
		Estado:           p.Estado,
		Incidencias:      p.Incidencias,
		Transporte:       p.Transporte,
		Fases:            faseResps,
	}
	if p.CreatedBy != nil {
		s := p.CreatedBy.String()
		resp.CreatedBy = &s
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
