package inventory

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/application/view"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// Mensajes mostrados al usuario.
const (
	msgInvalidQuantity = "Ingresa una cantidad válida"
	msgQuantityUpdated = "Cantidad actualizada"
	msgQuantityFailed  = "Error al actualizar cantidad"
	msgProductAdded    = "Producto agregado correctamente"
	msgProductUpdated  = "Producto actualizado correctamente"
	msgProductDeleted  = "Producto eliminado correctamente"
	msgProductFailed   = "Error al guardar el producto"
	msgDeleteFailed    = "Error al eliminar producto"
	msgLoadFailed      = "Error al cargar productos"
)

// Ledger libro de inventario de una sesión: caché de productos y mutaciones de cantidad.
// Toda mutación exitosa termina con una recarga completa; nunca se parchea la caché local.
type Ledger struct {
	store    repository.RecordStore
	identity ports.IdentityContext
	notifier ports.Notifier
	recorder ports.OperationRecorder
	gate     access.Gate
	cache    *view.Cache[entity.Product]
	log      zerolog.Logger
}

// NewLedger construye el libro atado al ciclo de vida ctx de la vista.
func NewLedger(
	ctx context.Context,
	store repository.RecordStore,
	identity ports.IdentityContext,
	notifier ports.Notifier,
	recorder ports.OperationRecorder,
	log zerolog.Logger,
) *Ledger {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	l := &Ledger{
		store:    store,
		identity: identity,
		notifier: notifier,
		recorder: recorder,
		gate:     access.NewGate(identity.Identity()),
		log:      log.With().Str("component", "ledger").Str("identity", identity.Identity().ID).Logger(),
	}
	l.cache = view.New(ctx, l.fetch, productFields)
	return l
}

func (l *Ledger) fetch(ctx context.Context) ([]entity.Product, error) {
	rows, err := l.store.Select(ctx, repository.ResourceProducts, l.gate.ProductFields())
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, productFromRow(r, l.gate.CanViewPurchasePrice()))
	}
	return out, nil
}

// Load reemplaza la caché con la colección completa de productos.
func (l *Ledger) Load(ctx context.Context) error {
	if err := l.gate.CheckView(access.ResourceProductCatalog); err != nil {
		l.recorder.Observe("products.load", ports.OutcomeDenied)
		return err
	}
	if err := l.cache.Load(ctx); err != nil {
		return l.remoteFailure("products.load", "cargar productos", msgLoadFailed, err)
	}
	l.recorder.Observe("products.load", ports.OutcomeOK)
	return nil
}

// Ensure carga la caché si todavía no se cargó.
func (l *Ledger) Ensure(ctx context.Context) error {
	if err := l.gate.CheckView(access.ResourceProductCatalog); err != nil {
		return err
	}
	if err := l.cache.EnsureLoaded(ctx); err != nil {
		return l.remoteFailure("products.load", "cargar productos", msgLoadFailed, err)
	}
	return nil
}

// Search reduce la caché actual. Ver view.Cache.Search.
func (l *Ledger) Search(query string) { l.cache.Search(query) }

// Clear vuelve a cargar la colección completa.
func (l *Ledger) Clear(ctx context.Context) error { return l.Load(ctx) }

// Products devuelve el contenido actual de la caché.
func (l *Ledger) Products() []entity.Product { return l.cache.Items() }

// LowStock productos en caché con cantidad <= LowStockThreshold.
func (l *Ledger) LowStock() []entity.Product {
	var out []entity.Product
	for _, p := range l.cache.Items() {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

// StageDelta guarda un delta pendiente para el producto. No toca el almacén.
func (l *Ledger) StageDelta(id string, delta int) error {
	if _, ok := l.find(id); !ok {
		return domain.ErrNotFound
	}
	l.cache.Modify(func(p *entity.Product) {
		if p.ID == id {
			p.PendingDelta = delta
		}
	})
	return nil
}

// AdjustQuantity suma o resta delta a la cantidad del producto, con piso en cero.
// delta debe ser un entero positivo; de lo contrario se devuelve ValidationError sin llamar al almacén.
func (l *Ledger) AdjustQuantity(ctx context.Context, id string, delta int, op entity.AdjustOperation) error {
	const opName = "products.adjust"
	if delta <= 0 || delta > entity.MaxQuantity || !entity.ValidOperation(op) {
		l.notifier.Notify(msgInvalidQuantity, entity.SeverityWarning)
		l.recorder.Observe(opName, ports.OutcomeInvalid)
		return domain.NewValidationError("delta", msgInvalidQuantity)
	}
	if err := l.gate.CheckAdjustQuantity(); err != nil {
		l.recorder.Observe(opName, ports.OutcomeDenied)
		return err
	}
	current, ok := l.find(id)
	if !ok {
		return domain.ErrNotFound
	}

	next := entity.ApplyDelta(current.Quantity, delta, op)
	err := l.cache.Run(ctx, func(ctx context.Context) error {
		return l.store.Update(ctx, repository.ResourceProducts, id, repository.Row{entity.ProductQuantity: next})
	})
	if err != nil {
		return l.remoteFailure(opName, "actualizar cantidad", msgQuantityFailed, err)
	}

	l.log.Info().Str("product", id).Int("from", current.Quantity).Int("to", next).Msg("cantidad ajustada")
	l.notifier.Notify(msgQuantityUpdated, entity.SeveritySuccess)
	l.recorder.Observe(opName, ports.OutcomeOK)
	return l.reload(ctx)
}

// AdjustQuantityText ajusta la cantidad con el delta tal como llega del formulario.
// Un texto que no es un entero positivo se rechaza y se notifica igual que un delta inválido.
func (l *Ledger) AdjustQuantityText(ctx context.Context, id, raw string, op entity.AdjustOperation) error {
	delta, err := ParseDelta(raw)
	if err != nil {
		l.notifier.Notify(msgInvalidQuantity, entity.SeverityWarning)
		l.recorder.Observe("products.adjust", ports.OutcomeInvalid)
		return err
	}
	return l.AdjustQuantity(ctx, id, delta, op)
}

// AdjustStaged aplica el delta pendiente del producto.
func (l *Ledger) AdjustStaged(ctx context.Context, id string, op entity.AdjustOperation) error {
	p, ok := l.find(id)
	if !ok {
		return domain.ErrNotFound
	}
	return l.AdjustQuantity(ctx, id, p.PendingDelta, op)
}

// Create da de alta un producto (solo admin).
func (l *Ledger) Create(ctx context.Context, draft entity.ProductDraft) error {
	const opName = "products.create"
	if err := l.gate.CheckEditProduct(); err != nil {
		l.recorder.Observe(opName, ports.OutcomeDenied)
		return err
	}
	row, err := validateDraft(draft, true)
	if err != nil {
		l.notifier.Notify(err.Error(), entity.SeverityWarning)
		l.recorder.Observe(opName, ports.OutcomeInvalid)
		return err
	}
	err = l.cache.Run(ctx, func(ctx context.Context) error {
		_, err := l.store.Insert(ctx, repository.ResourceProducts, row)
		return err
	})
	if err != nil {
		return l.remoteFailure(opName, "crear producto", msgProductFailed, err)
	}
	l.notifier.Notify(msgProductAdded, entity.SeveritySuccess)
	l.recorder.Observe(opName, ports.OutcomeOK)
	return l.reload(ctx)
}

// Update edita nombre, descripción y precios (solo admin). La cantidad no se toca.
func (l *Ledger) Update(ctx context.Context, id string, draft entity.ProductDraft) error {
	const opName = "products.update"
	if err := l.gate.CheckEditProduct(); err != nil {
		l.recorder.Observe(opName, ports.OutcomeDenied)
		return err
	}
	patch, err := validateDraft(draft, false)
	if err != nil {
		l.notifier.Notify(err.Error(), entity.SeverityWarning)
		l.recorder.Observe(opName, ports.OutcomeInvalid)
		return err
	}
	err = l.cache.Run(ctx, func(ctx context.Context) error {
		return l.store.Update(ctx, repository.ResourceProducts, id, patch)
	})
	if err != nil {
		return l.remoteFailure(opName, "actualizar producto", msgProductFailed, err)
	}
	l.notifier.Notify(msgProductUpdated, entity.SeveritySuccess)
	l.recorder.Observe(opName, ports.OutcomeOK)
	return l.reload(ctx)
}

// Remove elimina el producto (solo admin).
func (l *Ledger) Remove(ctx context.Context, id string) error {
	const opName = "products.delete"
	if err := l.gate.CheckDeleteProduct(); err != nil {
		l.notifier.Notify(err.Error(), entity.SeverityError)
		l.recorder.Observe(opName, ports.OutcomeDenied)
		return err
	}
	err := l.cache.Run(ctx, func(ctx context.Context) error {
		return l.store.Delete(ctx, repository.ResourceProducts, id)
	})
	if err != nil {
		return l.remoteFailure(opName, "eliminar producto", msgDeleteFailed, err)
	}
	l.log.Info().Str("product", id).Msg("producto eliminado")
	l.notifier.Notify(msgProductDeleted, entity.SeveritySuccess)
	l.recorder.Observe(opName, ports.OutcomeOK)
	return l.reload(ctx)
}

// Close cancela las llamadas en curso de la vista.
func (l *Ledger) Close() { l.cache.Close() }

func (l *Ledger) reload(ctx context.Context) error {
	if err := l.cache.Load(ctx); err != nil {
		return l.remoteFailure("products.load", "recargar productos", msgLoadFailed, err)
	}
	return nil
}

func (l *Ledger) find(id string) (entity.Product, bool) {
	return l.cache.Find(func(p entity.Product) bool { return p.ID == id })
}

// remoteFailure notifica y envuelve la falla. Una vista cerrada no notifica: la respuesta se descarta.
func (l *Ledger) remoteFailure(opName, op, message string, err error) error {
	if errors.Is(err, domain.ErrClosed) {
		return err
	}
	l.log.Error().Err(err).Str("op", opName).Msg(message)
	l.notifier.Notify(message, entity.SeverityError)
	l.recorder.Observe(opName, ports.OutcomeRemote)
	return &domain.RemoteError{Op: op, Err: err}
}
