// Package view implementa la caché de una vista de lista: carga completa, búsqueda
// destructiva y descarte de respuestas tardías cuando la vista se cierra.
package view

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/panel-api/internal/domain"
)

// Loader obtiene la colección completa desde el almacén remoto.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Fields devuelve la forma de texto de cada campo de un elemento, para la búsqueda.
type Fields[T any] func(item T) []string

// Cache colección en memoria de una vista. Se reemplaza completa en cada Load.
// Cada Load incrementa una generación. Una respuesta se descarta si llega con la vista
// cerrada o si ya se aplicó la de una carga posterior; si la posterior falló, la
// anterior sí se aplica.
type Cache[T any] struct {
	mu         sync.Mutex
	items      []T
	loaded     bool
	generation uint64
	applied    uint64
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	load   Loader[T]
	fields Fields[T]
}

// New crea la caché atada al ciclo de vida parent. Cancelar parent equivale a Close.
func New[T any](parent context.Context, load Loader[T], fields Fields[T]) *Cache[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Cache[T]{ctx: ctx, cancel: cancel, load: load, fields: fields}
}

// Run ejecuta fn con un contexto que se cancela si termina ctx o si la vista se cierra.
func (c *Cache[T]) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.isClosed() {
		return domain.ErrClosed
	}
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := fn(runCtx)
	if c.isClosed() {
		return domain.ErrClosed
	}
	return err
}

// Load reemplaza la caché con la colección remota. Si falla, la caché previa queda intacta.
func (c *Cache[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	var items []T
	err := c.Run(ctx, func(ctx context.Context) error {
		var err error
		items, err = c.load(ctx)
		return err
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrClosed
	}
	if gen <= c.applied {
		// una carga posterior ya actualizó la caché
		return nil
	}
	c.items = items
	c.loaded = true
	c.applied = gen
	return nil
}

// EnsureLoaded carga solo si la caché nunca se cargó.
func (c *Cache[T]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// Search reduce la caché actual a los elementos con algún campo que contenga query,
// sin distinguir mayúsculas. Búsquedas sucesivas se intersectan; solo Clear restaura.
func (c *Cache[T]) Search(query string) {
	fold := cases.Fold()
	q := fold.String(query)

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0:0]
	for _, item := range c.items {
		if c.matches(fold, item, q) {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

func (c *Cache[T]) matches(fold cases.Caser, item T, q string) bool {
	for _, f := range c.fields(item) {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}
	return false
}

// Clear descarta el filtro recargando la colección completa.
func (c *Cache[T]) Clear(ctx context.Context) error {
	return c.Load(ctx)
}

// Items devuelve una copia del contenido actual.
func (c *Cache[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find devuelve el primer elemento que cumple match.
func (c *Cache[T]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Modify aplica fn a cada elemento bajo el lock. Para estado transitorio local.
func (c *Cache[T]) Modify(fn func(item *T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		fn(&c.items[i])
	}
}

// Close cancela las llamadas en curso; sus respuestas se descartan.
func (c *Cache[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Cache[T]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed || c.ctx.Err() != nil
}
