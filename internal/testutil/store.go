// Package testutil reúne dobles de prueba compartidos por los tests de aplicación y HTTP.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// Call llamada registrada por FakeStore.
type Call struct {
	Method   string
	Resource repository.Resource
	ID       string
	Row      repository.Row
	Fields   []string
	Filters  []repository.Filter
}

// FakeStore almacén de registros en memoria con inyección de fallas por método y recurso.
type FakeStore struct {
	mu    sync.Mutex
	data  map[repository.Resource][]repository.Row
	fails map[string]error
	seq   int
	calls []Call
}

// NewFakeStore crea un almacén vacío.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		data:  make(map[repository.Resource][]repository.Row),
		fails: make(map[string]error),
	}
}

// Seed agrega filas al recurso.
func (s *FakeStore) Seed(resource repository.Resource, rows ...repository.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.data[resource] = append(s.data[resource], clone(r))
	}
}

// Fail hace que method ("Select", "Insert", "Update", "Delete") falle con err sobre resource.
// err nil elimina la falla.
func (s *FakeStore) Fail(method string, resource repository.Resource, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + ":" + string(resource)
	if err == nil {
		delete(s.fails, key)
		return
	}
	s.fails[key] = err
}

// Calls devuelve las llamadas registradas.
func (s *FakeStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount cuenta las llamadas a method.
func (s *FakeStore) CallCount(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Mutations cuenta las llamadas Insert, Update y Delete.
func (s *FakeStore) Mutations() int {
	return s.CallCount("Insert") + s.CallCount("Update") + s.CallCount("Delete")
}

// Get devuelve la fila con el id dado.
func (s *FakeStore) Get(resource repository.Resource, id string) (repository.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data[resource] {
		if r.String("id") == id {
			return clone(r), true
		}
	}
	return nil, false
}

// Len cuenta las filas del recurso.
func (s *FakeStore) Len(resource repository.Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[resource])
}

func (s *FakeStore) record(c Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	return s.fails[c.Method+":"+string(c.Resource)]
}

// Select implementa repository.RecordStore.
func (s *FakeStore) Select(_ context.Context, resource repository.Resource, fields []string, filters ...repository.Filter) ([]repository.Row, error) {
	if err := s.record(Call{Method: "Select", Resource: resource, Fields: fields, Filters: filters}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.Row
	for _, r := range s.data[resource] {
		if !matches(r, filters) {
			continue
		}
		projected := repository.Row{}
		for _, f := range fields {
			if v, ok := r[f]; ok {
				projected[f] = v
			}
		}
		out = append(out, projected)
	}
	return out, nil
}

// Insert implementa repository.RecordStore.
func (s *FakeStore) Insert(_ context.Context, resource repository.Resource, row repository.Row) (string, error) {
	if err := s.record(Call{Method: "Insert", Resource: resource, Row: clone(row)}); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := clone(row)
	id := r.String("id")
	if id == "" {
		s.seq++
		id = fmt.Sprintf("gen-%d", s.seq)
		r["id"] = id
	}
	s.data[resource] = append(s.data[resource], r)
	return id, nil
}

// Update implementa repository.RecordStore.
func (s *FakeStore) Update(_ context.Context, resource repository.Resource, id string, patch repository.Row) error {
	if err := s.record(Call{Method: "Update", Resource: resource, ID: id, Row: clone(patch)}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data[resource] {
		if r.String("id") == id {
			for k, v := range patch {
				r[k] = v
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// Delete implementa repository.RecordStore.
func (s *FakeStore) Delete(_ context.Context, resource repository.Resource, id string) error {
	if err := s.record(Call{Method: "Delete", Resource: resource, ID: id}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.data[resource]
	for i, r := range rows {
		if r.String("id") == id {
			s.data[resource] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func matches(r repository.Row, filters []repository.Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case repository.OpEq:
			if r.String(f.Field) != fmt.Sprint(f.Value) {
				return false
			}
		case repository.OpLte:
			limit := repository.Row{"v": f.Value}.Int("v")
			if r.Int(f.Field) > limit {
				return false
			}
		}
	}
	return true
}

func clone(r repository.Row) repository.Row {
	out := make(repository.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
