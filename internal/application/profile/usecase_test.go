package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/application/profile"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/domain/repository"
	"github.com/jhoicas/panel-api/internal/testutil"
)

type credentialSpy struct {
	token  string
	change ports.CredentialChange
	calls  int
	err    error
}

func (s *credentialSpy) UpdateProfileCredential(_ context.Context, token string, change ports.CredentialChange) error {
	s.calls++
	s.token = token
	s.change = change
	return s.err
}

type fixture struct {
	uc       *profile.UseCase
	store    *testutil.FakeStore
	creds    *credentialSpy
	identity *testutil.FakeIdentity
	notifier *testutil.Notifier
}

func newFixture(role string) *fixture {
	store := testutil.NewFakeStore()
	store.Seed(repository.ResourceStaff,
		repository.Row{"id": "u-1", "name": "Ana", "last_name": "Gómez", "document_number": "1010", "role": role, "email": "ana@tienda.co"},
	)
	f := &fixture{
		store:    store,
		creds:    &credentialSpy{},
		identity: testutil.NewFakeIdentity("u-1", role),
		notifier: &testutil.Notifier{},
	}
	f.uc = profile.NewUseCase(store, f.creds, f.identity, f.notifier, nil, zerolog.Nop())
	return f
}

func change() profile.Change {
	return profile.Change{Name: "Ana María", LastName: "Gómez", Email: "nueva@tienda.co", Secret: "s3creto", ConfirmSecret: "s3creto"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ambas fases
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AmbasFasesCierraSesionGlobal(t *testing.T) {
	f := newFixture(entity.RoleAdmin)

	require.NoError(t, f.uc.Update(context.Background(), change()))

	assert.Equal(t, []entity.SignOutScope{entity.ScopeGlobal}, f.identity.SignOuts())
	assert.Equal(t, "Datos actualizados exitosamente. Cerrando sesión...", f.notifier.Last().Message)
	assert.Equal(t, "token-u-1", f.creds.token)
	row, _ := f.store.Get(repository.ResourceStaff, "u-1")
	assert.Equal(t, "nueva@tienda.co", row.String("email"))
	assert.Equal(t, "nueva@tienda.co", f.creds.change.Email)
}

func TestUpdate_StaffNoCambiaEmail(t *testing.T) {
	f := newFixture(entity.RoleStaff)

	require.NoError(t, f.uc.Update(context.Background(), change()))

	row, _ := f.store.Get(repository.ResourceStaff, "u-1")
	assert.Equal(t, "ana@tienda.co", row.String("email"))
	assert.Empty(t, f.creds.change.Email)
	assert.Equal(t, "s3creto", f.creds.change.Secret)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallas parciales
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_FallaFase2EsParcialSinSignOut(t *testing.T) {
	f := newFixture(entity.RoleAdmin)
	f.creds.err = errors.New("401")

	err := f.uc.Update(context.Background(), change())

	var pErr *domain.PartialFailureError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, []string{"datos personales"}, pErr.Completed)
	assert.Empty(t, f.identity.SignOuts())
	row, _ := f.store.Get(repository.ResourceStaff, "u-1")
	assert.Equal(t, "Ana María", row.String("name"), "la fase 1 no se deshace")
}

func TestUpdate_Fase2SeIntentaAunqueFalleFase1(t *testing.T) {
	f := newFixture(entity.RoleAdmin)
	f.store.Fail("Update", repository.ResourceStaff, errors.New("timeout"))

	err := f.uc.Update(context.Background(), change())

	var pErr *domain.PartialFailureError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "datos personales", pErr.Failed)
	assert.Equal(t, 1, f.creds.calls)
	assert.Empty(t, f.identity.SignOuts())
}

func TestUpdate_AmbasFallanEsRemota(t *testing.T) {
	f := newFixture(entity.RoleAdmin)
	f.store.Fail("Update", repository.ResourceStaff, errors.New("timeout"))
	f.creds.err = errors.New("503")

	err := f.uc.Update(context.Background(), change())

	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.NotErrorIs(t, err, domain.ErrPartialFailure)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ConfirmacionDistintaNoLlamaRemoto(t *testing.T) {
	f := newFixture(entity.RoleAdmin)
	in := change()
	in.ConfirmSecret = "otro"

	err := f.uc.Update(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.store.Mutations())
	assert.Zero(t, f.creds.calls)
}

func TestCurrent_DevuelveRegistroPropio(t *testing.T) {
	f := newFixture(entity.RoleStaff)

	rec, err := f.uc.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.Name)
	assert.Equal(t, []repository.Filter{repository.Eq("id", "u-1")}, f.store.Calls()[0].Filters)
}
