package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/panel-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "panel-api-test"
)

func TestGenerateAndParse_ConSesionYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "s1", "staff", testIssuer, 60)
	require.NoError(t, err)

	userID, sessionID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "s1", sessionID)
	assert.Equal(t, "staff", role)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "s1", "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "s1", "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "s1", "admin", testIssuer, 60)
	assert.Error(t, err)
}
