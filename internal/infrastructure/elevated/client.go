// Package elevated cliente del servicio con privilegios elevados (cambio de credenciales propias
// y baja atómica de personal). Cada llamada viaja con el token del usuario; no hay reintentos.
package elevated

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/panel-api/internal/application/dto"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/pkg/config"
)

var (
	_ ports.ProfileCredentialUpdater = (*Client)(nil)
	_ ports.StaffRemover             = (*Client)(nil)
)

// Client cliente HTTP del servicio elevado.
type Client struct {
	http *resty.Client
}

// NewClient construye el cliente con la URL base y el timeout configurados.
func NewClient(cfg config.ElevatedConfig) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// UpdateProfileCredential PUT /profile con el email y/o secreto nuevos.
func (c *Client) UpdateProfileCredential(ctx context.Context, token string, change ports.CredentialChange) error {
	var apiErr dto.ErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(dto.ProfileCredentialRequest{Email: change.Email, Secret: change.Secret}).
		SetError(&apiErr).
		Put("/profile")
	return mapResponse(resp, err, &apiErr)
}

// DeleteStaff POST /deleteStaff.
func (c *Client) DeleteStaff(ctx context.Context, token, id string) error {
	var apiErr dto.ErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(dto.DeleteStaffRequest{ID: id}).
		SetError(&apiErr).
		Post("/deleteStaff")
	return mapResponse(resp, err, &apiErr)
}

// mapResponse traduce el status del servicio elevado a errores de dominio.
func mapResponse(resp *resty.Response, err error, apiErr *dto.ErrorResponse) error {
	if err != nil {
		return fmt.Errorf("servicio elevado: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	msg := apiErr.Message
	if msg == "" {
		msg = resp.Status()
	}
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return domain.NewValidationError("", msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyExists, msg)
	default:
		return fmt.Errorf("servicio elevado %d: %s", resp.StatusCode(), msg)
	}
}
