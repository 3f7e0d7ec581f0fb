package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panel-api/internal/application/workspace"
	"github.com/jhoicas/panel-api/internal/domain"
	"github.com/jhoicas/panel-api/internal/domain/entity"
)

// Workspaces acceso a las vistas de cada sesión.
type Workspaces interface {
	Get(session entity.Session) (*workspace.Workspace, error)
}

func currentWorkspace(c *fiber.Ctx, ws Workspaces) (*workspace.Workspace, error) {
	session, ok := GetSession(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return ws.Get(session)
}
