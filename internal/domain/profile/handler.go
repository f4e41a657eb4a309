package profile

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docscribe/docscribe/internal/platform/auth"
	"github.com/docscribe/docscribe/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts profile endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/profiles/me", h.GetOwnProfile)
	api.PUT("/profiles/me", h.UpdateOwnProfile)
	api.GET("/profiles/:id", h.GetProfile)
	api.GET("/profiles", h.ListProfiles, auth.RequireRole(RoleDoctor))
}

func (h *Handler) GetOwnProfile(c echo.Context) error {
	id, err := authenticatedID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	return c.JSON(http.StatusOK, p)
}

type updateProfileRequest struct {
	FullName       string  `json:"full_name"`
	Specialization *string `json:"specialization"`
	Phone          *string `json:"phone"`
}

func (h *Handler) UpdateOwnProfile(c echo.Context) error {
	id, err := authenticatedID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.UpdateProfile(c.Request().Context(), id, req.FullName, req.Specialization, req.Phone)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "profile not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	pg := pagination.FromContext(c)
	role := c.QueryParam("role")
	items, total, err := h.svc.ListProfiles(c.Request().Context(), role, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func authenticatedID(c echo.Context) (uuid.UUID, error) {
	raw := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
