package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // sentinel errors from the repository layer
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/DAREDEVILDD7/trolley-appointment/internal/config"     // app configuration
	"github.com/DAREDEVILDD7/trolley-appointment/internal/repository" // DB repositories
	"github.com/DAREDEVILDD7/trolley-appointment/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for supplier auth endpoints.  The
// credential check itself is a plain lookup-and-compare; the interesting
// part is that the session travels as explicit tokens instead of any
// client-held ambient identity.
type AuthHandler struct {
	Cfg       config.Config
	Suppliers *repository.SupplierRepo
	Sessions  *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, s *repository.SupplierRepo, sess *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Suppliers: s, Sessions: sess}
}

// ----- DTOs -----

type loginReq struct {
	SupplierID string `json:"supplierId"`
	Password   string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type supplierPart struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}
type authResp struct {
	Supplier supplierPart `json:"supplier"`
	Access   tokenPart    `json:"access"`
	Refresh  tokenPart    `json:"refresh"`
}

// Login verifies supplier credentials and returns the supplier profile
// together with a fresh token pair.  Unknown suppliers and wrong secrets
// are indistinguishable to the caller: both yield 401 "Invalid
// credentials".
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SupplierID = strings.TrimSpace(req.SupplierID)
	if req.SupplierID == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "supplierId/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !s.IsActive || !utils.VerifyPassword(s.SecretHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, s.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Sessions.StoreRefresh(ctx, s.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Supplier: supplierPart{ID: s.ID, Name: s.Name, Company: s.CompanyName},
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// token pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	supplierID, err := h.Sessions.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Sessions.RevokeByHash(ctx, hash)

	s, err := h.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load supplier failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, s.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Sessions.StoreRefresh(ctx, s.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		Supplier: supplierPart{ID: s.ID, Name: s.Name, Company: s.CompanyName},
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh:  tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// Logout revokes the refresh token supplied in the body.  A missing or
// unknown token yields 400/401; success is 204 with no body.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Sessions.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Sessions.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated supplier's profile (protected route).
func (h *AuthHandler) Me(c echo.Context) error {
	supplierID, err := getSupplierID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load supplier failed"})
	}
	return c.JSON(http.StatusOK, supplierPart{ID: s.ID, Name: s.Name, Company: s.CompanyName})
}
