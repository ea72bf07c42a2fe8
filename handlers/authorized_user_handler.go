package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/database"
	"github.com/devotedabilities/empowered-hoops-portal/email"
	"github.com/devotedabilities/empowered-hoops-portal/models"
)

// AuthorizedUserHandler manages the allow-list of portal emails.
type AuthorizedUserHandler struct {
	cfg      *config.Config
	notifier email.Notifier
}

func NewAuthorizedUserHandler(cfg *config.Config, notifier email.Notifier) *AuthorizedUserHandler {
	return &AuthorizedUserHandler{cfg: cfg, notifier: notifier}
}

type authorizedUserPayload struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

func (p *authorizedUserPayload) normalize() {
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.TrimSpace(strings.ToLower(p.Role))
}

func validRole(r string) bool { return r == "coach" || r == "admin" }

// GET /admin/users
func (h *AuthorizedUserHandler) List(c echo.Context) error {
	var users []models.AuthorizedUser
	if err := database.DB.Order("email ASC").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, users)
}

// POST /admin/users
func (h *AuthorizedUserHandler) Create(c echo.Context) error {
	var p authorizedUserPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()

	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALID_EMAIL_REQUIRED"})
	}
	if !validRole(p.Role) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "ROLE_MUST_BE_COACH_OR_ADMIN"})
	}

	var dup models.AuthorizedUser
	if err := database.DB.Where("email = ?", p.Email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	rec := models.AuthorizedUser{
		Email:  p.Email,
		Name:   p.Name,
		Role:   p.Role,
		Active: true,
	}
	if p.Active != nil {
		rec.Active = *p.Active
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	// Welcome mail is best-effort.
	h.sendWelcome(c.Request().Context(), rec.Email, rec.Name, rec.Role)

	return c.JSON(http.StatusCreated, rec)
}

// PUT /admin/users/:id
func (h *AuthorizedUserHandler) Update(c echo.Context) error {
	var rec models.AuthorizedUser
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var p authorizedUserPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()

	if p.Role != "" {
		if !validRole(p.Role) {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "ROLE_MUST_BE_COACH_OR_ADMIN"})
		}
		rec.Role = p.Role
	}
	if p.Name != "" {
		rec.Name = p.Name
	}
	if p.Active != nil {
		rec.Active = *p.Active
	}

	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /admin/users/:id
func (h *AuthorizedUserHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.AuthorizedUser{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /sendWelcomeEmail
// Unlike the fire-and-forget paths, this endpoint exists to send mail, so a
// sink failure is reported to the caller.
func (h *AuthorizedUserHandler) SendWelcomeEmail(c echo.Context) error {
	var p authorizedUserPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid request body",
		})
	}
	p.normalize()

	if p.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Email is required",
		})
	}

	msg := email.Message{
		To:      []string{p.Email},
		Subject: "Welcome to the Empowered Hoops Term Tracker",
		HTML:    email.WelcomeHTML(p.Name, p.Role),
	}
	id, err := h.notifier.Send(c.Request().Context(), msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to send welcome email",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Welcome email sent successfully",
		"messageId": id,
	})
}

func (h *AuthorizedUserHandler) sendWelcome(ctx context.Context, addr, name, role string) {
	msg := email.Message{
		To:      []string{addr},
		Subject: "Welcome to the Empowered Hoops Term Tracker",
		HTML:    email.WelcomeHTML(name, role),
	}
	if _, err := h.notifier.Send(ctx, msg); err != nil {
		log.Printf("welcome email to %s failed (non-fatal): %v", addr, err)
	}
}
