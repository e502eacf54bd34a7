package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"main/internal/auth"
	"main/internal/models"
)

type AuthHandler struct {
	tokens   *auth.TokenService
	provider auth.CredentialProvider
	logger   *zap.Logger
}

func NewAuthHandler(tokens *auth.TokenService, provider auth.CredentialProvider, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		provider: provider,
		logger:   log,
	}
}

// Login exchanges a username/password pair for a signed token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(
			models.NewErrorEnvelope(models.CodeValidationError, "Request body must be valid JSON"))
	}

	subject, ok := h.provider.Authenticate(req.Username, req.Password)
	if !ok {
		h.logger.Warn("Failed login attempt", zap.String("username", req.Username))
		return c.Status(fiber.StatusUnauthorized).JSON(
			models.NewErrorEnvelope(models.CodeInvalidCredentials, "Incorrect username or password"))
	}

	token, err := h.tokens.Issue(subject)
	if err != nil {
		h.logger.Error("Token issuance failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue token")
	}

	h.logger.Info("Successful login", zap.String("username", subject))
	return c.JSON(models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.TTL().Seconds()),
	})
}
