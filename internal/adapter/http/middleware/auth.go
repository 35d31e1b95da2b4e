package middleware

import (
	"errors"
	"net/http"
	"strings"

	"checkout_service/internal/config"
	"checkout_service/internal/usecase"
	"checkout_service/pkg"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminCapabilityKey = "admin_capability"

var (
	errAuthRequired  = pkg.NewDomainErrorSimple("AUTHENTICATION_REQUIRED", "Authentication required", http.StatusUnauthorized)
	errInvalidToken  = pkg.NewDomainErrorSimple("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	errExpiredToken  = pkg.NewDomainErrorSimple("EXPIRED_TOKEN", "Token expired", http.StatusUnauthorized)
	errAccessDenied  = pkg.NewDomainErrorSimple("ACCESS_DENIED", "Access denied", http.StatusForbidden)
	errAdminDisabled = pkg.NewDomainErrorSimple("ADMIN_DISABLED", "Administrative access is not configured", http.StatusServiceUnavailable)
)

// AdminClaims are the claims of an operator token. Subject is the actor id.
type AdminClaims struct {
	Roles []string `json:"roles"`
	Role  string   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c AdminClaims) allRoles() []string {
	if c.Role == "" {
		return c.Roles
	}
	return append([]string{c.Role}, c.Roles...)
}

// AdminAuth verifies an HS256 bearer token and mints the AdminCapability the
// administrative handlers require.
func AdminAuth(cfg config.AuthConfig, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	secret := []byte(cfg.JWTSecret)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	return func(c *gin.Context) {
		ctx := log.WithComponent(c.Request.Context(), "http.admin_auth")
		if len(secret) == 0 {
			abort(c, errAdminDisabled)
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, errAuthRequired)
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abort(c, errInvalidToken)
			return
		}

		var claims AdminClaims
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}, opts...)
		if err != nil {
			log.Warn(log.WithField(ctx, "reason", err.Error()), "admin token refused")
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, errExpiredToken)
				return
			}
			abort(c, errInvalidToken)
			return
		}

		capability, err := usecase.GrantAdminCapability(claims.Subject, claims.allRoles(), cfg.AdminRole)
		if err != nil {
			log.Warn(log.WithFields(ctx, map[string]any{"actor_id": claims.Subject, "reason": err.Error()}), "admin access denied")
			abort(c, errAccessDenied)
			return
		}
		c.Set(adminCapabilityKey, capability)
		c.Request = c.Request.WithContext(log.WithFields(c.Request.Context(), map[string]any{
			"actor_id":   capability.ActorID(),
			"actor_role": capability.Role(),
		}))
		c.Next()
	}
}

// AdminCapability returns the capability minted by AdminAuth; the zero value
// when the route was not guarded.
func AdminCapability(c *gin.Context) usecase.AdminCapability {
	v, ok := c.Get(adminCapabilityKey)
	if !ok {
		return usecase.AdminCapability{}
	}
	capability, _ := v.(usecase.AdminCapability)
	return capability
}

func abort(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
