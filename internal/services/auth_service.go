package services

import (
	"context"
	"errors"
	"time"

	"teamchat/config"
	"teamchat/internal/domain"
	teamchat_errors "teamchat/pkg/errors"
	"teamchat/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService verifies bearer tokens minted by the identity provider. The
// subject claim carries the user id; passwords and sessions live upstream.
type AuthService struct {
	jwtSecret []byte
	issuer    string
	audience  string
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		jwtSecret: []byte(cfg.JWTSecret),
		issuer:    cfg.JWTIssuer,
		audience:  cfg.JWTAudience,
	}
}

type AccessClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (s *AuthService) ParseAccessToken(tokenString string) (domain.UserID, error) {
	if tokenString == "" {
		return domain.UserID{}, teamchat_errors.ErrUnauthorized
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil {
		return domain.UserID{}, teamchat_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return domain.UserID{}, teamchat_errors.ErrUnauthorized
	}

	userID, err := domain.Parse[domain.UserID](claims.Subject)
	if err != nil {
		return domain.UserID{}, teamchat_errors.ErrUnauthorized
	}
	return userID, nil
}

// IssueAccessToken signs a token the way the identity provider does. Used by
// the development seed and tests.
func (s *AuthService) IssueAccessToken(userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, teamchat_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, teamchat_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, teamchat_errors.ErrForbidden):
		return 403
	case errors.Is(err, teamchat_errors.ErrNotFound):
		return 404
	case errors.Is(err, teamchat_errors.ErrAlreadyExists), errors.Is(err, teamchat_errors.ErrConflict),
		errors.Is(err, teamchat_errors.ErrInvariantViolation):
		return 409
	case errors.Is(err, teamchat_errors.ErrRateLimited):
		return 429
	case errors.Is(err, teamchat_errors.ErrStorageUnconfigured), errors.Is(err, teamchat_errors.ErrServiceUnavailable):
		return 503
	default:
		return 500
	}
}

// ErrorCode is the machine-readable code sent alongside HTTPStatus.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, teamchat_errors.ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, teamchat_errors.ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, teamchat_errors.ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, teamchat_errors.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, teamchat_errors.ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, teamchat_errors.ErrInvariantViolation):
		return "INVARIANT_VIOLATION"
	case errors.Is(err, teamchat_errors.ErrConflict):
		return "CONFLICT"
	case errors.Is(err, teamchat_errors.ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, teamchat_errors.ErrStorageUnconfigured), errors.Is(err, teamchat_errors.ErrServiceUnavailable):
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

func WithUserContext(ctx context.Context, userID domain.UserID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return logger.WithUserID(ctx, userID.String())
}

func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	userID, ok := ctx.Value(userIDKey).(domain.UserID)
	if !ok || userID.IsZero() {
		return domain.UserID{}, false
	}
	return userID, true
}

// CallerFromContext returns the authenticated user or the zero id for
// anonymous callers.
func CallerFromContext(ctx context.Context) domain.UserID {
	userID, _ := UserIDFromContext(ctx)
	return userID
}
