package echoapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/session"
	"github.com/trezcool/campus/core/user"
)

var (
	nowFunc = time.Now // mockable

	contextTokenKey   = "userToken"
	contextSessionKey = "session"
)

// Claims carries the session slot: the role and the identity body, kept apart.
type Claims struct {
	jwt.StandardClaims
	Role string          `json:"role"`
	User json.RawMessage `json:"user"`
}

type authenticator struct {
	conf      *core.Config
	verifier  session.Verifier
	revoked   *session.Revocations
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config, verifier session.Verifier, revoked *session.Revocations) *authenticator {
	return &authenticator{
		conf:     conf,
		verifier: verifier,
		revoked:  revoked,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) newClaims(role string, body []byte) (*Claims, error) {
	r, ok := user.ParseRole(role)
	if !ok {
		return nil, errors.Errorf("unknown role %q", role)
	}
	ident, err := user.DecodeIdentity(r, body)
	if err != nil {
		return nil, errors.Wrap(err, "decoding identity")
	}

	now := nowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    a.conf.AppName,
			Subject:   ident.ID(),
			Audience:  "Campus",
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: role,
		User: json.RawMessage(body),
	}, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (a *authenticator) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// tokenSlot is the session slot of one request: it reads the verified claims and,
// on login, writes a fresh token.
type tokenSlot struct {
	auth   *authenticator
	claims *Claims
	token  string
}

var _ session.Slot = (*tokenSlot)(nil)

// Read returns nothing for a revoked token.
func (s *tokenSlot) Read(ctx context.Context) (string, []byte, error) {
	if s.claims == nil {
		return "", nil, nil
	}
	if s.auth.revoked != nil && s.claims.Id != "" {
		revoked, err := s.auth.revoked.Revoked(ctx, s.claims.Id)
		if err != nil {
			return "", nil, errors.Wrap(err, "reading revoked tokens")
		}
		if revoked {
			return "", nil, nil
		}
	}
	return s.claims.Role, s.claims.User, nil
}

func (s *tokenSlot) Write(_ context.Context, role string, body []byte) error {
	claims, err := s.auth.newClaims(role, body)
	if err != nil {
		return err
	}
	token, err := s.auth.GenerateToken(claims)
	if err != nil {
		return err
	}
	s.claims, s.token = claims, token
	return nil
}

// Clear revokes the request token until it expires.
func (s *tokenSlot) Clear(ctx context.Context) error {
	if s.claims != nil && s.claims.Id != "" && s.auth.revoked != nil {
		if err := s.auth.revoked.Revoke(ctx, s.claims.Id, time.Unix(s.claims.ExpiresAt, 0)); err != nil {
			return errors.Wrap(err, "revoking token")
		}
	}
	s.claims, s.token = nil, ""
	return nil
}

func getContextClaims(ctx echo.Context) (*Claims, bool) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return claims, true
		}
	}
	return nil, false
}

// newSession returns a session manager over the request token.
func (a *authenticator) newSession(ctx echo.Context) (*session.Manager, *tokenSlot) {
	slot := &tokenSlot{auth: a}
	if claims, ok := getContextClaims(ctx); ok {
		slot.claims = claims
	}
	return session.NewManager(a.verifier, slot), slot
}

// gate admits requests whose token restores a session of the required role.
// Everything else is redirected to that role's login.
func (a *authenticator) gate(required user.Role) echo.MiddlewareFunc {
	cfg := a.jwtConfig
	cfg.ErrorHandlerWithContext = func(error, echo.Context) error {
		return &redirectError{Path: required.LoginPath(), Role: required}
	}
	jwtMiddleware := middleware.JWTWithConfig(cfg)

	restore := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			mgr, _ := a.newSession(ctx)
			if _, err := mgr.Restore(ctx.Request().Context()); err != nil {
				return errors.Wrap(err, "restoring session")
			}
			if d := mgr.Authorize(required); !d.Allowed {
				return &redirectError{Path: d.Redirect, Role: required}
			}
			ctx.Set(contextSessionKey, mgr)
			return next(ctx)
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(restore(next))
	}
}

func getContextSession(ctx echo.Context) (*session.Manager, error) {
	if mgr, ok := ctx.Get(contextSessionKey).(*session.Manager); ok {
		return mgr, nil
	}
	return nil, errUnauthorized
}

// getContextIdentity returns the identity the session was opened with.
// Handlers needing current data re-read the record by ID.
func getContextIdentity(ctx echo.Context) (user.Identity, error) {
	mgr, err := getContextSession(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	state := mgr.State()
	if !state.LoggedIn() {
		return user.Identity{}, errUnauthorized
	}
	return state.Identity, nil
}
