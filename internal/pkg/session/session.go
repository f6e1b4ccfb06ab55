// Package session issues and verifies signed session tokens for the tenant and
// admin scopes. Each scope has its own secret and cookie so a token minted for one
// scope never verifies in the other.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope names a session realm.
type Scope string

const (
	ScopeTenant Scope = "tenant"
	ScopeAdmin  Scope = "admin"
)

const issuer = "rental-system"

// Failure is the reason a token did not verify.
type Failure string

const (
	FailureMissingToken Failure = "missing-token"
	FailureInvalid      Failure = "invalid-or-expired"
	FailureWrongRole    Failure = "wrong-role"
)

// Identity is the verified caller.
type Identity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Result holds either an Identity or a Failure, never both.
type Result struct {
	Identity *Identity
	Failure  Failure
}

// OK reports whether verification succeeded.
func (r Result) OK() bool {
	return r.Identity != nil
}

// Claims is the JWT payload.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens for one scope.
type Manager struct {
	scope  Scope
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(scope Scope, secret string, ttl time.Duration) (*Manager, error) {
	if scope != ScopeTenant && scope != ScopeAdmin {
		return nil, errors.New("session: unknown scope " + string(scope))
	}
	if secret == "" {
		return nil, errors.New("session: empty secret for scope " + string(scope))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{scope: scope, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Scope() Scope { return m.scope }

// CookieName is the cookie carrying this scope's token.
func (m *Manager) CookieName() string {
	return string(m.scope) + "_session"
}

// Role is the account role this scope accepts.
func (m *Manager) Role() string {
	return string(m.scope)
}

// Issue signs a token for id valid for the manager's TTL.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			Audience:  jwt.ClaimStrings{string(m.scope)},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks token and never returns an error; the outcome is carried in Result.
func (m *Manager) Verify(token string) Result {
	if token == "" {
		return Result{Failure: FailureMissingToken}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(string(m.scope)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tkn.Valid || claims.UserID == 0 {
		return Result{Failure: FailureInvalid}
	}
	if claims.Role != m.Role() {
		return Result{Failure: FailureWrongRole}
	}

	return Result{Identity: &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}}
}

// NewCookie wraps token in this scope's cookie.
func (m *Manager) NewCookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires this scope's cookie in the browser.
func (m *Manager) ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
