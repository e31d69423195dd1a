// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"context"
	"net/http"
	"time"

	"capstone_backend/platform/apperr"
	"capstone_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// ContextPrincipalKey is the gin context key for the authenticated principal.
const ContextPrincipalKey = "principal"

// Identity represents the authenticated caller.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access caller information without depending on Gin.
type Identity interface {
	// UserID returns the identity provider uid of the caller.
	UserID() string
	// Email returns the caller's email, if the token carried one.
	Email() string
	// IsAuthenticated returns true if the caller passed the auth guard.
	IsAuthenticated() bool
}

// Principal is the verified caller attached to a request by the auth guard.
type Principal struct {
	UID       string                 `json:"uid"`
	EmailAddr string                 `json:"email,omitempty"`
	IssuedAt  time.Time              `json:"issued_at"`
	Claims    map[string]interface{} `json:"claims,omitempty"`
}

func (p *Principal) UserID() string { return p.UID }

func (p *Principal) Email() string { return p.EmailAddr }

func (p *Principal) IsAuthenticated() bool { return p != nil && p.UID != "" }

type anonymous struct{}

func (anonymous) UserID() string        { return "" }
func (anonymous) Email() string         { return "" }
func (anonymous) IsAuthenticated() bool { return false }

// SetPrincipal attaches p to the gin context and tags the request context so
// request-scoped logs carry the uid.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(ContextPrincipalKey, p)
	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, p.UID)
	c.Request = c.Request.WithContext(ctx)
}

// GetPrincipal returns the principal attached by the auth guard, if any.
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	value, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := value.(*Principal)
	return p, ok && p.IsAuthenticated()
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if no principal is present.
func GetIdentity(c *gin.Context) Identity {
	if p, ok := GetPrincipal(c); ok {
		return p
	}
	return anonymous{}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		Abort(c, http.StatusUnauthorized, "authentication required", apperr.ReasonMissingToken)
		return nil
	}
	return id
}
