// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated sales rep's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access rep information without depending on Gin.
type Identity interface {
	// RepID returns the authenticated rep's ID.
	RepID() string
	// DisplayName returns the rep's display name as carried in the token.
	DisplayName() string
	// Role returns the rep's role ("admin" or "rep").
	Role() string
	// IsAdmin checks whether the rep has the admin role.
	IsAdmin() bool
	// IsAuthenticated returns true if the rep is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	repID         string
	displayName   string
	role          string
	authenticated bool
}

func (i *identity) RepID() string        { return i.repID }
func (i *identity) DisplayName() string  { return i.displayName }
func (i *identity) Role() string         { return i.role }
func (i *identity) IsAdmin() bool        { return i.role == "admin" }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if rep info is not present.
func GetIdentity(c *gin.Context) Identity {
	repID, ok := c.Get(ContextRepIDKey)
	if !ok {
		return &identity{authenticated: false}
	}

	id, ok := repID.(string)
	if !ok || id == "" {
		return &identity{authenticated: false}
	}

	name, _ := c.Get(ContextRepNameKey)
	role, _ := c.Get(ContextRoleKey)

	displayName, _ := name.(string)
	roleName, _ := role.(string)

	return &identity{
		repID:         id,
		displayName:   displayName,
		role:          roleName,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context and aborts the
// request with 401 when the caller is not authenticated.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return nil
	}
	return id
}
