package service

import "github.com/noah-isme/saraban-go-api/internal/models"

// Actor is the authenticated caller, resolved once per request and passed into every operation.
type Actor struct {
	ID   uint
	Role models.Role
	Name string
	IP   string
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.ID > 0
}

// IsAdmin reports whether the actor administers the installation.
func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == models.RoleAdmin
}

// CanSend reports whether the actor may distribute documents.
func (a Actor) CanSend() bool {
	return a.Authenticated() && a.Role.CanSend()
}
