package service

import "Shutter/models"

// Principal is the caller. A zero UserID is an anonymous request.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

func (p Principal) Anonymous() bool { return p.UserID == 0 }

// CanMutate reports whether p may change a resource owned by ownerID.
func CanMutate(p Principal, ownerID int64) bool {
	if p.Anonymous() {
		return false
	}
	return p.IsAdmin || p.UserID == ownerID
}

// CanView gates private collections.
func CanView(p Principal, c *models.Collection) bool {
	return c.IsPublic || CanMutate(p, c.UserID)
}
