package model

// Identity is the authenticated caller as extracted from the access
// token by the auth middleware.
type Identity struct {
	UserID int64
	Name   string
	Role   Role
}
