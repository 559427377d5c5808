package auth

// Identity is the authenticated principal attached to a request's
// context after token verification. It lives for exactly one request.
type Identity struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the identity carries the given role tag.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
