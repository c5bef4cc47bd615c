package auth

// CanAccess is the single authorization predicate for owner-scoped
// resources: an admin may touch anything, everyone else only what they own.
// Every handler and service applies this one rule instead of re-deriving it.
func CanAccess(caller *Claims, ownerID string) bool {
	if caller == nil {
		return false
	}
	if caller.IsAdmin {
		return true
	}
	return ownerID != "" && caller.UserID == ownerID
}
