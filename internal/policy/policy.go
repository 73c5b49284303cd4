package policy

import (
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
)

// AuthorizeOwner is the whole access policy: a mutation on an owned resource
// is permitted iff the caller is authenticated and is the owner. Reads never
// go through here.
func AuthorizeOwner(callerID, ownerID string) error {
	if callerID == "" {
		return commonerrors.ErrUnauthenticated
	}
	if callerID != ownerID {
		return commonerrors.ErrForbidden
	}
	return nil
}
