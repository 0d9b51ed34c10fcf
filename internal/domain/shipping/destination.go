package shipping

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Destination is what a postal directory knows about a postal code
type Destination struct {
	PostalCode valueobject.PostalCode `json:"postal_code"`
	Street     string                 `json:"street,omitempty"`
	District   string                 `json:"district,omitempty"`
	City       string                 `json:"city"`
	State      string                 `json:"state"`
	IBGECode   string                 `json:"ibge_code,omitempty"`
}

// PostalLookup resolves postal codes to destinations.
//
// Implementations return shared.ErrUnknownDestination when the code does
// not exist and an error of kind EXTERNAL (shared.ErrPostalLookupFailed)
// when the directory cannot be reached or answers with malformed data.
// Retries, if any, belong to the implementation.
type PostalLookup interface {
	Resolve(ctx context.Context, code valueobject.PostalCode) (*Destination, error)
}
