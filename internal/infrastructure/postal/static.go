package postal

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
)

// StaticDirectory is an in-memory postal directory for development and tests.
// It never performs network I/O.
type StaticDirectory struct {
	mu      sync.RWMutex
	entries map[string]shipping.Destination
}

// NewStaticDirectory creates a directory holding destinations
func NewStaticDirectory(destinations ...shipping.Destination) *StaticDirectory {
	d := &StaticDirectory{entries: make(map[string]shipping.Destination, len(destinations))}
	for _, dest := range destinations {
		d.Add(dest)
	}
	return d
}

// DefaultStaticDirectory returns a directory with one address per distance tier
func DefaultStaticDirectory() *StaticDirectory {
	entry := func(cep, street, district, city, state string) shipping.Destination {
		return shipping.Destination{
			PostalCode: valueobject.MustParsePostalCode(cep),
			Street:     street,
			District:   district,
			City:       city,
			State:      state,
		}
	}
	return NewStaticDirectory(
		entry("01310-100", "Avenida Paulista", "Bela Vista", "São Paulo", "SP"),
		entry("07010-000", "Rua Dom Pedro II", "Centro", "Guarulhos", "SP"),
		entry("13010-111", "Rua Barão de Jaguara", "Centro", "Campinas", "SP"),
		entry("11010-000", "Rua XV de Novembro", "Centro", "Santos", "SP"),
		entry("16010-000", "Rua Floriano Peixoto", "Centro", "Araçatuba", "SP"),
		entry("20040-002", "Avenida Rio Branco", "Centro", "Rio de Janeiro", "RJ"),
		entry("30130-010", "Avenida Afonso Pena", "Centro", "Belo Horizonte", "MG"),
		entry("90010-000", "Rua dos Andradas", "Centro Histórico", "Porto Alegre", "RS"),
		entry("69005-070", "Avenida Eduardo Ribeiro", "Centro", "Manaus", "AM"),
	)
}

// Add registers or replaces a destination
func (d *StaticDirectory) Add(dest shipping.Destination) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[dest.PostalCode.Digits()] = dest
}

// Resolve returns the registered destination of code
func (d *StaticDirectory) Resolve(ctx context.Context, code valueobject.PostalCode) (*shipping.Destination, error) {
	d.mu.RLock()
	dest, ok := d.entries[code.Digits()]
	d.mu.RUnlock()
	if !ok {
		return nil, shared.ErrUnknownDestination.WithSubject(code.Digits())
	}
	return &dest, nil
}

// Ensure StaticDirectory implements shipping.PostalLookup
var _ shipping.PostalLookup = (*StaticDirectory)(nil)
