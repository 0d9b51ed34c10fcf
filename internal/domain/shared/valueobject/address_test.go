package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostalCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "digits only", raw: "01310100", want: "01310100"},
		{name: "with hyphen", raw: "01310-100", want: "01310100"},
		{name: "with dots and spaces", raw: " 01.310-100 ", want: "01310100"},
		{name: "too short", raw: "0131010", wantErr: true},
		{name: "too long", raw: "013101000", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters are stripped", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := ParsePostalCode(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidPostalCode)
				assert.True(t, pc.IsEmpty())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pc.Digits())
		})
	}
}

func TestPostalCode_Formatted(t *testing.T) {
	pc := MustParsePostalCode("01310100")
	assert.Equal(t, "01310-100", pc.Formatted())
	assert.Equal(t, "01310-100", pc.String())
	assert.Equal(t, "", PostalCode{}.Formatted())
}

func TestPostalCode_JSON(t *testing.T) {
	data, err := json.Marshal(MustParsePostalCode("20040-020"))
	require.NoError(t, err)
	assert.JSONEq(t, `"20040020"`, string(data))

	var pc PostalCode
	require.NoError(t, json.Unmarshal([]byte(`"20040-020"`), &pc))
	assert.Equal(t, "20040020", pc.Digits())

	assert.Error(t, json.Unmarshal([]byte(`"123"`), &pc))
}

func TestNewAddress(t *testing.T) {
	pc := MustParsePostalCode("01310-100")

	tests := []struct {
		name    string
		street  string
		number  string
		city    string
		state   string
		wantErr bool
	}{
		{name: "valid", street: "Avenida Paulista", number: "1000", city: "São Paulo", state: "sp"},
		{name: "missing street", street: " ", number: "1000", city: "São Paulo", state: "SP", wantErr: true},
		{name: "missing number", street: "Avenida Paulista", number: "", city: "São Paulo", state: "SP", wantErr: true},
		{name: "missing city", street: "Avenida Paulista", number: "1000", city: "", state: "SP", wantErr: true},
		{name: "state not a UF", street: "Avenida Paulista", number: "1000", city: "São Paulo", state: "Sao Paulo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(pc, tt.street, tt.number, "Bela Vista", tt.city, tt.state)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, shared.KindValidation, shared.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SP", addr.State())
		})
	}

	t.Run("missing postal code", func(t *testing.T) {
		_, err := NewAddress(PostalCode{}, "Rua A", "1", "", "Campinas", "SP")
		assert.ErrorIs(t, err, shared.ErrInvalidPostalCode)
	})
}

func TestAddress_FullAddress(t *testing.T) {
	pc := MustParsePostalCode("01310100")

	withComplement := MustNewAddress(pc, "Avenida Paulista", "1000", "Bela Vista", "São Paulo", "SP", WithComplement("Apto 12"))
	assert.Equal(t, "Avenida Paulista, 1000 - Apto 12 - Bela Vista, São Paulo/SP - CEP 01310-100", withComplement.FullAddress())

	noExtras := MustNewAddress(pc, "Avenida Paulista", "1000", "", "São Paulo", "SP")
	assert.Equal(t, "Avenida Paulista, 1000, São Paulo/SP - CEP 01310-100", noExtras.FullAddress())

	assert.Equal(t, "", Address{}.FullAddress())
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	addr := MustNewAddress(MustParsePostalCode("20040020"), "Rua da Assembleia", "10", "Centro", "Rio de Janeiro", "RJ", WithComplement("Sala 5"))

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}
