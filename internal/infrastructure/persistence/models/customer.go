package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressModel is the persistence model for a customer Address.
type AddressModel struct {
	BaseModel
	CustomerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Nickname          string    `gorm:"type:varchar(100)"`
	PostalCode        string    `gorm:"type:varchar(8);not null"`
	Street            string    `gorm:"type:varchar(200);not null"`
	Number            string    `gorm:"type:varchar(20);not null"`
	Complement        string    `gorm:"type:varchar(100)"`
	District          string    `gorm:"type:varchar(100)"`
	City              string    `gorm:"type:varchar(100);not null"`
	State             string    `gorm:"type:varchar(2);not null"`
	IsBilling         bool      `gorm:"not null;default:false"`
	IsDefaultShipping bool      `gorm:"not null;default:false"`
	Active            bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "customer_addresses"
}

// ToDomain converts the persistence model to a domain Address.
// It fails when the stored location no longer forms a valid address.
func (m *AddressModel) ToDomain() (*customer.Address, error) {
	location, err := m.location()
	if err != nil {
		return nil, fmt.Errorf("address %s: %w", m.ID, err)
	}
	return &customer.Address{
		BaseEntity:        m.BaseModel.ToDomain(),
		CustomerID:        m.CustomerID,
		Nickname:          m.Nickname,
		Location:          location,
		IsBilling:         m.IsBilling,
		IsDefaultShipping: m.IsDefaultShipping,
		Active:            m.Active,
	}, nil
}

func (m *AddressModel) location() (valueobject.Address, error) {
	code, err := valueobject.ParsePostalCode(m.PostalCode)
	if err != nil {
		return valueobject.Address{}, err
	}
	return valueobject.NewAddress(code, m.Street, m.Number, m.District, m.City, m.State,
		valueobject.WithComplement(m.Complement))
}

// FromDomain populates the persistence model from a domain Address.
func (m *AddressModel) FromDomain(a *customer.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.CustomerID = a.CustomerID
	m.Nickname = a.Nickname
	m.PostalCode = a.Location.PostalCode().Digits()
	m.Street = a.Location.Street()
	m.Number = a.Location.Number()
	m.Complement = a.Location.Complement()
	m.District = a.Location.District()
	m.City = a.Location.City()
	m.State = a.Location.State()
	m.IsBilling = a.IsBilling
	m.IsDefaultShipping = a.IsDefaultShipping
	m.Active = a.Active
}

// AddressModelFromDomain creates a new persistence model from a domain Address.
func AddressModelFromDomain(a *customer.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}
