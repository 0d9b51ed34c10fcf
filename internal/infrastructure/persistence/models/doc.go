// Package models holds the GORM rows behind the storefront tables: products,
// customer addresses, orders with their items, and the order number sequence.
// Domain types carry no ORM tags; each model converts with ToDomain and
// FromDomain, and the repositories only ever hand domain types to callers.
package models
