package service

import (
	"github.com/dukerupert/plushies/internal/domain"
)

// Cart errors. ErrNoCart is a CartError so handlers render it like any other
// rejected cart mutation.
var (
	ErrNoCart          = domain.Errorf(domain.ECART, "", "No cart found")
	ErrInvalidQuantity = domain.Errorf(domain.EINVALID, "", "Quantity must be at least 1")
	ErrMissingVariant  = domain.Errorf(domain.EINVALID, "", "Variant ID is required")
	ErrMissingLine     = domain.Errorf(domain.EINVALID, "", "Line ID is required")
)

// Concurrency errors - use domain.ECONFLICT
var (
	ErrSearchSuperseded = domain.Conflict("search.products", "Search superseded by a newer request")
	ErrEditSettled      = domain.Conflict("cart.edit", "Quantity edit already settled")
)
