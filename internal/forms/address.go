package forms

import (
	"net/url"

	"storefront/internal/domain"
)

// AddressForm is the shipping address collected at checkout
type AddressForm struct {
	AddressLine1 string `form:"address_line1" validate:"required,max=255"`
	AddressLine2 string `form:"address_line2" validate:"max=255"`
	City         string `form:"city" validate:"required,max=100"`
	State        string `form:"state" validate:"required,max=100"`
	ZipCode      string `form:"zip_code" validate:"required,max=20"`
	Country      string `form:"country" validate:"required,max=100"`
}

// ValidateAddress returns the address carried by raw, not yet owned by anyone
func ValidateAddress(raw url.Values) (domain.Address, FieldErrors) {
	var f AddressForm
	if errs := bind(raw, &f); !errs.Valid() {
		return domain.Address{}, errs
	}

	return domain.Address{
		AddressLine1: f.AddressLine1,
		AddressLine2: f.AddressLine2,
		City:         f.City,
		State:        f.State,
		ZipCode:      f.ZipCode,
		Country:      f.Country,
	}, nil
}
