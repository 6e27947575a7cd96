package forms

import (
	"net/url"

	"storefront/internal/domain"
)

// RatingForm is the customer's score and review for a product
type RatingForm struct {
	Rating int    `form:"rating" validate:"required,gte=1,lte=5"`
	Review string `form:"review" validate:"max=1000"`
}

// ValidateRating returns the score and review carried by raw
func ValidateRating(raw url.Values) (domain.Rating, FieldErrors) {
	var f RatingForm
	if errs := bind(raw, &f); !errs.Valid() {
		return domain.Rating{}, errs
	}

	return domain.Rating{Rating: f.Rating, Review: f.Review}, nil
}
