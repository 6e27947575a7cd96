package forms

import (
	"net/url"

	"storefront/internal/domain"
)

// ProductForm is the staff create/edit product form
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=255"`
	Description string `form:"description" validate:"max=5000"`
	Price       string `form:"price" validate:"required,money"`
}

// ValidateProduct returns the product attributes carried by raw
func ValidateProduct(raw url.Values) (domain.Product, FieldErrors) {
	var f ProductForm
	if errs := bind(raw, &f); !errs.Valid() {
		return domain.Product{}, errs
	}

	price, _ := parseMoney(f.Price)
	return domain.Product{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
	}, nil
}

// ProductValues renders a product back into form values for editing
func ProductValues(p *domain.Product) url.Values {
	return url.Values{
		"name":        {p.Name},
		"description": {p.Description},
		"price":       {p.Price.StringFixed(2)},
	}
}
