package model

// All returns every model for migration.
func All() []interface{} {
	return []interface{}{
		&Store{},
		&Admin{},
		&Customer{},
		&CustomerBankDetail{},
		&Category{},
		&Product{},
		&ProductType{},
		&WishlistItem{},
		&Order{},
		&OrderItem{},
		&Invoice{},
		&ShippingSettings{},
		&TaxRate{},
		&PaymentGateway{},
		&Banner{},
		&Page{},
		&Footer{},
	}
}
