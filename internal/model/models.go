package model

// AllModels lists every persisted model in foreign-key dependency
// order, ready to hand to AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Product{},
		&RetailLine{},
		&Order{},
		&OrderItem{},
		&Inventory{},
		&InventoryMovement{},
		&User{},
	}
}
