package models

// All lists every model handled by Storage.Initialize.
func All() []interface{} {
	return []interface{}{
		&Tenant{},
		&FloorPlan{},
		&FloorTable{},
		&Reservation{},
		&MenuCategory{},
		&MenuItem{},
		&ClientPage{},
		&Integration{},
	}
}
