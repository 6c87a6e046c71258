package dto

// ResetResponse reports the counts created by a database reset.
type ResetResponse struct {
	Message           string `json:"message"`
	UsersCreated      int    `json:"users_created"`
	CategoriesCreated int    `json:"categories_created"`
	ProductsCreated   int    `json:"products_created"`
	OrdersCreated     int    `json:"orders_created"`
}

// StatsResponse reports current row counts per entity.
type StatsResponse struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Orders     int `json:"orders"`
}
