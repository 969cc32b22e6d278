package seedclient

// SeedUser — запись пользователя источника начальных данных
// (формат jsonplaceholder /users). Лишние поля игнорируются.
type SeedUser struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Website string      `json:"website"`
	Company SeedCompany `json:"company"`
	Address SeedAddress `json:"address"`
}

// SeedCompany — вложенный объект company.
type SeedCompany struct {
	Name string `json:"name"`
}

// SeedAddress — вложенный объект address.
type SeedAddress struct {
	City string `json:"city"`
}
