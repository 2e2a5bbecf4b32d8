package models

// Team представляет команду клуба для лиговых матчей. Первичный ключ — название.
type Team struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"` // DNI членов команды
}

// DummyTeam используется для приёма данных команды из JSON-запроса.
type DummyTeam struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}
