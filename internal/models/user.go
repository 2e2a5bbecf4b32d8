// Package models содержит доменную модель пользователя клуба:
// данные учётной записи, профиль, вид членства и набор ролей.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Виды членства определяют размер вступительного взноса.
const (
	KindSocioNumero    = "SOCIO_NUMERO"
	KindSocioAspirante = "SOCIO_ASPIRANTE"
	KindSocioHonorario = "SOCIO_HONORARIO"
	KindSocioFamiliar  = "SOCIO_FAMILIAR"
)

// Роли пользователей в клубе.
const (
	RoleAdmin          = "ADMIN"
	RolePresidente     = "PRESIDENTE"
	RoleTesorero       = "TESORERO"
	RoleSecretario     = "SECRETARIO"
	RoleSocio          = "SOCIO"
	RoleCandidatoSocio = "CANDIDATO_SOCIO"
)

// User представляет зарегистрированного члена клуба.
// Первичный ключ — номер DNI, он же используется как субъект JWT.
type User struct {
	Dni          string     // Номер DNI, первичный ключ
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля
	Name         string     // Имя
	Surnames     string     // Фамилии
	BirthDate    time.Time  // Дата рождения
	Gender       string     // Пол
	Kind         string     // Вид членства (KindSocio*)
	Enabled      bool       // false после отписки, учётная запись не удаляется
	Roles        []string   // Набор ролей (Role*)
	TeamName     *string    // Название команды, nil если не состоит
	CreatedAt    time.Time  // Дата регистрации
}

// HasRole сообщает, содержит ли набор ролей пользователя указанную роль.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Dni       string `json:"dni" validate:"required,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required"`
	Surnames  string `json:"surnames" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required"` // Формат 02-01-2006
	Gender    string `json:"gender" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=SOCIO_NUMERO SOCIO_ASPIRANTE SOCIO_HONORARIO SOCIO_FAMILIAR"`
}

// DummyProfile используется для обновления профиля пользователя.
type DummyProfile struct {
	Name      string `json:"name" validate:"required"`
	Surnames  string `json:"surnames" validate:"required"`
	BirthDate string `json:"birth_date" validate:"required"`
	Gender    string `json:"gender" validate:"required"`
}
