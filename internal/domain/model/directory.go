package model

import "fmt"

// DirectoryRecord — запись справочника пользователей.
// ID уникален в коллекции и не меняется за время жизни записи.
type DirectoryRecord struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	City        string `json:"city"`
	Role        Role   `json:"role"`
}

// Field — редактируемое поле записи справочника.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldCompanyName Field = "companyName"
	FieldWebsite     Field = "website"
	FieldCity        Field = "city"
	FieldRole        Field = "role"
)

// ParseField преобразует строку в Field.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldName, FieldEmail, FieldCompanyName, FieldWebsite, FieldCity, FieldRole:
		return f, nil
	default:
		return "", fmt.Errorf("недопустимое поле: %q", s)
	}
}

// With возвращает копию записи с заменённым полем.
// Для FieldRole значение должно быть допустимой ролью.
func (r DirectoryRecord) With(field Field, value string) (DirectoryRecord, error) {
	switch field {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldCompanyName:
		r.CompanyName = value
	case FieldWebsite:
		r.Website = value
	case FieldCity:
		r.City = value
	case FieldRole:
		role, err := ParseRole(value)
		if err != nil {
			return r, err
		}
		r.Role = role
	default:
		return r, fmt.Errorf("недопустимое поле: %q", field)
	}
	return r, nil
}
