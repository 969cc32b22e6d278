// credentials.go — проверка демонстрационных учётных записей.
// Пароли хранятся только в виде bcrypt-хешей, вычисленных при старте.
package service

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

type credential struct {
	hash []byte
	role model.Role
}

// Credentials — набор принимаемых учётных записей.
type Credentials struct {
	accounts map[string]credential
	// dummy — хеш для сравнения при неизвестном email,
	// чтобы время ответа не зависело от существования учётной записи.
	dummy []byte
}

// NewCredentials хеширует пароли учётных записей.
// cost — стоимость bcrypt (bcrypt.DefaultCost в production, bcrypt.MinCost в тестах).
func NewCredentials(accounts []config.Account, cost int) (*Credentials, error) {
	c := &Credentials{accounts: make(map[string]credential, len(accounts))}

	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("хеширование пароля %s: %w", acc.Email, err)
		}
		c.accounts[strings.ToLower(acc.Email)] = credential{hash: hash, role: acc.Role}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}
	c.dummy = dummy

	return c, nil
}

// Verify проверяет пару email/пароль.
// Email сравнивается без учёта регистра и пробелов по краям.
// Возвращает ErrAuthFailure при несовпадении.
func (c *Credentials) Verify(email, password string) (model.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	cred, ok := c.accounts[email]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(c.dummy, []byte(password))
		return model.Principal{}, ErrAuthFailure
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return model.Principal{}, ErrAuthFailure
	}

	return model.Principal{Email: email, Role: cred.role}, nil
}
