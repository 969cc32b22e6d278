// Пакет token — выпуск и проверка access token JSON API.
// Токены подписываются RS256 ключом процесса; публичная часть
// публикуется как JWKS (/.well-known/jwks.json).
package token

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// keyBits — размер RSA-ключа подписи.
const keyBits = 2048

// Claims — claims access token.
type Claims struct {
	jwt.RegisteredClaims
	// WorkspaceID — id рабочего пространства (сессии), к которому привязан токен.
	WorkspaceID string `json:"sid"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Issuer — выпуск access token.
type Issuer struct {
	key    *rsa.PrivateKey
	kid    string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// New создаёт Issuer с новым RSA-ключом.
func New(issuer string, ttl time.Duration) (*Issuer, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("генерация RSA-ключа: %w", err)
	}
	return NewWithKey(key, uuid.NewString(), issuer, ttl), nil
}

// NewWithKey создаёт Issuer с заданным ключом и kid.
func NewWithKey(key *rsa.PrivateKey, kid, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		key:    key,
		kid:    kid,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Name возвращает ожидаемое значение iss.
func (i *Issuer) Name() string {
	return i.issuer
}

// Issue выпускает токен для пользователя рабочего пространства workspaceID.
// Возвращает подписанный токен и момент истечения.
func (i *Issuer) Issue(workspaceID string, p model.Principal) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		WorkspaceID: workspaceID,
		Email:       p.Email,
		Role:        string(p.Role),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = i.kid

	signed, err := tok.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("подпись токена: %w", err)
	}
	return signed, expiresAt, nil
}

// JWKS возвращает публичный ключ в формате JWK Set.
func (i *Issuer) JWKS() json.RawMessage {
	pub := &i.key.PublicKey
	set := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": i.kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	data, _ := json.Marshal(set)
	return data
}

// Keyfunc возвращает keyfunc для проверки подписи по собственному JWKS.
func (i *Issuer) Keyfunc() (keyfunc.Keyfunc, error) {
	kf, err := keyfunc.NewJWKSetJSON(i.JWKS())
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}
	return kf, nil
}
