// Пакет auth — cookie сессии Admin Console.
// Cookie несёт только id рабочего пространства, email и срок действия,
// запечатанные XChaCha20-Poly1305. Состояние сессии хранится на сервере.
package auth

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// SessionCookieName — имя cookie сессии.
const SessionCookieName = "ac_session"

// hkdfInfo — контекст вывода ключа cookie из секрета.
const hkdfInfo = "admin-console session cookie v1"

// ErrMalformedSession — cookie не удалось расшифровать.
var ErrMalformedSession = errors.New("повреждённый cookie сессии")

// SessionData — содержимое cookie.
type SessionData struct {
	WorkspaceID string `json:"wid"`
	Email       string `json:"email"`
	// ExpiresAt — Unix-время истечения
	ExpiresAt int64 `json:"exp"`
}

// IsExpired проверяет, истекла ли сессия.
func (s *SessionData) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// SessionManager запечатывает и читает cookie сессии.
type SessionManager struct {
	aead   cipher.AEAD
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager создаёт менеджер cookie.
// Ключ AEAD выводится через HKDF-SHA256 из secret (base64 или произвольная строка).
// Пустой secret заменяется случайным: cookie не переживут перезапуск.
func NewSessionManager(secret string, secure bool, ttl time.Duration) (*SessionManager, error) {
	ikm, err := secretBytes(secret)
	if err != nil {
		return nil, err
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("ошибка вывода ключа сессии: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AEAD: %w", err)
	}

	return &SessionManager{
		aead:   aead,
		secure: secure,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func secretBytes(secret string) ([]byte, error) {
	if secret == "" {
		b := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(rand.Reader, b); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(secret); err == nil && len(b) >= 16 {
		return b, nil
	}
	return []byte(secret), nil
}

// TTL — время жизни сессии.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Encrypt запечатывает SessionData в base64url-строку (nonce || ciphertext).
// Имя cookie входит в associated data.
func (sm *SessionManager) Encrypt(data *SessionData) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	nonce := make([]byte, sm.aead.NonceSize(), sm.aead.NonceSize()+len(plaintext)+sm.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	sealed := sm.aead.Seal(nonce, nonce, plaintext, []byte(SessionCookieName))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt открывает строку, полученную от Encrypt.
func (sm *SessionManager) Decrypt(encrypted string) (*SessionData, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil || len(sealed) < sm.aead.NonceSize()+sm.aead.Overhead() {
		return nil, ErrMalformedSession
	}

	nonce, ciphertext := sealed[:sm.aead.NonceSize()], sealed[sm.aead.NonceSize():]
	plaintext, err := sm.aead.Open(nil, nonce, ciphertext, []byte(SessionCookieName))
	if err != nil {
		return nil, ErrMalformedSession
	}

	var data SessionData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return &data, nil
}

// NewSessionData создаёт содержимое cookie со сроком действия TTL.
func (sm *SessionManager) NewSessionData(workspaceID, email string) *SessionData {
	return &SessionData{
		WorkspaceID: workspaceID,
		Email:       email,
		ExpiresAt:   sm.now().Add(sm.ttl).Unix(),
	}
}

// SetSessionCookie записывает cookie сессии в ответ.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, data *SessionData) error {
	value, err := sm.Encrypt(data)
	if err != nil {
		return err
	}
	http.SetCookie(w, sm.cookie(value, int(sm.ttl.Seconds())))
	return nil
}

// GetSessionFromRequest читает cookie сессии. Без cookie возвращает nil, nil.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*SessionData, error) {
	c, err := r.Cookie(SessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sm.Decrypt(c.Value)
}

// ClearSessionCookie удаляет cookie сессии.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, sm.cookie("", -1))
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
