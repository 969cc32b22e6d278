package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := sm.NewSessionData("6f1c2b7e-0000-4000-8000-000000000001", "admin@example.com")

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if *decrypted != *original {
		t.Errorf("после дешифрования: want %+v, got %+v", original, decrypted)
	}
}

// TestSessionManagerWithBase64Key проверяет инициализацию 32-байтовым base64-ключом.
func TestSessionManagerWithBase64Key(t *testing.T) {
	// 32 нулевых байта в base64
	sm, err := NewSessionManager("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=", false, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager с base64-ключом: %v", err)
	}

	encrypted, err := sm.Encrypt(&SessionData{WorkspaceID: "ws"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := sm.Decrypt(encrypted); err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false, time.Hour)
	sm2, _ := NewSessionManager("key-two", false, time.Hour)

	encrypted, err := sm1.Encrypt(&SessionData{WorkspaceID: "secret"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if _, err := sm2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionDecryptGarbage проверяет отказ на повреждённых данных.
func TestSessionDecryptGarbage(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	for _, input := range []string{"", "not-base64!!", "AAAA"} {
		if _, err := sm.Decrypt(input); err == nil {
			t.Errorf("Decrypt(%q): ожидалась ошибка", input)
		}
	}
}

// TestSessionIsExpired проверяет логику истечения сессии.
func TestSessionIsExpired(t *testing.T) {
	expired := &SessionData{ExpiresAt: time.Now().Add(-1 * time.Minute).Unix()}
	if !expired.IsExpired() {
		t.Error("Ожидалось IsExpired()=true для истёкшей сессии")
	}

	fresh := &SessionData{ExpiresAt: time.Now().Add(1 * time.Minute).Unix()}
	if fresh.IsExpired() {
		t.Error("Ожидалось IsExpired()=false для свежей сессии")
	}
}

// TestSessionCookieSetAndGet проверяет установку и извлечение cookie.
func TestSessionCookieSetAndGet(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, 30*time.Minute)

	data := sm.NewSessionData("ws-1", "viewer@example.com")

	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(cookies[0])

	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из cookie: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.WorkspaceID != "ws-1" || got.Email != "viewer@example.com" {
		t.Errorf("сессия: %+v", got)
	}

	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("Cookie path: want %q, got %q", "/", cookie.Path)
	}
	if cookie.MaxAge != 1800 {
		t.Errorf("MaxAge: want 1800, got %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil data при отсутствии cookie")
	}
}

// TestClearSessionCookie проверяет очистку session cookie.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", true, time.Hour)

	w := httptest.NewRecorder()
	sm.ClearSessionCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}

	cookie := cookies[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Error("Value должен быть пустым")
	}
	if !cookie.Secure {
		t.Error("Cookie должен быть Secure")
	}
}

// TestSessionSameSecretAcrossRestarts — cookie читается новым менеджером с тем же секретом.
func TestSessionSameSecretAcrossRestarts(t *testing.T) {
	sm1, _ := NewSessionManager("shared-secret", false, time.Hour)
	sm2, _ := NewSessionManager("shared-secret", false, time.Hour)

	encrypted, err := sm1.Encrypt(&SessionData{WorkspaceID: "ws-7", Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	got, err := sm2.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
	if got.WorkspaceID != "ws-7" {
		t.Errorf("WorkspaceID = %q", got.WorkspaceID)
	}
}

// TestSessionTampered — изменённый cookie отвергается с ErrMalformedSession.
func TestSessionTampered(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)
	encrypted, err := sm.Encrypt(&SessionData{WorkspaceID: "ws"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	b := []byte(encrypted)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	if _, err := sm.Decrypt(string(b)); !errors.Is(err, ErrMalformedSession) {
		t.Errorf("Decrypt(изменённый) = %v, хотели ErrMalformedSession", err)
	}
}
