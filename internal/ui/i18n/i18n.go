// Пакет i18n — переводы строк интерфейса Admin Console.
// Язык запроса кладётся в контекст middleware, страницы получают строки
// через T(ctx, key) и Tf(ctx, key, args...). Ключ без перевода
// отображается как есть.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLang — язык по умолчанию и источник перевода для отсутствующих ключей.
const DefaultLang = "en"

// Language — поддерживаемый язык интерфейса.
type Language struct {
	Code string
	Tag  language.Tag
}

// Languages — поддерживаемые языки. Первый — язык по умолчанию для matcher.
var Languages = []Language{
	{Code: DefaultLang, Tag: language.English},
	{Code: "fr", Tag: language.French},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Languages))
	for i, l := range Languages {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

type contextKey string

const contextKeyLang contextKey = "i18n_lang"

// Bundle — каталоги переводов: язык → ключ → строка.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle. logger может быть nil.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает плоский JSON-каталог {"key": "строка"} языка lang.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка разбора каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	b.catalogs[lang] = messages
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Debug("Каталог переводов загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает строку ключа key на языке lang.
// Порядок поиска: lang, DefaultLang, сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if msg, ok := b.catalogs[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// Translatef — Translate с подстановкой аргументов в стиле fmt.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	format := b.Translate(lang, key)
	if len(args) == 0 {
		return format
	}
	return sprintf(format, args...)
}

// MissingKeys возвращает ключи каталога DefaultLang, которых нет в каталоге lang.
func (b *Bundle) MissingKeys(lang string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var missing []string
	for key := range b.catalogs[DefaultLang] {
		if _, ok := b.catalogs[lang][key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init создаёт глобальный Bundle, используемый T и Tf.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста (DefaultLang, если не задан).
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// T возвращает перевод ключа на языке запроса.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод ключа с подстановкой аргументов.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		return sprintf(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// sprintf скрывает от go vet формат-строки, прочитанные из каталогов.
//
//nolint:govet // формат известен только во время выполнения
var sprintf = fmt.Sprintf

// MatchLanguage выбирает язык по заголовку Accept-Language.
// Неподдерживаемый или пустой заголовок даёт DefaultLang.
func MatchLanguage(acceptLanguage string) string {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return Languages[idx].Code
}

// IsSupported проверяет код языка из cookie или формы.
func IsSupported(lang string) bool {
	for _, l := range Languages {
		if l.Code == lang {
			return true
		}
	}
	return false
}
