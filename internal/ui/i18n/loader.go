package i18n

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// LoadFromEmbedFS загружает каталоги locales/<code>.json всех языков Languages.
// Каталог, в котором не хватает ключей языка по умолчанию, считается ошибкой.
func LoadFromEmbedFS(bundle *Bundle, logger *slog.Logger) error {
	for _, l := range Languages {
		path := "locales/" + l.Code + ".json"
		data, err := LocaleFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: не удалось прочитать %s: %w", path, err)
		}
		if err := bundle.LoadMessages(l.Code, data); err != nil {
			return err
		}
	}

	for _, l := range Languages[1:] {
		if missing := bundle.MissingKeys(l.Code); len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("i18n: в каталоге %s нет ключей: %s", l.Code, strings.Join(missing, ", "))
		}
	}

	logger.Info("Каталоги переводов загружены", slog.Int("languages", len(Languages)))
	return nil
}
