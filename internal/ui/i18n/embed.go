package i18n

import "embed"

// LocaleFS — JSON-каталоги переводов, встроенные в бинарник.
//
//go:embed locales/*.json
var LocaleFS embed.FS
