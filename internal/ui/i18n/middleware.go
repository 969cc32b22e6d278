package i18n

import "net/http"

// LangCookieName — cookie с явно выбранным языком.
const LangCookieName = "lang"

// Middleware помещает язык запроса в контекст.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), detectLanguage(r))))
		})
	}
}

// detectLanguage: cookie lang, затем Accept-Language, затем DefaultLang.
func detectLanguage(r *http.Request) string {
	if cookie, err := r.Cookie(LangCookieName); err == nil && IsSupported(cookie.Value) {
		return cookie.Value
	}
	return MatchLanguage(r.Header.Get("Accept-Language"))
}
