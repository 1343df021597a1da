package http

import (
	"net/http"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	"github.com/goliatone/go-translatable/internal/logging"
)

// AcceptLanguageHeader is the request header carrying language preferences.
const AcceptLanguageHeader = "Accept-Language"

// AcceptLanguage parses the Accept-Language header of every request and
// stores the raw value and its ranges on the request context. A non-empty
// header is also added to the context logging fields as accept_language.
func AcceptLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(AcceptLanguageHeader)
		ranges := acceptlang.ParseRFCPrioritizedHeader(raw)
		ctx := acceptlang.ContextWithRanges(r.Context(), raw, ranges)
		if raw != "" {
			ctx = logging.ContextWithFields(ctx, map[string]any{logging.FieldAcceptLanguage: raw})
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestPreferences returns the ranges stored by AcceptLanguage, parsing the
// header directly when the middleware was not installed.
func requestPreferences(r *http.Request) []acceptlang.LanguageRange {
	if ranges, ok := acceptlang.RangesFromContext(r.Context()); ok {
		return ranges
	}
	return acceptlang.ParseRFCPrioritizedHeader(r.Header.Get(AcceptLanguageHeader))
}
