package interfaces

// TranslationMeta describes how a translated record was resolved against the
// caller's language preferences.
type TranslationMeta struct {
	RequestedLocale string `json:"requested_locale"`
	ResolvedLocale  string `json:"resolved_locale"`
	// AvailableLocales lists the locale codes of every candidate translation
	// the record had at resolution time.
	AvailableLocales       []string `json:"available_locales"`
	MissingRequestedLocale bool     `json:"missing_requested_locale"`
	FallbackUsed           bool     `json:"fallback_used"`
}
