package acceptlang

import "context"

type contextKey string

const (
	rangesContextKey contextKey = "translatable.acceptlang.ranges"
	rawContextKey    contextKey = "translatable.acceptlang.raw"
)

// ContextWithRanges stores the raw header and its parsed ranges on ctx.
func ContextWithRanges(ctx context.Context, raw string, ranges []LanguageRange) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	copied := append([]LanguageRange(nil), ranges...)
	ctx = context.WithValue(ctx, rawContextKey, raw)
	return context.WithValue(ctx, rangesContextKey, copied)
}

// RangesFromContext returns a copy of the ranges stored by ContextWithRanges.
func RangesFromContext(ctx context.Context) ([]LanguageRange, bool) {
	if ctx == nil {
		return nil, false
	}
	ranges, ok := ctx.Value(rangesContextKey).([]LanguageRange)
	if !ok {
		return nil, false
	}
	return append([]LanguageRange(nil), ranges...), true
}

// RawFromContext returns the unparsed header value stored on ctx.
func RawFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	raw, _ := ctx.Value(rawContextKey).(string)
	return raw
}
