package service

import (
	"context"
	"strings"

	"github.com/mouse-haven/internal/i18n"
)

type sessionKey struct{}

type localeKey struct{}

// WithSessionID 将会话ID写入上下文，购物车读写按会话隔离
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, strings.TrimSpace(sessionID))
}

// SessionIDFromContext 读取会话ID
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithLocale 将语言写入上下文
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, i18n.NormalizeLocale(locale))
}

func localeFromContext(ctx context.Context) string {
	if ctx == nil {
		return i18n.LocaleEN
	}
	if locale, ok := ctx.Value(localeKey{}).(string); ok && locale != "" {
		return locale
	}
	return i18n.LocaleEN
}
