package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Three base64url segments, as carried by bearer tokens.
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Authorization header values sent to the metadata server.
	authHeaderPattern = regexp.MustCompile(`(?i)^(basic|bearer)\s+.+$`)

	// URLs with embedded userinfo, e.g. a platform_url of https://user:pw@host.
	userinfoURLPattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/@\s]+:[^/@\s]*@`)
)

// DefaultRedactOptions returns the masq options applied to every handler.
// Metadata server credentials appear under several names across config, CLI
// flags and the stand-in account table, so each spelling is listed.
//
// Extend with project-specific options:
//
//	opts := append(logging.DefaultRedactOptions(),
//	    masq.WithFieldName("signingKey"),
//	)
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("accounts"),
		masq.WithFieldName("Accounts"),
		masq.WithFieldName("credentials"),
		masq.WithFieldName("Credentials"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("token"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("cookie"),

		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(authHeaderPattern),
		masq.WithRegex(userinfoURLPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr func applying DefaultRedactOptions
// followed by opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}

// redactingHandler applies a ReplaceAttr function to handlers that do not
// support one, such as the pretty terminal handler.
type redactingHandler struct {
	slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(h slog.Handler) slog.Handler {
	return &redactingHandler{Handler: h, replace: NewReplaceAttr()}
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.Handler.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{Handler: h.Handler.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)

	return &redactingHandler{Handler: h.Handler.WithGroup(name), replace: h.replace, groups: groups}
}
