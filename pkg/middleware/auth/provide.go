package auth

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
)

// ProvideAuthentication wires the admin token verifier from env.
func ProvideAuthentication() *Middleware {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("ADMIN_JWT_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}
	return New(Options{
		Secret:    os.Getenv("ADMIN_JWT_SECRET"),
		Issuer:    strings.TrimSpace(os.Getenv("ADMIN_JWT_ISSUER")),
		Audience:  strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		AdminRole: os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass: os.Getenv("AUTH_DEV_BYPASS") == "true",
		Leeway:    leeway,
	})
}

type Options struct {
	Secret    string
	Issuer    string
	Audience  string
	AdminRole string
	DevBypass bool
	Leeway    time.Duration
}

func New(o Options) *Middleware {
	return &Middleware{
		secret:    []byte(o.Secret),
		issuer:    o.Issuer,
		audience:  o.Audience,
		leeway:    o.Leeway,
		adminRole: o.AdminRole,
		devBypass: o.DevBypass,
	}
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
