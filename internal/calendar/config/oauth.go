package config

import (
	"time"
)

// OAuthConfig - настройки входа через Google.
type OAuthConfig struct {
	ClientID     string        `yaml:"client_id" env:"GOOGLE_CLIENT_ID" env-default:""`
	ClientSecret string        `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET" env-default:""`
	CallbackURL  string        `yaml:"callback_url" env:"GOOGLE_CALLBACK_URL" env-default:"http://localhost:5001/auth/google/callback"`
	Scopes       []string      `yaml:"scopes" env:"GOOGLE_SCOPES" env-default:"openid,profile,email" env-separator:","`
	AuthURL      string        `yaml:"auth_url" env:"GOOGLE_AUTH_URL" env-default:""`
	TokenURL     string        `yaml:"token_url" env:"GOOGLE_TOKEN_URL" env-default:""`
	UserInfoURL  string        `yaml:"userinfo_url" env:"GOOGLE_USERINFO_URL" env-default:"https://openidconnect.googleapis.com/v1/userinfo"`
	StateTTL     time.Duration `yaml:"state_ttl" env:"GOOGLE_STATE_TTL" env-default:"10m"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"GOOGLE_HTTP_TIMEOUT" env-default:"10s"`
}
