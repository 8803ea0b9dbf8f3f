// Package oauth реализует вход через Google поверх golang.org/x/oauth2.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"calbuddy/internal/calendar/config"
	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/internal/calendar/resilience"
	"calbuddy/pkg/logger"
)

const (
	GoogleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL = "https://oauth2.googleapis.com/token"

	providerName     = "google"
	maxUserInfoBytes = 1 << 20
)

const (
	LogExchangeFailed = "failed to exchange authorization code"
	LogUserInfoFailed = "failed to fetch google user info"
)

// googleUser - ответ userinfo эндпоинта OpenID Connect.
type googleUser struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Email      string `json:"email"`
}

// GoogleProvider реализует services.IdentityProvider.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
	resilience  *resilience.ServiceResilience
}

var _ services.IdentityProvider = (*GoogleProvider)(nil)

// NewGoogleProvider создает провайдера из настроек. Пустые AuthURL и TokenURL заменяются адресами Google.
func NewGoogleProvider(cfg *config.OAuthConfig) *GoogleProvider {
	return NewGoogleProviderWithResilience(cfg, resilience.NewServiceResilience(providerName, IsPermanent))
}

// NewGoogleProviderWithResilience позволяет подменить политику повторов.
func NewGoogleProviderWithResilience(cfg *config.OAuthConfig, res *resilience.ServiceResilience) *GoogleProvider {
	endpoint := oauth2.Endpoint{
		AuthURL:   GoogleAuthURL,
		TokenURL:  GoogleTokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		resilience:  res,
	}
}

// IsPermanent сообщает, что ошибку бесполезно повторять.
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrProviderRejected)
}

// AuthCodeURL возвращает адрес страницы согласия Google.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange обменивает код на токен и читает профиль пользователя.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*entities.Profile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", domain.ErrProviderRejected)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	// Код авторизации одноразовый, повтор обмена всегда получит invalid_grant.
	token, err := resilience.DoOnce(ctx, p.resilience, "exchange", func(ctx context.Context) (*oauth2.Token, error) {
		tok, err := p.config.Exchange(ctx, code)
		if err != nil {
			return nil, classifyExchangeError(err)
		}
		return tok, nil
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogExchangeFailed, zap.Error(err))
		return nil, err
	}

	user, err := resilience.Do(ctx, p.resilience, "userinfo", func(ctx context.Context) (*googleUser, error) {
		return p.fetchUser(ctx, token)
	})
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogUserInfoFailed, zap.Error(err))
		return nil, err
	}

	profile := user.toProfile()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderRejected, err)
	}
	return profile, nil
}

func (p *GoogleProvider) fetchUser(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderRejected, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: userinfo status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: userinfo status %d", domain.ErrProviderRejected, resp.StatusCode)
	}

	var user googleUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %w", domain.ErrProviderRejected, err)
	}
	return &user, nil
}

func classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
		retrieveErr.Response.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%w: %w", domain.ErrProviderRejected, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
}

func (u *googleUser) toProfile() *entities.Profile {
	displayName := strings.TrimSpace(u.Name)
	if displayName == "" {
		displayName = strings.TrimSpace(u.GivenName + " " + u.FamilyName)
	}
	if displayName == "" {
		displayName = u.Email
	}

	return &entities.Profile{
		ProviderID:  u.Sub,
		DisplayName: displayName,
		FirstName:   u.GivenName,
		LastName:    u.FamilyName,
		Image:       u.Picture,
		Email:       u.Email,
	}
}
