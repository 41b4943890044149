package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gamerstore/backend/internal/domain"
)

// Profile is the identity delivered by an external provider after a
// successful authorization.
type Profile struct {
	Email      string
	Name       string
	PictureURL string
}

// OAuthProvider drives the authorization-code flow: it builds the consent
// URL and later exchanges the returned code for the user's profile.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuth implements OAuthProvider against Google's OAuth2 endpoints.
type GoogleOAuth struct {
	config *oauth2.Config
}

var _ OAuthProvider = (*GoogleOAuth)(nil)

// NewGoogleOAuth creates a new GoogleOAuth instance.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token and fetches the
// userinfo document with it. A code that Google refuses comes back as an
// unauthorized error, not an internal one.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.Unauthorized("auth.oauth", "authorization code rejected by provider")
	}

	resp, err := g.config.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, domain.Internal(err, "auth.oauth", "failed to fetch user profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.Internal(
			fmt.Errorf("userinfo returned status %d", resp.StatusCode),
			"auth.oauth", "failed to fetch user profile")
	}

	var body struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.Internal(err, "auth.oauth", "failed to decode user profile")
	}
	if body.Email == "" {
		return nil, domain.Unauthorized("auth.oauth", "provider returned no email")
	}

	return &Profile{Email: body.Email, Name: body.Name, PictureURL: body.Picture}, nil
}
