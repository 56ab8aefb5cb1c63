package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/dailymood/dailymodel"
	apperrors "github.com/jrsteele09/dailymood/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const tokenExtraUser = "user"

// Login exchanges username and password for a bearer token using the OAuth2
// password grant against /token. The token is returned, not stored.
func (c *Client) Login(ctx context.Context, creds dailymodel.Credentials) (*dailymodel.AuthResponse, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.url(RouteToken),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, newAPIError(http.MethodPost, RouteToken, retrieveErr.Response.StatusCode, retrieveErr.Body)
		}
		return nil, errors.Wrap(err, "[Client.Login] password grant")
	}

	user, err := extraUser(tok)
	if err != nil {
		return nil, err
	}
	return &dailymodel.AuthResponse{Token: tok.AccessToken, User: user}, nil
}

// extraUser decodes the non-standard "user" member of the token response.
func extraUser(tok *oauth2.Token) (*dailymodel.User, error) {
	raw := tok.Extra(tokenExtraUser)
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] encode user")
	}
	var user dailymodel.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] decode user")
	}
	return &user, nil
}

// Register creates an account. Backends that do not issue a token on
// registration return an empty Token.
func (c *Client) Register(ctx context.Context, creds dailymodel.Credentials) (*dailymodel.AuthResponse, error) {
	var resp dailymodel.AuthResponse
	if err := c.do(ctx, http.MethodPost, RouteRegister, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyToken asks the backend who the stored token belongs to.
func (c *Client) VerifyToken(ctx context.Context) (*dailymodel.User, error) {
	var resp dailymodel.VerifyResponse
	if err := c.do(ctx, http.MethodGet, RouteVerifyToken, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "[Client.VerifyToken] no user in response")
	}
	return resp.User, nil
}

// RefreshToken exchanges the stored token for a new one. Storing the result
// is left to the caller.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var resp dailymodel.RefreshResponse
	if err := c.do(ctx, http.MethodPost, RouteRefreshToken, nil, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("[Client.RefreshToken] empty token")
	}
	return resp.Token, nil
}
