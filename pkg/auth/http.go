package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the API root of a locally running backend.
const DefaultBaseURL = "http://localhost:8080/api"

// ErrUnexpectedResponse is returned when the backend answers with a status or body the client
// does not understand.
var ErrUnexpectedResponse = errors.New("unexpected login response")

// Option configures an HTTPAuthenticator.
type Option func(a *HTTPAuthenticator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *HTTPAuthenticator) {
		a.client = client
	}
}

// HTTPAuthenticator posts credentials as JSON to <base>/login.
type HTTPAuthenticator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAuthenticator returns an authenticator for the API rooted at baseURL.
func NewHTTPAuthenticator(baseURL string, opts ...Option) *HTTPAuthenticator {
	a := &HTTPAuthenticator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *HTTPAuthenticator) Login(ctx context.Context, creds Credentials) (Result, error) {
	if err := creds.validate(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(creds)
	if err != nil {
		return Result{}, errors.Wrap(err, "unable to encode credentials")
	}

	url := a.baseURL + "/login"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, errors.Wrap(err, "unable to create login request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Result{}, errors.Wrapf(err, "unable to reach %s", url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, errors.Wrap(err, "unable to read login response")
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized, http.StatusForbidden:
	default:
		return Result{}, errors.Wrapf(ErrUnexpectedResponse, "status %d", resp.StatusCode)
	}

	res := Result{}
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, errors.Wrapf(ErrUnexpectedResponse, "status %d: %v", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		res.Success = false
	}
	if res.Success && res.User == nil {
		return Result{}, errors.Wrap(ErrUnexpectedResponse, "successful login without user")
	}
	if !res.Success && res.Message == "" {
		res.Message = "Login failed. Please try again."
	}

	glog.V(1).Infof("login of %s: success=%t", creds.Email, res.Success)

	return res, nil
}

var _ Authenticator = (*HTTPAuthenticator)(nil)
