// Package accounts is the client of the accounts backend: login and logout
// URLs, registration, impersonation and session details.
package accounts

import (
	"context"
	"net/url"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/transport"
)

const DefaultBasePath = "/api/accounts"

// Options configures a Client.
type Options struct {
	BasePath string
	Headers  map[string]string
}

type Client struct {
	router *transport.Router
}

// New creates a Client. The defaults of c are read here.
func New(c *transport.Client, opts Options) *Client {
	base := opts.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	return &Client{router: transport.NewRootRouter(c, base, opts.Headers)}
}

func (c *Client) Router() *transport.Router { return c.router }

// LogoutURL is the URL ending the session and redirecting to redirectURI.
func (c *Client) LogoutURL(redirectURI string) string {
	return c.logoutURL(redirectURI, false)
}

// LogoutAndForgetUserURL is LogoutURL also dropping the remembered user.
func (c *Client) LogoutAndForgetUserURL(redirectURI string) string {
	return c.logoutURL(redirectURI, true)
}

func (c *Client) logoutURL(redirectURI string, forget bool) string {
	q := url.Values{"target_uri": {redirectURI}}
	if forget {
		q.Set("forget_me", "true")
	}
	return c.router.URL("/openid_rp/logout?" + q.Encode())
}

// LoginAsUserURL is the URL of the login flow of a registered user.
func (c *Client) LoginAsUserURL(redirectURI string) string {
	return c.loginURL("user", redirectURI)
}

// LoginAsTempUserURL is the URL of the login flow of a temporary user.
func (c *Client) LoginAsTempUserURL(redirectURI string) string {
	return c.loginURL("temp", redirectURI)
}

func (c *Client) loginURL(flow, redirectURI string) string {
	q := url.Values{"flow": {flow}, "target_uri": {redirectURI}}
	return c.router.URL("/openid_rp/login?" + q.Encode())
}

// Registration is the body of SendRegisterMail.
type Registration struct {
	Email     string `json:"email"`
	TargetURI string `json:"target_uri"`
}

// SendRegisterMail sends the registration mail of a temporary user.
func (c *Client) SendRegisterMail(ctx context.Context, details Registration, opts ...transport.CallOption) (api.Result[struct{}], error) {
	req := &transport.Request{JSON: details}
	return transport.Send[struct{}](ctx, c.router, api.CommandCreate, "/registration", req, opts...)
}

// StartVisibleImpersonation impersonates a user, visibly to them.
func (c *Client) StartVisibleImpersonation(ctx context.Context, userNameOrID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return c.startImpersonation(ctx, userNameOrID, false, opts)
}

// StartHiddenImpersonation impersonates a user without them knowing.
func (c *Client) StartHiddenImpersonation(ctx context.Context, userNameOrID string, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return c.startImpersonation(ctx, userNameOrID, true, opts)
}

func (c *Client) startImpersonation(ctx context.Context, user string, hidden bool, opts []transport.CallOption) (api.Result[struct{}], error) {
	req := &transport.Request{JSON: impersonation{UserID: user, Hidden: hidden}}
	return transport.Send[struct{}](ctx, c.router, api.CommandCreate, "/impersonation", req, opts...)
}

type impersonation struct {
	UserID string `json:"userId"`
	Hidden bool   `json:"hidden"`
}

func (c *Client) StopImpersonation(ctx context.Context, opts ...transport.CallOption) (api.Result[struct{}], error) {
	return transport.Send[struct{}](ctx, c.router, api.CommandDelete, "/impersonation", nil, opts...)
}

// Session returns the details of the current session.
func (c *Client) Session(ctx context.Context, opts ...transport.CallOption) (api.Result[SessionDetails], error) {
	return transport.Send[SessionDetails](ctx, c.router, api.CommandQuery, "/session", nil, opts...)
}

type Group struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type UserInfo struct {
	Name   string  `json:"name"`
	Temp   bool    `json:"temp"`
	Groups []Group `json:"groups"`
}

// SessionDetails describes a session. RealUserInfo is set while
// impersonating.
type SessionDetails struct {
	UserInfo      UserInfo  `json:"userInfo"`
	Remembered    bool      `json:"remembered"`
	Impersonating bool      `json:"impersonating"`
	RealUserInfo  *UserInfo `json:"realUserInfo,omitempty"`
}
