package auth

import (
	"errors"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func testProvider(endSession string) *OIDCProvider {
	return &OIDCProvider{
		oauth: oauth2.Config{
			ClientID:    "client-1",
			Endpoint:    oauth2.Endpoint{AuthURL: "https://idp.test/authorize", TokenURL: "https://idp.test/token"},
			RedirectURL: "http://api.test/callback",
			Scopes:      []string{"openid", "profile", "email"},
		},
		endSession: endSession,
	}
}

func TestOIDCProvider_AuthCodeURLCarriesStateAndNonce(t *testing.T) {
	raw := testProvider("").AuthCodeURL("state-1", "nonce-1")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	q := u.Query()
	if q.Get("state") != "state-1" || q.Get("nonce") != "nonce-1" {
		t.Errorf("AuthCodeURL = %q, want state and nonce parameters", raw)
	}
	if q.Get("redirect_uri") != "http://api.test/callback" || q.Get("client_id") != "client-1" {
		t.Errorf("AuthCodeURL = %q, want client registration parameters", raw)
	}
}

func TestCheckNonce(t *testing.T) {
	cases := []struct {
		name      string
		got, want string
		ok        bool
	}{
		{"match", "n-1", "n-1", true},
		{"different", "n-2", "n-1", false},
		{"token without nonce", "", "n-1", false},
		{"no nonce cookie", "", "", false},
	}
	for _, c := range cases {
		err := checkNonce(c.got, c.want)
		if c.ok && err != nil {
			t.Errorf("%s: err = %v, want nil", c.name, err)
		}
		if !c.ok && !errors.Is(err, ErrNonceMismatch) {
			t.Errorf("%s: err = %v, want ErrNonceMismatch", c.name, err)
		}
	}
}

func TestOIDCProvider_LogoutURL(t *testing.T) {
	if got := testProvider("").LogoutURL("http://client.test"); got != "http://client.test" {
		t.Errorf("LogoutURL without end_session_endpoint = %q", got)
	}

	u, err := url.Parse(testProvider("https://idp.test/logout").LogoutURL("http://client.test"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "idp.test" || u.Query().Get("post_logout_redirect_uri") != "http://client.test" || u.Query().Get("client_id") != "client-1" {
		t.Errorf("LogoutURL = %s", u)
	}
}
