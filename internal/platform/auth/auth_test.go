package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"oidc ok", Config{Mode: ModeOIDC, RolesClaim: "roles", EmailClaim: "email", OIDCIssuerURL: "https://issuer", OIDCClientID: "cf"}, false},
		{"oidc missing issuer", Config{Mode: ModeOIDC, RolesClaim: "roles", EmailClaim: "email", OIDCClientID: "cf"}, true},
		{"dev ok", Config{Mode: ModeDev, RolesClaim: "roles", EmailClaim: "email", DevSubject: "u"}, false},
		{"dev missing subject", Config{Mode: ModeDev, RolesClaim: "roles", EmailClaim: "email"}, true},
		{"disabled", Config{Mode: ModeDisabled, RolesClaim: "roles", EmailClaim: "email"}, false},
		{"unknown mode", Config{Mode: "cookie", RolesClaim: "roles", EmailClaim: "email"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := bearerToken(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
	r.Header.Set("Authorization", "Bearer abc.def")
	if got := bearerToken(r); got != "abc.def" {
		t.Fatalf("token=%q", got)
	}
	r.Header.Set("Authorization", "Basic abc")
	if got := bearerToken(r); got != "" {
		t.Fatalf("expected empty for basic auth, got %q", got)
	}
}

func TestDecodeRoles(t *testing.T) {
	if got := decodeRoles(json.RawMessage(`["Admin","collabglam"]`)); len(got) != 2 || got[0] != "admin" {
		t.Fatalf("array form: %v", got)
	}
	if got := decodeRoles(json.RawMessage(`"brand, influencer"`)); len(got) != 2 || got[1] != "influencer" {
		t.Fatalf("string form: %v", got)
	}
	if got := decodeRoles(json.RawMessage(`42`)); got != nil {
		t.Fatalf("unexpected roles: %v", got)
	}
}

func TestMiddlewareInjectsIdentity(t *testing.T) {
	cfg := Config{Mode: ModeDev, RolesClaim: "roles", EmailClaim: "email", DevSubject: "dev-1", DevRoles: []string{"admin"}}
	mw := Middleware{Authenticator: NewDevAuthenticator(cfg)}

	var got Identity
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got.Subject != "dev-1" || !got.HasRole("admin") {
		t.Fatalf("identity=%+v", got)
	}
}
