package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCAuthenticator verifies bearer tokens against the configured issuer.
type OIDCAuthenticator struct {
	verifier   *oidc.IDTokenVerifier
	rolesClaim string
	emailClaim string
}

func NewOIDCAuthenticator(ctx context.Context, cfg Config) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, strings.TrimSpace(cfg.OIDCIssuerURL))
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: strings.TrimSpace(cfg.OIDCClientID)})
	return &OIDCAuthenticator{
		verifier:   verifier,
		rolesClaim: cfg.RolesClaim,
		emailClaim: cfg.EmailClaim,
	}, nil
}

func (a *OIDCAuthenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	raw := bearerToken(r)
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}

	token, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}

	var claims map[string]json.RawMessage
	if err := token.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("decode claims: %w", err)
	}

	identity := Identity{Subject: token.Subject}
	if raw, ok := claims[a.emailClaim]; ok {
		_ = json.Unmarshal(raw, &identity.Email)
	}
	if raw, ok := claims[a.rolesClaim]; ok {
		identity.Roles = decodeRoles(raw)
	}
	return identity, nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// decodeRoles accepts either a JSON array of strings or a single
// space/comma-delimited string, as issuers disagree on the claim shape.
func decodeRoles(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return normalizeRoles(list)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return normalizeRoles(strings.FieldsFunc(single, func(r rune) bool {
			return r == ',' || r == ' '
		}))
	}
	return nil
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" {
			out = append(out, role)
		}
	}
	return out
}
