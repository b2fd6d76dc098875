package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OIDCProvider is the slice of an OpenID Connect discovery document this
// service reads: issuer verification and the key-set location.
type OIDCProvider struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

const discoveryPath = "/.well-known/openid-configuration"

// NewOIDCProvider resolves the JWKS endpoint for an issuer via its discovery
// document. Any compliant provider works; the deployment typically points at
// Supabase or Keycloak.
func NewOIDCProvider(issuerURL string) (*OIDCProvider, error) {
	discoveryURL := strings.TrimRight(issuerURL, "/") + discoveryPath

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(discoveryURL)
	if err != nil {
		return nil, fmt.Errorf("fetch OIDC discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OIDC discovery endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read OIDC discovery document: %w", err)
	}

	var provider OIDCProvider
	if err := json.Unmarshal(body, &provider); err != nil {
		return nil, fmt.Errorf("decode OIDC discovery document: %w", err)
	}
	if provider.JWKSURI == "" {
		return nil, fmt.Errorf("OIDC discovery document carries no jwks_uri")
	}
	if provider.Issuer != "" && strings.TrimRight(provider.Issuer, "/") != strings.TrimRight(issuerURL, "/") {
		return nil, fmt.Errorf("discovery issuer %q does not match configured issuer %q", provider.Issuer, issuerURL)
	}
	return &provider, nil
}
