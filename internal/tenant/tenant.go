// Package tenant builds the immutable per-tenant registry from a directory
// of tenant config folders. Each folder name becomes the tenant's webhook
// path segment; the folder must contain oauth.json (credentials) and
// response.json (canned replies).
package tenant

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/friendsofgo/errors"
	"github.com/warunyoud/botv2Test/internal/eko"
)

const (
	oauthFileName    = "oauth.json"
	responseFileName = "response.json"
)

// Tenant is one configured bot identity.
type Tenant struct {
	// Path is the URL path segment the tenant's webhook is mounted at.
	Path         string
	Credentials  eko.Credentials
	ResponseFile string
}

// Registry maps a path segment to its tenant. Built once at startup and
// read-only afterwards.
type Registry map[string]*Tenant

// LoadRegistry scans root for tenant directories. A missing or malformed
// oauth.json is fatal; the response file is only checked for existence later,
// per event, so it can be created or fixed without a restart.
func LoadRegistry(root string) (Registry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tenant root %q", root)
	}

	registry := make(Registry)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		creds, err := loadCredentials(filepath.Join(dir, oauthFileName))
		if err != nil {
			return nil, errors.Wrapf(err, "tenant %q", entry.Name())
		}
		registry[entry.Name()] = &Tenant{
			Path:         entry.Name(),
			Credentials:  creds,
			ResponseFile: filepath.Join(dir, responseFileName),
		}
	}
	if len(registry) == 0 {
		return nil, errors.Errorf("no tenant directories found under %q", root)
	}
	return registry, nil
}

func loadCredentials(path string) (eko.Credentials, error) {
	var creds eko.Credentials
	raw, err := os.ReadFile(path)
	if err != nil {
		return creds, errors.Wrap(err, "failed to read oauth file")
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return creds, errors.Wrap(err, "failed to parse oauth file")
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.BaseURL == "" {
		return creds, errors.New("oauth file must set clientId, clientSecret and baseURL")
	}
	return creds, nil
}
