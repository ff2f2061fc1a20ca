package tenant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTenantDir(t *testing.T, root, name, oauth string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	if oauth != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "oauth.json"), []byte(oauth), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "response.json"), []byte(`{}`), 0o600))
}

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	t.Run("builds one tenant per directory", func(t *testing.T) {
		root := t.TempDir()
		writeTenantDir(t, root, "acme", `{"clientId":"id-1","clientSecret":"secret-1","baseURL":"https://acme.example.com"}`)
		writeTenantDir(t, root, "globex", `{"clientId":"id-2","clientSecret":"secret-2","baseURL":"https://globex.example.com"}`)
		// stray files under the root are ignored
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("notes"), 0o600))

		registry, err := LoadRegistry(root)
		require.NoError(t, err)
		require.Len(t, registry, 2)

		acme := registry["acme"]
		require.NotNil(t, acme)
		assert.Equal(t, "acme", acme.Path)
		assert.Equal(t, "id-1", acme.Credentials.ClientID)
		assert.Equal(t, "https://acme.example.com", acme.Credentials.BaseURL)
		assert.Equal(t, filepath.Join(root, "acme", "response.json"), acme.ResponseFile)
	})

	t.Run("missing oauth file is fatal", func(t *testing.T) {
		root := t.TempDir()
		writeTenantDir(t, root, "acme", "")

		_, err := LoadRegistry(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "acme")
	})

	t.Run("malformed oauth file is fatal", func(t *testing.T) {
		root := t.TempDir()
		writeTenantDir(t, root, "acme", `{"clientId":`)

		_, err := LoadRegistry(root)
		require.Error(t, err)
	})

	t.Run("incomplete credentials are fatal", func(t *testing.T) {
		root := t.TempDir()
		writeTenantDir(t, root, "acme", `{"clientId":"id-1"}`)

		_, err := LoadRegistry(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clientId, clientSecret and baseURL")
	})

	t.Run("empty root is fatal", func(t *testing.T) {
		_, err := LoadRegistry(t.TempDir())
		require.Error(t, err)
	})

	t.Run("missing root is fatal", func(t *testing.T) {
		_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}
