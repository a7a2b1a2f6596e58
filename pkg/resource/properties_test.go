package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
app:
  name: ${RESOURCE_TEST_NAME:Fallback Name}
  plain: untouched
  empty-default: ${RESOURCE_TEST_UNSET:}
  server:
    port: ${RESOURCE_TEST_PORT:8000}
  origins: ${RESOURCE_TEST_ORIGINS:http://a:1,http://b:2}
  timeout: 10s
  enabled: true
`

func TestLoad_ResolvesPlaceholders(t *testing.T) {
	t.Setenv("RESOURCE_TEST_PORT", "9090")

	props, err := Load("", []byte(document))
	require.NoError(t, err)

	assert.Equal(t, "Fallback Name", props.GetString("app.name"))
	assert.Equal(t, "untouched", props.GetString("app.plain"))
	assert.Equal(t, "", props.GetString("app.empty-default"))
	assert.Equal(t, 9090, props.GetInt("app.server.port"))
	assert.Equal(t, "http://a:1,http://b:2", props.GetString("app.origins"))
	assert.Equal(t, "10s", props.GetString("app.timeout"))
	assert.True(t, props.GetBool("app.enabled"))
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("RESOURCE_TEST_NAME", "From Env")

	props, err := Load("", []byte(document))
	require.NoError(t, err)

	assert.Equal(t, "From Env", props.GetString("app.name"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: from-file\n"), 0o600))

	props, err := Load(path, []byte(document))
	require.NoError(t, err)

	assert.Equal(t, "from-file", props.GetString("app.name"))
	assert.Empty(t, props.GetString("app.server.port"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"), nil)
	assert.Error(t, err)
}
