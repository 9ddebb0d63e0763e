package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, 9898, r.ConsolePort)
	assert.Equal(t, 1169, r.RTMPort)
	assert.Equal(t, 1080, r.ProxyPort)
	assert.Equal(t, 8080, r.IntegrationPort)
	assert.True(t, r.InstallRTM)
	assert.True(t, r.StartService)
	assert.True(t, r.RemoveAll)
	assert.False(t, r.ProxyAgent)
	assert.False(t, r.FIPS)
	assert.Empty(t, r.InstallDirectory)
	assert.Empty(t, r.Tags)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"installer": "https://repo.example.com/te_agent.bin",
		"console": "console.example.com",
		"services_password": "s3cret",
		"install_rtm": false,
		"proxy_hostname": "proxy.local",
		"tags": {"Environment": "Production"}
	}`), 0600))

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://repo.example.com/te_agent.bin", r.Installer)
	assert.Equal(t, "console.example.com", r.Console)
	assert.False(t, r.InstallRTM)
	assert.Equal(t, "proxy.local", r.ProxyHostname)
	assert.Equal(t, map[string]string{"Environment": "Production"}, r.Tags)
	// Untouched keys keep their defaults
	assert.Equal(t, 9898, r.ConsolePort)
	assert.True(t, r.RemoveAll)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"consol": "typo"}`), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadNoFile(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), r)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TE_CONSOLE":           "te.corp",
		"TE_SERVICES_PASSWORD": "from-env",
		"TE_RTM_PORT":          "2000",
		"TE_FIPS":              "true",
		"TE_REMOVEALL":         "0",
		"TE_TAGS":              "Environment:Staging, Owner=ops",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	r := Default()
	require.NoError(t, ApplyEnv(r, lookup))

	assert.Equal(t, "te.corp", r.Console)
	assert.Equal(t, "from-env", r.ServicesPassword)
	assert.Equal(t, 2000, r.RTMPort)
	assert.True(t, r.FIPS)
	assert.False(t, r.RemoveAll)
	assert.Equal(t, map[string]string{"Environment": "Staging", "Owner": "ops"}, r.Tags)
	assert.Equal(t, 9898, r.ConsolePort)
}

func TestApplyEnvInvalid(t *testing.T) {
	for k, v := range map[string]string{
		"TE_CONSOLE_PORT": "ninety",
		"TE_PROXY_AGENT":  "sure",
		"TE_TAGS":         "novalue",
	} {
		lookup := func(key string) (string, bool) {
			if key == k {
				return v, true
			}
			return "", false
		}
		assert.Error(t, ApplyEnv(Default(), lookup), k)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "te.env")
	require.NoError(t, os.WriteFile(path, []byte("TE_TEST_CONSOLE_FROM_FILE=te.local\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("TE_TEST_CONSOLE_FROM_FILE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "te.local", os.Getenv("TE_TEST_CONSOLE_FROM_FILE"))

	assert.NoError(t, LoadEnvFile(""))
}

func TestParseTags(t *testing.T) {
	tags, err := ParseTags([]string{"Environment:Production", " Owner = ops ", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Environment": "Production", "Owner": "ops"}, tags)

	for _, bad := range []string{":x", "x:", "plain"} {
		_, err := ParseTags([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestTagSetsSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, TagSets(map[string]string{"c": "3", "a": "1", "b": "2"}))
}

func TestValidateInstall(t *testing.T) {
	valid := func() *Request {
		r := Default()
		r.Installer = "/tmp/te_agent.bin"
		r.Console = "console"
		r.ServicesPassword = "pw"
		return r
	}
	require.NoError(t, valid().ValidateInstall())

	tests := map[string]func(r *Request){
		"installer":         func(r *Request) { r.Installer = "" },
		"console":           func(r *Request) { r.Console = "" },
		"services_password": func(r *Request) { r.ServicesPassword = "" },
	}
	for name, modify := range tests {
		r := valid()
		modify(r)
		err := r.ValidateInstall()
		assert.ErrorIs(t, err, ErrMissingField, name)
		assert.ErrorContains(t, err, name)
	}

	r := valid()
	r.RTMPort = 70000
	assert.ErrorContains(t, r.ValidateInstall(), "invalid rtm_port")
}
