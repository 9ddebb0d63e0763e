package agent

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTags(t *testing.T) {
	data, err := RenderTags(map[string]string{
		"Environment": "Production",
		"Application": "Billing",
	})
	require.NoError(t, err)

	assert.Equal(t, `# Managed by teagent, local changes will be overwritten
Application:Billing
Environment:Production
`, string(data))
}

func TestWriteTagsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := TagsPath("/opt/tripwire")

	require.NoError(t, writeTagsFile(fs, path, map[string]string{"Owner": "ops"}))

	assert.Equal(t, "/opt/tripwire/data/config/agent.tags.conf", path)
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Owner:ops\n")
}
