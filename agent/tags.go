package agent

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/jetrmm/teagent/agent/config"
	"github.com/spf13/afero"
)

var tagsTemplate = template.Must(template.New("agent.tags.conf").Parse(
	`# Managed by teagent, local changes will be overwritten
{{- range .TagSets }}
{{ . }}:{{ index $.Tags . }}
{{- end }}
`))

// TagsPath is the file the agent reads its tags from
func TagsPath(installDir string) string {
	return filepath.Join(installDir, "data", "config", "agent.tags.conf")
}

// RenderTags produces agent.tags.conf, one tagset:tag line per entry sorted by tag set
func RenderTags(tags map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	err := tagsTemplate.Execute(&buf, struct {
		TagSets []string
		Tags    map[string]string
	}{
		TagSets: config.TagSets(tags),
		Tags:    tags,
	})
	if err != nil {
		return nil, fmt.Errorf("could not render tags: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTagsFile(fs afero.Fs, path string, tags map[string]string) error {
	data, err := RenderTags(tags)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0644)
}
