package agent

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	PROXY_BOOTSTRAP_LINE = "space.bootstrapables=station,socksProxy"
	PROXY_PORT_KEY       = "tw.proxy.serverPort"
)

var (
	bootstrapablesRegex = regexp.MustCompile(`bootstrapables=station`)
	serverPortRegex     = regexp.MustCompile(`tw\.server.port`)
	proxyPortRegex      = regexp.MustCompile(`^\s*tw\.proxy\.serverPort\s*[=:]`)
)

// PropertiesPath is the agent's main configuration file
func PropertiesPath(installDir string) string {
	return filepath.Join(installDir, "data", "config", "agent.properties")
}

// EditProperties turns an agent.properties file into a socks proxy configuration.
//
// Every line matching bootstrapables=station is replaced by the proxy bootstrap
// line, and tw.proxy.serverPort=<port> follows every line matching
// tw.server.port. Existing tw.proxy.serverPort lines are dropped so a changed
// port replaces the old one; without a tw.server.port line they are rewritten
// in place. Running it twice yields the same content. The second return value
// reports a change.
func EditProperties(content string, proxyPort int) (string, bool) {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	trailing := strings.HasSuffix(content, eol)
	body := strings.TrimSuffix(content, eol)

	var lines []string
	if body != "" || trailing {
		lines = strings.Split(body, eol)
	}

	portLine := PROXY_PORT_KEY + "=" + strconv.Itoa(proxyPort)
	hasServerPort := false
	for _, line := range lines {
		if serverPortRegex.MatchString(line) {
			hasServerPort = true
			break
		}
	}

	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		switch {
		case proxyPortRegex.MatchString(line):
			if !hasServerPort {
				out = append(out, portLine)
			}
			continue
		case bootstrapablesRegex.MatchString(line):
			line = PROXY_BOOTSTRAP_LINE
		}
		out = append(out, line)
		if serverPortRegex.MatchString(line) {
			out = append(out, portLine)
		}
	}

	result := strings.Join(out, eol)
	if trailing {
		result += eol
	}
	return result, result != content
}

// editPropertiesFile applies EditProperties to the file at path in place
func editPropertiesFile(fs afero.Fs, path string, proxyPort int) (bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return false, fmt.Errorf("could not read agent properties: %w", err)
	}

	updated, changed := EditProperties(string(data), proxyPort)
	if !changed {
		return false, nil
	}

	info, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	if err := afero.WriteFile(fs, path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("could not write agent properties: %w", err)
	}
	return true, nil
}
