package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ugorji/go/codec"
)

const ENV_PREFIX = "TE_"

// Load reads a JSON request file on top of the defaults
func Load(path string) (*Request, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read request file: %w", err)
	}
	if err := Decode(data, r); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return r, nil
}

// Decode merges JSON data into r. Keys absent from data keep their value.
func Decode(data []byte, r *Request) error {
	var jh codec.JsonHandle
	jh.ErrorIfNoField = true
	return codec.NewDecoderBytes(data, &jh).Decode(r)
}

// LoadEnvFile loads KEY=value pairs into the process environment.
// Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overrides r with TE_* variables from lookup (usually os.LookupEnv).
//
// TE_TAGS takes a comma separated list of tagset:tag pairs.
func ApplyEnv(r *Request, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(ENV_PREFIX + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(ENV_PREFIX + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", ENV_PREFIX, key, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(ENV_PREFIX + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", ENV_PREFIX, key, err)
		}
		*dst = b
		return nil
	}

	str("INSTALLER", &r.Installer)
	str("CONSOLE", &r.Console)
	str("SERVICES_PASSWORD", &r.ServicesPassword)
	str("INSTALL_DIRECTORY", &r.InstallDirectory)
	str("PROXY_HOSTNAME", &r.ProxyHostname)

	for key, dst := range map[string]*int{
		"CONSOLE_PORT":     &r.ConsolePort,
		"RTM_PORT":         &r.RTMPort,
		"PROXY_PORT":       &r.ProxyPort,
		"INTEGRATION_PORT": &r.IntegrationPort,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"INSTALL_RTM":   &r.InstallRTM,
		"PROXY_AGENT":   &r.ProxyAgent,
		"FIPS":          &r.FIPS,
		"START_SERVICE": &r.StartService,
		"REMOVEALL":     &r.RemoveAll,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(ENV_PREFIX + "TAGS"); ok {
		tags, err := ParseTags(strings.Split(v, ","))
		if err != nil {
			return fmt.Errorf("%sTAGS: %w", ENV_PREFIX, err)
		}
		r.Tags = tags
	}
	return nil
}

// ParseTags turns "tagset:tag" (or "tagset=tag") items into a tag map.
// Blank items are ignored.
func ParseTags(items []string) (map[string]string, error) {
	tags := make(map[string]string, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		i := strings.IndexAny(item, ":=")
		if i <= 0 || i == len(item)-1 {
			return nil, fmt.Errorf("invalid tag %q, want tagset:tag", item)
		}
		tags[strings.TrimSpace(item[:i])] = strings.TrimSpace(item[i+1:])
	}
	return tags, nil
}

// TagSets returns the tag set names in sorted order
func TagSets(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
