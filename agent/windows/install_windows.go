//go:build windows

package windows

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"
)

// softwareProber finds the TE agent among installed programs
type softwareProber struct {
	Logger *logrus.Logger
}

func (p *softwareProber) IsInstalled(ctx context.Context, name string) (bool, error) {
	sw, err := installedSoftwareList()
	if err != nil {
		p.Logger.Debugln("Installed software list unavailable, reading the registry:", err)
		return isProductInstalled(name), nil
	}

	for _, s := range sw {
		if strings.EqualFold(s.Name(), name) {
			p.Logger.Debugf("Found %s %s", s.Name(), s.Version())
			return true, nil
		}
	}
	return false, nil
}

// isProductInstalled scans the Uninstall keys for a matching DisplayName
func isProductInstalled(name string) bool {
	for _, root := range []string{REG_UNINSTALL_PATH, REG_UNINSTALL_PATH_WOW64} {
		if findProduct(root, name) {
			return true
		}
	}
	return false
}

func findProduct(rootPath, name string) bool {
	reg, err := registry.OpenKey(registry.LOCAL_MACHINE, rootPath, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return false
	}
	defer reg.Close()

	keys, err := reg.ReadSubKeyNames(0)
	if err != nil {
		return false
	}
	for _, key := range keys {
		if productMatches(rootPath+`\`+key, name) {
			return true
		}
	}
	return false
}

func productMatches(path, name string) bool {
	subkey, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer subkey.Close()

	displayName, _, err := subkey.GetStringValue(REG_DISPLAY_NAME)
	return err == nil && strings.EqualFold(displayName, name)
}
