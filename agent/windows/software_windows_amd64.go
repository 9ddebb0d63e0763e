package windows

import (
	wapi "github.com/jetrmm/go-win64api"
	so "github.com/jetrmm/go-win64api/shared"
)

func installedSoftwareList() ([]so.Software, error) {
	return wapi.InstalledSoftwareList()
}
