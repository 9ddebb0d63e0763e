package windows

import (
	wapf "github.com/jetrmm/go-win64api"
	so "github.com/jetrmm/go-win64api/shared"
)

func installedSoftwareList() ([]so.Software, error) {
	sw32, err := wapf.GetSoftwareList(REG_UNINSTALL_PATH, "X32")
	if err != nil {
		return nil, err
	}

	return sw32, nil
}
