package windows

const (
	// Installed programs, as listed under Programs and Features
	REG_UNINSTALL_PATH = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`
	// 32-bit programs on 64-bit Windows
	REG_UNINSTALL_PATH_WOW64 = `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`
	REG_DISPLAY_NAME         = "DisplayName"

	SHELL_CMD = "cmd.exe"
)
