//go:build !windows
// +build !windows

package service

// Stub implementations for non-Windows platforms

// RunService runs the app directly outside of service control
func RunService(isDebug bool, app *Application) {
	app.Run()
}

func InstallService(exePath string) error {
	return nil
}

func UninstallService() error {
	return nil
}

func StartService() error {
	return nil
}

func StopService() error {
	return nil
}

// IsWindowsService always returns false on non-Windows platforms
func IsWindowsService() (bool, error) {
	return false, nil
}
