package views

// ToggleTheme asks the app to switch between the light and dark themes
type ToggleTheme struct{}

// BackToCategories signals to go back to the category list
type BackToCategories struct{}

// Preferences persists small UI settings between runs
type Preferences interface {
	GetSettingOr(key, def string) string
	SetSetting(key, value string) error
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
