package app

import "shopfolio/internal/storage/kv"

// Theme selects the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// MotionOverride controls reduced-motion behavior: auto defers to the
// platform signal, on/off force it.
type MotionOverride string

const (
	MotionAuto MotionOverride = "auto"
	MotionOn   MotionOverride = "on"
	MotionOff  MotionOverride = "off"
)

// Preferences are persisted locally and independent of identity.
type Preferences struct {
	Theme         Theme          `json:"theme"`
	Locale        string         `json:"locale"`
	ReducedMotion MotionOverride `json:"reducedMotion"`
}

func loadPreferences(store kv.Store) Preferences {
	return Preferences{
		Theme:         kv.Get(store, keyTheme, ThemeLight),
		Locale:        kv.Get(store, keyLocale, "en"),
		ReducedMotion: kv.Get(store, keyMotion, MotionAuto),
	}
}

// Preferences returns the current preference set.
func (c *Controller) Preferences() Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// SetTheme persists the theme choice.
func (c *Controller) SetTheme(t Theme) {
	if t != ThemeLight && t != ThemeDark {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.Theme = t
	kv.Set(c.store, keyTheme, t)
}

// SetLocale persists the locale choice.
func (c *Controller) SetLocale(locale string) {
	if locale == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.Locale = locale
	kv.Set(c.store, keyLocale, locale)
}

// SetReducedMotion persists the reduced-motion override.
func (c *Controller) SetReducedMotion(m MotionOverride) {
	if m != MotionAuto && m != MotionOn && m != MotionOff {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs.ReducedMotion = m
	kv.Set(c.store, keyMotion, m)
}

// EffectiveReducedMotion resolves the override against the platform's live
// reduced-motion signal, which the controller does not own.
func (c *Controller) EffectiveReducedMotion(systemPrefersReduced bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.prefs.ReducedMotion {
	case MotionOn:
		return true
	case MotionOff:
		return false
	default:
		return systemPrefersReduced
	}
}
