package render

import "timelane/pkg/timeline"

// Theme name constants. [DefaultTheme] is used when no theme is requested.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultTheme = ThemeLight
)

// KindStyle is the fill and stroke pair used to draw bars of one event kind.
type KindStyle struct {
	Fill   string
	Stroke string
}

// Theme bundles every color the SVG renderer needs. Kind styles are keyed by
// event kind; kinds missing from the map fall back to [Theme.FallbackKind].
type Theme struct {
	Name         string
	Background   string
	Title        string
	Text         string
	MutedText    string
	GridLine     string
	GridMajor    string
	LaneLine     string
	Kinds        map[timeline.Kind]KindStyle
	FallbackKind KindStyle
}

// themes holds the built-in palettes. Kind hues stay recognizable across
// themes; only background and line colors flip.
var themes = map[string]Theme{
	ThemeLight: {
		Name:       ThemeLight,
		Background: "#ffffff",
		Title:      "#1f2430",
		Text:       "#1f2430",
		MutedText:  "#6b7280",
		GridLine:   "#e5e7eb",
		GridMajor:  "#c9ced6",
		LaneLine:   "#f1f3f5",
		Kinds: map[timeline.Kind]KindStyle{
			timeline.KindMeeting:  {Fill: "#93c5fd", Stroke: "#2563eb"},
			timeline.KindAction:   {Fill: "#86efac", Stroke: "#16a34a"},
			timeline.KindTest:     {Fill: "#fcd34d", Stroke: "#d97706"},
			timeline.KindReminder: {Fill: "#d8b4fe", Stroke: "#9333ea"},
			timeline.KindTicket:   {Fill: "#fca5a5", Stroke: "#dc2626"},
		},
		FallbackKind: KindStyle{Fill: "#d1d5db", Stroke: "#6b7280"},
	},
	ThemeDark: {
		Name:       ThemeDark,
		Background: "#14161c",
		Title:      "#e8eaf0",
		Text:       "#e8eaf0",
		MutedText:  "#8b93a3",
		GridLine:   "#242936",
		GridMajor:  "#3a4156",
		LaneLine:   "#1b1f29",
		Kinds: map[timeline.Kind]KindStyle{
			timeline.KindMeeting:  {Fill: "#1d4ed8", Stroke: "#93c5fd"},
			timeline.KindAction:   {Fill: "#15803d", Stroke: "#86efac"},
			timeline.KindTest:     {Fill: "#b45309", Stroke: "#fcd34d"},
			timeline.KindReminder: {Fill: "#7e22ce", Stroke: "#d8b4fe"},
			timeline.KindTicket:   {Fill: "#b91c1c", Stroke: "#fca5a5"},
		},
		FallbackKind: KindStyle{Fill: "#374151", Stroke: "#8b93a3"},
	},
}

// ThemeByName returns the named theme, falling back to the default palette
// for unknown names. Rendering never fails on a bad theme string; validation
// happens at the options boundary.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// ThemeNames returns the available theme names in display order.
func ThemeNames() []string {
	return []string{ThemeLight, ThemeDark}
}

// kindStyle resolves the palette entry for a kind.
func (t Theme) kindStyle(k timeline.Kind) KindStyle {
	if s, ok := t.Kinds[k]; ok {
		return s
	}
	return t.FallbackKind
}
