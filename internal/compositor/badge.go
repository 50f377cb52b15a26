package compositor

import (
	"strings"

	"github.com/zoomreel/zoomreel/internal/events"
)

var specialKeys = map[string]bool{
	"enter": true, "tab": true, "escape": true, "backspace": true, "delete": true,
	"space": true, "arrowup": true, "arrowdown": true, "arrowleft": true, "arrowright": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

var modifierLabels = map[events.Modifier]string{
	events.Ctrl:  "Ctrl",
	events.Shift: "Shift",
	events.Alt:   "Alt",
	events.Meta:  "Meta",
}

var modifierOrder = []events.Modifier{events.Ctrl, events.Alt, events.Shift, events.Meta}

// IsBadgeWorthy reports whether a KeyPress event should surface a key
// badge: it carries a modifier, or the bare key is one of the named
// special keys (spec §4.7 step 4).
func IsBadgeWorthy(ev events.Event) bool {
	if ev.Kind != events.KindKeyPress {
		return false
	}
	if len(ev.Modifiers) > 0 {
		return true
	}
	return specialKeys[strings.ToLower(ev.Key)]
}

// FormatBadgeLabel renders a KeyPress event as a short label like "Ctrl+C".
func FormatBadgeLabel(ev events.Event) string {
	var parts []string
	for _, m := range modifierOrder {
		if ev.Modifiers[m] {
			parts = append(parts, modifierLabels[m])
		}
	}
	key := ev.Key
	if key != "" {
		parts = append(parts, capitalizeKey(key))
	}
	return strings.Join(parts, "+")
}

func capitalizeKey(key string) string {
	if len(key) == 1 {
		return strings.ToUpper(key)
	}
	lower := strings.ToLower(key)
	switch lower {
	case "arrowup":
		return "↑"
	case "arrowdown":
		return "↓"
	case "arrowleft":
		return "←"
	case "arrowright":
		return "→"
	}
	return strings.ToUpper(key[:1]) + lower[1:]
}
