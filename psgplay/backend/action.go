package backend

// Action represents input actions that can be performed during playback
type Action int

const (
	ActionQuit Action = iota
	ActionPauseToggle

	// Audio debug controls
	ActionToggleChannel1
	ActionToggleChannel2
	ActionToggleChannel3
	ActionToggleChannel4
	ActionSoloChannel1
	ActionSoloChannel2
	ActionSoloChannel3
	ActionSoloChannel4
	ActionUnmuteAll

	// Monitor controls, handled by the backend itself
	ActionLogLevelIncrease
	ActionLogLevelDecrease
)

// Category groups actions by who handles them.
type Category int

const (
	CategoryPlayback Category = iota
	CategoryAudio
	CategoryMonitor
)

// Info describes an action.
type Info struct {
	Description string
	Category    Category
}

var actionInfo = map[Action]Info{
	ActionQuit:             {"Quit", CategoryPlayback},
	ActionPauseToggle:      {"Pause/resume", CategoryPlayback},
	ActionToggleChannel1:   {"Toggle tone 1", CategoryAudio},
	ActionToggleChannel2:   {"Toggle tone 2", CategoryAudio},
	ActionToggleChannel3:   {"Toggle tone 3", CategoryAudio},
	ActionToggleChannel4:   {"Toggle noise", CategoryAudio},
	ActionSoloChannel1:     {"Solo tone 1", CategoryAudio},
	ActionSoloChannel2:     {"Solo tone 2", CategoryAudio},
	ActionSoloChannel3:     {"Solo tone 3", CategoryAudio},
	ActionSoloChannel4:     {"Solo noise", CategoryAudio},
	ActionUnmuteAll:        {"Unmute all", CategoryAudio},
	ActionLogLevelIncrease: {"More log detail", CategoryMonitor},
	ActionLogLevelDecrease: {"Less log detail", CategoryMonitor},
}

// GetInfo returns the description of an action.
func GetInfo(act Action) Info {
	if info, ok := actionInfo[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryMonitor}
}

// DefaultKeyMap provides default key mappings that work across backends.
var DefaultKeyMap = map[string]Action{
	"q":      ActionQuit,
	"Escape": ActionQuit,
	"Space":  ActionPauseToggle,
	"p":      ActionPauseToggle,

	"1": ActionToggleChannel1,
	"2": ActionToggleChannel2,
	"3": ActionToggleChannel3,
	"4": ActionToggleChannel4,
	"!": ActionSoloChannel1,
	"@": ActionSoloChannel2,
	"#": ActionSoloChannel3,
	"$": ActionSoloChannel4,
	"u": ActionUnmuteAll,

	"+": ActionLogLevelIncrease,
	"=": ActionLogLevelIncrease, // Alternative without shift
	"-": ActionLogLevelDecrease,
	"_": ActionLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
