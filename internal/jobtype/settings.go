package jobtype

// SpeedPreset scales every spring half-life used by the zoom planner and the
// viewport integrator.
type SpeedPreset string

const (
	Slow   SpeedPreset = "slow"
	Mellow SpeedPreset = "mellow"
	Quick  SpeedPreset = "quick"
	Rapid  SpeedPreset = "rapid"
)

// Multiplier returns the half-life scale factor for the preset. Mellow is
// the identity preset; unknown values collapse to Mellow.
func (p SpeedPreset) Multiplier() float64 {
	switch p {
	case Slow:
		return 1.5
	case Mellow:
		return 1.0
	case Quick:
		return 0.7
	case Rapid:
		return 0.5
	default:
		return 1.0
	}
}

// RecordingMode describes what area of the screen was captured.
type RecordingMode string

const (
	Display RecordingMode = "display"
	Window  RecordingMode = "window"
	Area    RecordingMode = "area"
)

// BackgroundKind selects the compositor's canvas behind the framed content.
type BackgroundKind string

const (
	BackgroundGradient    BackgroundKind = "gradient"
	BackgroundSolid       BackgroundKind = "solid"
	BackgroundTransparent BackgroundKind = "transparent"
)

// RGBA is a plain 0-255 color; kept independent of image/color so settings
// stay serializable without pulling in image packages.
type RGBA struct {
	R, G, B, A uint8
}

// Background configures the compositor's cached canvas.
type Background struct {
	Kind      BackgroundKind
	Solid     RGBA
	GradientA RGBA
	GradientB RGBA
	AngleDeg  float64
}

// Settings is the full set of user-controllable knobs enumerated in spec §6.
// It is the one struct threaded through preprocessing, scene splitting,
// planning, the viewport integrator, and the compositor — the same role
// config.Config plays in the teacher repo.
type Settings struct {
	AutoZoomEnabled  bool
	MaxZoom          float64
	AnimationSpeed   SpeedPreset
	ZoomOutIdleMs    float64
	OverviewIdleMs   float64
	ClickRingEnabled bool
	KeyBadgeEnabled  bool
	CursorSmoothing  bool

	// FrameDiffEnabled gates the idle zoom-out on visual screen activity,
	// not just the absence of input events, so a passive recording with
	// on-screen motion (playback, a progress bar) doesn't spuriously zoom
	// out to the overview.
	FrameDiffEnabled bool
	BorderRadius     float64
	ShadowEnabled    bool
	Background       Background
	RecordingMode    RecordingMode

	RingDurationMs  float64
	BadgeDurationMs float64

	// KeyframesOverridePath, if set, bypasses the scene splitter and zoom
	// planner: the keyframe list is loaded from this YAML file instead.
	KeyframesOverridePath string
}

// DefaultSettings mirrors the defaults named in spec §6.
func DefaultSettings() Settings {
	return Settings{
		AutoZoomEnabled:  true,
		MaxZoom:          3.0,
		AnimationSpeed:   Mellow,
		ZoomOutIdleMs:    5000,
		OverviewIdleMs:   8000,
		ClickRingEnabled: true,
		KeyBadgeEnabled:  true,
		CursorSmoothing:  true,
		FrameDiffEnabled: true,
		BorderRadius:     12,
		ShadowEnabled:    true,
		Background: Background{
			Kind:  BackgroundSolid,
			Solid: RGBA{R: 20, G: 20, B: 24, A: 255},
		},
		RecordingMode:   Display,
		RingDurationMs:  400,
		BadgeDurationMs: 1500,
	}
}

// Stage identifies the orchestrator's current activity for progress reporting.
type Stage string

const (
	StageComposing Stage = "composing"
	StageEncoding  Stage = "encoding"
	StageComplete  Stage = "complete"
)

// Progress is published to an optional channel, per spec §6.
type Progress struct {
	Stage      Stage
	Fraction   float64 // in [0,1]
	OutputPath string
}
