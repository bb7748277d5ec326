package slideshow

// PairingKind tells how a step's preview is produced.
type PairingKind int

const (
	// PairingNone produces no preview.
	PairingNone PairingKind = iota
	// PairingPreset combines one shared preset with the current step's files.
	PairingPreset
	// PairingSteps selects a precomputed fragment by step index.
	PairingSteps
)

// String returns the name used in logs and status output.
func (k PairingKind) String() string {
	switch k {
	case PairingPreset:
		return "preset"
	case PairingSteps:
		return "steps"
	default:
		return "none"
	}
}

// PresetConfig is the shared preview configuration of a deck.
type PresetConfig struct {
	Entry string `yaml:"entry" json:"entry"` // page file, defaults to index.html
	Title string `yaml:"title" json:"title"`
	Head  string `yaml:"head" json:"head"` // extra markup injected into <head>
}

// EntryFile returns the configured entry file name.
func (p PresetConfig) EntryFile() string {
	if p.Entry == "" {
		return "index.html"
	}
	return p.Entry
}

// Fragment is a per-step preview body.
type Fragment struct {
	Body   string
	Format string // "markdown" (default) or "html"
}

// Preview is the resolved preview input for one step.
type Preview struct {
	Kind     PairingKind
	Index    int
	Preset   PresetConfig
	Files    []File
	Fragment Fragment
}

// Pairing is resolved once per slideshow and maps an index to its preview.
type Pairing struct {
	kind      PairingKind
	preset    PresetConfig
	fragments []Fragment
}

// NoPairing returns a pairing that never yields a preview.
func NoPairing() Pairing {
	return Pairing{kind: PairingNone}
}

// PresetPairing returns a pairing that applies cfg to every step.
func PresetPairing(cfg PresetConfig) Pairing {
	return Pairing{kind: PairingPreset, preset: cfg}
}

// StepPairing returns a pairing over index-aligned fragments.
func StepPairing(fragments []Fragment) Pairing {
	return Pairing{kind: PairingSteps, fragments: fragments}
}

// ResolvePairing picks the pairing variant from construction options.
// A preset wins over per-step fragments.
func ResolvePairing(preset *PresetConfig, hasPreviewSteps bool, fragments []Fragment) Pairing {
	switch {
	case preset != nil:
		return PresetPairing(*preset)
	case hasPreviewSteps:
		return StepPairing(fragments)
	default:
		return NoPairing()
	}
}

// Kind returns the pairing variant.
func (p Pairing) Kind() PairingKind {
	return p.kind
}

// Resolve returns the preview for index given the step currently shown.
// A fragment sequence shorter than the step list yields no preview for the
// missing indexes.
func (p Pairing) Resolve(index int, step Step) (Preview, bool) {
	switch p.kind {
	case PairingPreset:
		return Preview{Kind: PairingPreset, Index: index, Preset: p.preset, Files: step.Files}, true
	case PairingSteps:
		if index < 0 || index >= len(p.fragments) {
			return Preview{}, false
		}
		return Preview{Kind: PairingSteps, Index: index, Fragment: p.fragments[index]}, true
	default:
		return Preview{}, false
	}
}
