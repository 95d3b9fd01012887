// Package urgency computes the weighted issue score of §4.3: a pure
// function of an issue snapshot, its blocker/blocked state, its note count,
// the current time, and coefficients read from config. Coefficient
// defaults are shipped as an embedded TOML file and parsed the way
// internal/recipes and internal/formula parse their own TOML payloads
// (BurntSushi/toml.Decode into a tagged struct).
package urgency

import (
	_ "embed"
	"math"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nit-tools/nit/internal/nit/types"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Coefficients holds one weight per scoring term (§4.3 table).
type Coefficients struct {
	PriorityCritical float64
	PriorityHigh     float64
	PriorityMedium   float64
	PriorityLow      float64
	KindBug          float64
	KindFeature      float64
	KindTask         float64
	KindEpic         float64
	Blocking         float64
	Blocked          float64
	Age              float64
	InProgress       float64
	HasAcceptance    float64
	NotesCount       float64
}

type tomlCoefficients struct {
	Priority struct {
		Critical float64 `toml:"critical"`
		High     float64 `toml:"high"`
		Medium   float64 `toml:"medium"`
		Low      float64 `toml:"low"`
	} `toml:"priority"`
	Kind struct {
		Bug     float64 `toml:"bug"`
		Feature float64 `toml:"feature"`
		Task    float64 `toml:"task"`
		Epic    float64 `toml:"epic"`
	} `toml:"kind"`
	Blocking      float64 `toml:"blocking"`
	Blocked       float64 `toml:"blocked"`
	Age           float64 `toml:"age"`
	InProgress    float64 `toml:"in_progress"`
	HasAcceptance float64 `toml:"has_acceptance"`
	NotesCount    float64 `toml:"notes_count"`
}

// Defaults returns the coefficient table shipped with the binary.
func Defaults() Coefficients {
	var t tomlCoefficients
	if _, err := toml.Decode(string(defaultsTOML), &t); err != nil {
		// The embedded file is part of the binary and never user-edited;
		// a decode failure here is a build defect, not a runtime one.
		panic("urgency: malformed embedded defaults.toml: " + err.Error())
	}
	return Coefficients{
		PriorityCritical: t.Priority.Critical,
		PriorityHigh:     t.Priority.High,
		PriorityMedium:   t.Priority.Medium,
		PriorityLow:      t.Priority.Low,
		KindBug:          t.Kind.Bug,
		KindFeature:      t.Kind.Feature,
		KindTask:         t.Kind.Task,
		KindEpic:         t.Kind.Epic,
		Blocking:         t.Blocking,
		Blocked:          t.Blocked,
		Age:              t.Age,
		InProgress:       t.InProgress,
		HasAcceptance:    t.HasAcceptance,
		NotesCount:       t.NotesCount,
	}
}

// configKeys maps each dotted config key (§3 Config entry) to a setter on
// Coefficients, used by LoadCoefficients to apply overrides.
var configKeys = map[string]func(c *Coefficients, v float64){
	"urgency.priority.critical": func(c *Coefficients, v float64) { c.PriorityCritical = v },
	"urgency.priority.high":     func(c *Coefficients, v float64) { c.PriorityHigh = v },
	"urgency.priority.medium":   func(c *Coefficients, v float64) { c.PriorityMedium = v },
	"urgency.priority.low":      func(c *Coefficients, v float64) { c.PriorityLow = v },
	"urgency.kind.bug":          func(c *Coefficients, v float64) { c.KindBug = v },
	"urgency.kind.feature":      func(c *Coefficients, v float64) { c.KindFeature = v },
	"urgency.kind.task":         func(c *Coefficients, v float64) { c.KindTask = v },
	"urgency.kind.epic":         func(c *Coefficients, v float64) { c.KindEpic = v },
	"urgency.blocking":          func(c *Coefficients, v float64) { c.Blocking = v },
	"urgency.blocked":           func(c *Coefficients, v float64) { c.Blocked = v },
	"urgency.age":               func(c *Coefficients, v float64) { c.Age = v },
	"urgency.in_progress":       func(c *Coefficients, v float64) { c.InProgress = v },
	"urgency.has_acceptance":    func(c *Coefficients, v float64) { c.HasAcceptance = v },
	"urgency.notes_count":       func(c *Coefficients, v float64) { c.NotesCount = v },
}

// ConfigKeys lists every dotted config key urgency recognizes, exposed
// through engine.ConfigKeys for init's config.toml seed.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	return keys
}

// LoadCoefficients starts from Defaults and applies any recognized
// overrides present in stored config. Unknown keys are ignored; malformed
// (non-numeric) values fall back to the default for that key, per §4.3.
func LoadCoefficients(stored map[string]string) Coefficients {
	c := Defaults()
	for key, setter := range configKeys {
		raw, ok := stored[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		setter(&c, v)
	}
	return c
}

// Input is the snapshot urgency scores from. All fields must be computed
// by the caller against the same instant (now) for determinism.
type Input struct {
	Priority      types.Priority
	Kind          types.Kind
	Status        types.Status
	BlocksActive  bool
	IsBlocked     bool
	HasAcceptance bool
	NoteCount     int
	CreatedAt     time.Time
	Now           time.Time
}

// Term names, shared by Score and Breakdown.
const (
	TermPriority      = "priority"
	TermKind          = "kind"
	TermBlocking      = "blocking"
	TermBlocked       = "blocked"
	TermAge           = "age"
	TermInProgress    = "in_progress"
	TermHasAcceptance = "has_acceptance"
	TermNotesCount    = "notes_count"
)

func priorityCoefficient(c Coefficients, p types.Priority) float64 {
	switch p {
	case types.PriorityCritical:
		return c.PriorityCritical
	case types.PriorityHigh:
		return c.PriorityHigh
	case types.PriorityMedium:
		return c.PriorityMedium
	case types.PriorityLow:
		return c.PriorityLow
	default:
		return 0
	}
}

func kindCoefficient(c Coefficients, k types.Kind) float64 {
	switch k {
	case types.KindBug:
		return c.KindBug
	case types.KindFeature:
		return c.KindFeature
	case types.KindTask:
		return c.KindTask
	case types.KindEpic:
		return c.KindEpic
	default:
		return 0
	}
}

func ageFactor(in Input) float64 {
	days := in.Now.Sub(in.CreatedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Min(1, days/10)
}

func notesFactor(in Input) float64 {
	return math.Min(1, float64(in.NoteCount)/6)
}

func boolFactor(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Breakdown describes one scoring term's contribution.
type Breakdown struct {
	Term         string
	Coefficient  float64
	Factor       float64
	Contribution float64
}

// Terms computes every term's breakdown against c and in, in table order
// (§4.3). Each term's priority/kind coefficient is already resolved to the
// single matching entry — the "1 if matches" factor collapses to 1, since
// only the matching coefficient is ever emitted.
func Terms(c Coefficients, in Input) []Breakdown {
	terms := []Breakdown{
		{Term: TermPriority, Coefficient: priorityCoefficient(c, in.Priority), Factor: 1},
		{Term: TermKind, Coefficient: kindCoefficient(c, in.Kind), Factor: 1},
		{Term: TermBlocking, Coefficient: c.Blocking, Factor: boolFactor(in.BlocksActive)},
		{Term: TermBlocked, Coefficient: c.Blocked, Factor: boolFactor(in.IsBlocked)},
		{Term: TermAge, Coefficient: c.Age, Factor: ageFactor(in)},
		{Term: TermInProgress, Coefficient: c.InProgress, Factor: boolFactor(in.Status == types.StatusInProgress)},
		{Term: TermHasAcceptance, Coefficient: c.HasAcceptance, Factor: boolFactor(in.HasAcceptance)},
		{Term: TermNotesCount, Coefficient: c.NotesCount, Factor: notesFactor(in)},
	}
	for i := range terms {
		terms[i].Contribution = terms[i].Coefficient * terms[i].Factor
	}
	return terms
}

// Score sums every term's contribution into a single real-valued urgency.
func Score(c Coefficients, in Input) float64 {
	total := 0.0
	for _, t := range Terms(c, in) {
		total += t.Contribution
	}
	return total
}
