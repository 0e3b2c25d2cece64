package layout

import (
	"math"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Default geometry, in user units (pixels in SVG output).
const (
	DefaultNodeWidth  = 160.0
	DefaultNodeHeight = 64.0
	DefaultSpouseGap  = 24.0
	DefaultSiblingGap = 40.0
	DefaultDummyGap   = 16.0
	DefaultRankSep    = 96.0
	DefaultMargin     = 40.0
	DefaultPasses     = 24
	DefaultIterations = 8
)

// Options controls layout geometry and effort. Zero fields take defaults.
type Options struct {
	NodeWidth  float64 `json:"node_width,omitempty" toml:"node_width"`
	NodeHeight float64 `json:"node_height,omitempty" toml:"node_height"`
	SpouseGap  float64 `json:"spouse_gap,omitempty" toml:"spouse_gap"`   // between partners in a couple
	SiblingGap float64 `json:"sibling_gap,omitempty" toml:"sibling_gap"` // between neighbouring units
	DummyGap   float64 `json:"dummy_gap,omitempty" toml:"dummy_gap"`     // next to edge subdividers
	RankSep    float64 `json:"rank_sep,omitempty" toml:"rank_sep"`       // vertical gap between generations
	Margin     float64 `json:"margin,omitempty" toml:"margin"`

	// Passes is the number of alternating barycentric sweeps.
	Passes int `json:"passes,omitempty" toml:"passes"`
	// Iterations is the number of down/up coordinate relaxation rounds.
	Iterations int `json:"iterations,omitempty" toml:"iterations"`
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	setDefault(&o.NodeWidth, DefaultNodeWidth)
	setDefault(&o.NodeHeight, DefaultNodeHeight)
	setDefault(&o.SpouseGap, DefaultSpouseGap)
	setDefault(&o.SiblingGap, DefaultSiblingGap)
	setDefault(&o.DummyGap, DefaultDummyGap)
	setDefault(&o.RankSep, DefaultRankSep)
	setDefault(&o.Margin, DefaultMargin)
	if o.Passes == 0 {
		o.Passes = DefaultPasses
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	return o
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate rejects negative and non-finite values.
func (o Options) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_width", o.NodeWidth},
		{"node_height", o.NodeHeight},
		{"spouse_gap", o.SpouseGap},
		{"sibling_gap", o.SiblingGap},
		{"dummy_gap", o.DummyGap},
		{"rank_sep", o.RankSep},
		{"margin", o.Margin},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidOption, "%s must be a finite number", f.name)
		}
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidOption, "%s must not be negative", f.name)
		}
	}
	if o.Passes < 0 || o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "passes and iterations must not be negative")
	}
	return nil
}

// unitWidth is the width of a unit holding n persons side by side.
func (o Options) unitWidth(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*o.NodeWidth + float64(n-1)*o.SpouseGap
}

// memberOffset is the horizontal distance from the centre of a unit of n
// persons to the centre of its i-th member.
func (o Options) memberOffset(n, i int) float64 {
	return -o.unitWidth(n)/2 + o.NodeWidth/2 + float64(i)*(o.NodeWidth+o.SpouseGap)
}
