package anim

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DaanHessen/ether-tui/internal/console"
	"github.com/DaanHessen/ether-tui/internal/text"
)

// ErrBadText reports a styled text node that is neither a string, a list,
// nor a mapping with exactly one of text, strings or parts.
var ErrBadText = errors.New("anim: malformed styled text")

// Stage kinds accepted in scripts.
const (
	KindStage        = "stage"
	KindInfo         = "info"
	KindSimultaneous = "simultaneous"
)

// Duration accepts Go duration strings ("1.5s", "700ms") or plain numbers
// of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if secs, err := strconv.ParseFloat(n.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

type styleSpec struct {
	Color  string `yaml:"color"`
	Bold   bool   `yaml:"bold"`
	Dim    bool   `yaml:"dim"`
	Blink  bool   `yaml:"blink"`
	Invert bool   `yaml:"invert"`
	Italic bool   `yaml:"italic"`
}

func (s styleSpec) style() (console.Style, error) {
	c, err := console.ParseColor(s.Color)
	if err != nil {
		return console.Normal, err
	}
	return console.Style{Fg: c, Bold: s.Bold, Dim: s.Dim, Blink: s.Blink, Invert: s.Invert, Italic: s.Italic}, nil
}

// textNode decodes a styled text. A scalar is a plain leaf, a sequence joins
// its items, and a mapping carries a style plus one of:
//
//	text:    a single string
//	strings: a list of strings sharing the style
//	parts:   a list of nested nodes, each with its own style
type textNode struct {
	text.Text
}

func (t *textNode) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		t.Text = text.Plain(n.Value, console.Normal)
		return nil
	case yaml.SequenceNode:
		var parts []textNode
		if err := n.Decode(&parts); err != nil {
			return err
		}
		t.Text = join(parts)
		return nil
	case yaml.MappingNode:
		var m struct {
			styleSpec `yaml:",inline"`
			Text      *string    `yaml:"text"`
			Strings   []string   `yaml:"strings"`
			Parts     []textNode `yaml:"parts"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		st, err := m.style()
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		set := 0
		if m.Text != nil {
			set++
			t.Text = text.Plain(*m.Text, st)
		}
		if m.Strings != nil {
			set++
			t.Text = text.Strings(st, m.Strings...)
		}
		if m.Parts != nil {
			set++
			t.Text = join(m.Parts)
		}
		if set != 1 {
			return fmt.Errorf("line %d: %w: want exactly one of text, strings, parts", n.Line, ErrBadText)
		}
		return nil
	}
	return fmt.Errorf("line %d: %w", n.Line, ErrBadText)
}

func join(parts []textNode) text.Text {
	children := make([]text.Text, len(parts))
	for i, p := range parts {
		children[i] = p.Text
	}
	return text.Join(children...)
}

func (t *textNode) ptr() *text.Text {
	if t == nil {
		return nil
	}
	v := t.Text
	return &v
}

type stepSpec struct {
	Text     textNode  `yaml:"text"`
	Progress *textNode `yaml:"progress"`
	Finished *textNode `yaml:"finished"`
	Delay    Duration  `yaml:"delay"`
	StatusX  int       `yaml:"status_x"`
}

func (s stepSpec) build() *Step {
	return &Step{
		Text:     s.Text.Text,
		Progress: s.Progress.ptr(),
		Finished: s.Finished.ptr(),
		Delay:    time.Duration(s.Delay),
		StatusX:  s.StatusX,
	}
}

type stageSpec struct {
	Kind         string      `yaml:"kind"`
	Text         *textNode   `yaml:"text"`
	Progress     *textNode   `yaml:"progress"`
	Finished     *textNode   `yaml:"finished"`
	Steps        []stepSpec  `yaml:"steps"`
	Stages       []stageSpec `yaml:"stages"`
	Delay        Duration    `yaml:"delay"`
	DelayBetween Duration    `yaml:"delay_between"`
	StatusX      int         `yaml:"status_x"`
}

func (s stageSpec) buildStage() (*Stage, error) {
	if s.Text == nil {
		return nil, errors.New("stage needs text")
	}
	st := &Stage{
		Text:     s.Text.Text,
		Progress: s.Progress.ptr(),
		Finished: s.Finished.ptr(),
		Delay:    time.Duration(s.Delay),
		StatusX:  s.StatusX,
	}
	for _, step := range s.Steps {
		st.Steps = append(st.Steps, step.build())
	}
	return st, nil
}

func (s stageSpec) build() (Player, error) {
	switch s.Kind {
	case KindStage, "":
		return s.buildStage()
	case KindInfo:
		info := &InfoStage{Delay: time.Duration(s.Delay)}
		for _, step := range s.Steps {
			info.Steps = append(info.Steps, step.build())
		}
		return info, nil
	case KindSimultaneous:
		sim := &SimultaneousStage{Delay: time.Duration(s.Delay), DelayBetween: time.Duration(s.DelayBetween)}
		for i, child := range s.Stages {
			st, err := child.buildStage()
			if err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
			sim.Stages = append(sim.Stages, st)
		}
		return sim, nil
	}
	return nil, fmt.Errorf("unknown stage kind %q", s.Kind)
}

type script struct {
	Name   string      `yaml:"name"`
	Delay  Duration    `yaml:"delay"`
	Stages []stageSpec `yaml:"stages"`
	// Defs holds anchored nodes referenced elsewhere in the script.
	Defs yaml.Node `yaml:"defs"`
}

// Decode reads an animation script.
func Decode(r io.Reader) (*Animation, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode animation: %w", err)
	}
	a := &Animation{Name: sc.Name, Delay: time.Duration(sc.Delay)}
	for i, s := range sc.Stages {
		p, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("animation %q stage %d: %w", sc.Name, i, err)
		}
		a.Stages = append(a.Stages, p)
	}
	return a, nil
}

// Load decodes the script called name from fsys.
func Load(fsys fs.FS, name string) (*Animation, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if a.Name == "" {
		a.Name = name
	}
	return a, nil
}
