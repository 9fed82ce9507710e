package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BotName    = "Aline"
	BotVersion = "0.1.0"

	// TagFallback marks the catch-all intent of the core bank.
	TagFallback = "fallback"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMalformedTimestamps = errors.New("malformed interaction timestamps")
)

// ResponseSet is either a single canonical answer or a list of
// interchangeable variants for one personality.
type ResponseSet struct {
	Scalar   string
	Variants []string
	multi    bool
}

func Scalar(s string) ResponseSet { return ResponseSet{Scalar: s} }

func Variants(v ...string) ResponseSet { return ResponseSet{Variants: v, multi: true} }

func (r ResponseSet) IsVariants() bool { return r.multi }

func (r ResponseSet) IsEmpty() bool {
	if r.multi {
		return len(r.Variants) == 0
	}
	return r.Scalar == ""
}

// All returns every phrasing of the set.
func (r ResponseSet) All() []string {
	if r.multi {
		return r.Variants
	}
	return []string{r.Scalar}
}

func (r ResponseSet) MarshalJSON() ([]byte, error) {
	if r.multi {
		return json.Marshal(r.Variants)
	}
	return json.Marshal(r.Scalar)
}

func (r *ResponseSet) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Scalar(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("response must be a string or a list of strings: %w", err)
	}
	*r = Variants(list...)
	return nil
}

func (r ResponseSet) MarshalYAML() (interface{}, error) {
	if r.multi {
		return r.Variants, nil
	}
	return r.Scalar, nil
}

func (r *ResponseSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = Scalar(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("response list must contain strings: %w", err)
		}
		*r = Variants(list...)
		return nil
	default:
		return fmt.Errorf("response must be a string or a list of strings (line %d)", node.Line)
	}
}

func (r *ResponseSet) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*r = Scalar(val)
		return nil
	case []any:
		list := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("response list must contain strings, got %T", item)
			}
			list = append(list, s)
		}
		*r = Variants(list...)
		return nil
	default:
		return fmt.Errorf("response must be a string or a list of strings, got %T", v)
	}
}

// Intent is a pre-authored question cluster with personality-specific answers.
type Intent struct {
	Tag       string                 `json:"tag" yaml:"tag" validate:"required"`
	Questions []string               `json:"questions" yaml:"questions" validate:"dive,required"`
	Responses map[string]ResponseSet `json:"responses" yaml:"responses"`
}

// IsFallback reports whether the intent is the catch-all one.
func (i Intent) IsFallback() bool { return i.Tag == TagFallback }

// TaughtEntry is a question/answer pair supplied by a user after a fallback.
type TaughtEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchIntent
	MatchTaught
)

func (k MatchKind) String() string {
	switch k {
	case MatchIntent:
		return "intent"
	case MatchTaught:
		return "taught"
	default:
		return "none"
	}
}

// MatchResult carries exactly one of: a core intent, a taught answer, or nothing.
type MatchResult struct {
	Kind   MatchKind
	Intent *Intent
	Answer string
}

func IntentMatch(i *Intent) MatchResult { return MatchResult{Kind: MatchIntent, Intent: i} }

func TaughtMatch(answer string) MatchResult { return MatchResult{Kind: MatchTaught, Answer: answer} }

func NoMatch() MatchResult { return MatchResult{Kind: MatchNone} }

// HistoryEntry is one processed interaction kept in the rolling window.
type HistoryEntry struct {
	TimestampIn  time.Time `json:"timestamp_in"`
	TimestampOut time.Time `json:"timestamp_out"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Personality  string    `json:"personality"`
	Tag          *string   `json:"tag"`
	IsFallback   bool      `json:"is_fallback"`
}

// Interaction is the input of the statistics aggregator.
type Interaction struct {
	IsFallback   bool
	Personality  string
	Tag          *string
	TimestampIn  time.Time
	TimestampOut time.Time
}

// Session is a contiguous run of interactions separated by idle gaps.
type Session struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	DurationSeconds  float64   `json:"duration_seconds"`
	InteractionCount int       `json:"interaction_count"`
}

// StatsState is the persisted aggregate of every processed interaction.
type StatsState struct {
	TotalInteractions           int                 `json:"total_interactions"`
	FallbackCount               int                 `json:"fallback_count"`
	ByPersonality               map[string]int      `json:"by_personality"`
	ByTag                       map[string]int      `json:"by_tag"`
	Sessions                    map[string]*Session `json:"sessions"`
	TotalSessionDurationSeconds float64             `json:"total_session_duration_seconds"`
}

func NewStatsState() *StatsState {
	s := &StatsState{}
	s.EnsureMaps()
	return s
}

// EnsureMaps replaces nil maps left by a sparse or legacy document.
func (s *StatsState) EnsureMaps() {
	if s.ByPersonality == nil {
		s.ByPersonality = make(map[string]int)
	}
	if s.ByTag == nil {
		s.ByTag = make(map[string]int)
	}
	if s.Sessions == nil {
		s.Sessions = make(map[string]*Session)
	}
}

// Stats are the metrics derived on demand from a StatsState.
type Stats struct {
	TotalInteractions          int                `json:"total_interactions"`
	FallbackCount              int                `json:"fallback_count"`
	FallbackRate               float64            `json:"fallback_rate"`
	ByPersonality              map[string]int     `json:"by_personality"`
	ByTag                      map[string]int     `json:"by_tag"`
	ByPersonalityPct           map[string]float64 `json:"by_personality_pct"`
	ByTagPct                   map[string]float64 `json:"by_tag_pct"`
	SessionCount               int                `json:"session_count"`
	MeanSessionDurationMinutes float64            `json:"mean_session_duration_minutes"`
}
