package jsonfile

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

type legacySession struct {
	Start            string  `json:"inicio"`
	End              string  `json:"fim"`
	DurationSeconds  float64 `json:"duracao_seg"`
	InteractionCount int     `json:"num_interacoes"`
}

// statsDocument is core.StatsState plus the Portuguese keys of older files.
type statsDocument struct {
	core.StatsState

	LegacyByPersonality map[string]int            `json:"por_personalidade,omitempty"`
	LegacyByTag         map[string]int            `json:"por_tag,omitempty"`
	LegacySessions      map[string]*legacySession `json:"sessoes,omitempty"`
	LegacyTotalDuration float64                   `json:"total_duracao_sessoes_seg,omitempty"`
}

func (d *statsDocument) state() *core.StatsState {
	s := d.StatsState
	if len(s.ByPersonality) == 0 && len(d.LegacyByPersonality) > 0 {
		s.ByPersonality = d.LegacyByPersonality
	}
	if len(s.ByTag) == 0 && len(d.LegacyByTag) > 0 {
		s.ByTag = d.LegacyByTag
	}
	if len(s.Sessions) == 0 && len(d.LegacySessions) > 0 {
		s.Sessions = make(map[string]*core.Session, len(d.LegacySessions))
		for id, ls := range d.LegacySessions {
			if ls == nil {
				continue
			}
			start, _ := parseLegacyTime(ls.Start)
			end, _ := parseLegacyTime(ls.End)
			s.Sessions[id] = &core.Session{
				Start:            start,
				End:              end,
				DurationSeconds:  ls.DurationSeconds,
				InteractionCount: ls.InteractionCount,
			}
		}
		if s.TotalSessionDurationSeconds == 0 {
			s.TotalSessionDurationSeconds = d.LegacyTotalDuration
		}
	}
	s.EnsureMaps()
	return &s
}

// StatsStore holds the single statistics document.
type StatsStore struct {
	path string
	mu   sync.Mutex
}

func NewStatsStore(path string) *StatsStore {
	return &StatsStore{path: path}
}

// Load returns the stored state. A missing or corrupt file yields an empty
// state.
func (s *StatsStore) Load(ctx context.Context) (*core.StatsState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc statsDocument
	if _, err := readJSON(s.path, &doc); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		log.FromCtx(ctx).Error().Err(err).Msg("stats unreadable, starting over")
		return core.NewStatsState(), nil
	}
	return doc.state(), nil
}

func (s *StatsStore) Replace(ctx context.Context, state *core.StatsState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == nil {
		state = core.NewStatsState()
	}
	return WriteJSON(ctx, s.path, state)
}
