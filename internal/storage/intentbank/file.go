package intentbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// record is one intent as authored. The Portuguese field names of older banks
// are accepted as well.
type record struct {
	Tag       string                      `json:"tag" yaml:"tag" toml:"tag"`
	Questions []string                    `json:"questions" yaml:"questions" toml:"questions"`
	Responses map[string]core.ResponseSet `json:"responses" yaml:"responses" toml:"responses"`

	LegacyQuestions []string                    `json:"perguntas" yaml:"perguntas" toml:"perguntas"`
	LegacyResponses map[string]core.ResponseSet `json:"respostas" yaml:"respostas" toml:"respostas"`
}

func (r record) intent() core.Intent {
	in := core.Intent{
		Tag:       strings.TrimSpace(r.Tag),
		Questions: r.Questions,
		Responses: r.Responses,
	}
	if in.Questions == nil {
		in.Questions = r.LegacyQuestions
	}
	if in.Responses == nil {
		in.Responses = r.LegacyResponses
	}
	if in.Responses == nil {
		in.Responses = map[string]core.ResponseSet{}
	}
	return in
}

// rawRecord defers decoding of a single intent so that one bad record does
// not discard the whole bank.
type rawRecord func(v any) error

// File reads the core intent bank from a JSON or YAML file.
type File struct {
	path     string
	validate *validator.Validate
}

func NewFile(path string) *File {
	return &File{
		path:     path,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (f *File) Path() string { return f.path }

// Load returns the valid intents of the bank. A missing or unreadable bank is
// empty; invalid records are skipped.
func (f *File) Load(ctx context.Context) []core.Intent {
	logger := log.FromCtx(ctx).With().Str("path", f.path).Logger()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Msg("intent bank not found, starting empty")
		} else {
			logger.Error().Err(err).Msg("failed to read intent bank")
		}
		return nil
	}

	raws, err := f.decode(data)
	if err != nil {
		logger.Error().Err(err).Msg("malformed intent bank, starting empty")
		return nil
	}

	intents := make([]core.Intent, 0, len(raws))
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		var r record
		if err := raw(&r); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping intent")
			continue
		}

		intent := r.intent()
		if err := f.validate.Struct(intent); err != nil {
			logger.Warn().Err(err).Int("index", i).Str("tag", intent.Tag).Msg("skipping invalid intent")
			continue
		}
		if first, dup := seen[intent.Tag]; dup {
			logger.Warn().Int("index", i).Int("first", first).Str("tag", intent.Tag).Msg("skipping duplicate tag")
			continue
		}
		seen[intent.Tag] = i
		intents = append(intents, intent)
	}

	logger.Info().Int("intents", len(intents)).Msg("intent bank loaded")
	return intents
}

func (f *File) decode(data []byte) ([]rawRecord, error) {
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".toml":
		return decodeTOML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) ([]rawRecord, error) {
	var doc struct {
		Intentions []json.RawMessage `json:"intentions"`
		Legacy     []json.RawMessage `json:"intencoes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	items := doc.Intentions
	if items == nil {
		items = doc.Legacy
	}

	out := make([]rawRecord, len(items))
	for i, item := range items {
		out[i] = func(v any) error { return json.Unmarshal(item, v) }
	}
	return out, nil
}

func decodeYAML(data []byte) ([]rawRecord, error) {
	var doc struct {
		Intentions []yaml.Node `yaml:"intentions"`
		Legacy     []yaml.Node `yaml:"intencoes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	items := doc.Intentions
	if items == nil {
		items = doc.Legacy
	}

	out := make([]rawRecord, len(items))
	for i := range items {
		node := &items[i]
		out[i] = func(v any) error { return node.Decode(v) }
	}
	return out, nil
}

func decodeTOML(data []byte) ([]rawRecord, error) {
	var doc struct {
		Intentions []toml.Primitive `toml:"intentions"`
		Legacy     []toml.Primitive `toml:"intencoes"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse toml: %w", err)
	}

	items := doc.Intentions
	if items == nil {
		items = doc.Legacy
	}

	out := make([]rawRecord, len(items))
	for i := range items {
		prim := items[i]
		out[i] = func(v any) error { return md.PrimitiveDecode(prim, v) }
	}
	return out, nil
}
