package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sandevgo/aline/pkg/log"
)

// ErrCorrupt is returned when a store file exists but does not hold the
// expected JSON document.
var ErrCorrupt = errors.New("corrupt store file")

var rename = os.Rename

// WriteJSON replaces path with the JSON encoding of v so that readers see
// either the previous document or the new one. The previous file is kept as
// path.backup until the new one is in place and is restored if any step
// fails.
func WriteJSON(ctx context.Context, path string, v any) (err error) {
	logger := log.FromCtx(ctx).With().Str("path", path).Logger()

	backup := path + ".backup"
	tmp := path + ".tmp"

	hadBackup := false
	defer func() {
		if err == nil {
			return
		}
		logger.Error().Err(err).Msg("atomic write failed")
		_ = os.Remove(tmp)
		if hadBackup {
			if rbErr := copyFile(backup, path); rbErr != nil {
				logger.Error().Err(rbErr).Msg("rollback failed, backup kept")
				return
			}
			_ = os.Remove(backup)
			logger.Warn().Msg("rollback done")
		}
	}()

	if _, statErr := os.Stat(path); statErr == nil {
		if err = copyFile(path, backup); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		hadBackup = true
	}

	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	written, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("failed to read back temp file: %w", err)
	}
	if !json.Valid(written) {
		return fmt.Errorf("temp file %s: %w", tmp, ErrCorrupt)
	}

	if err = rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	if hadBackup {
		_ = os.Remove(backup)
	}
	logger.Debug().Msg("file saved")
	return nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readJSON decodes path into v. A missing file reports found=false and no
// error; undecodable content wraps ErrCorrupt.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%s: %w: %v", path, ErrCorrupt, err)
	}
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
