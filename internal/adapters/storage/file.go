// Package storage persists bindings, the team roster and reads the
// candidate names list.
//
// JSON files are read through jsonc so operators can hand-edit them with
// comments and trailing commas. Every write goes to a fresh temporary file in
// the target directory which is then renamed over the old one, so a crash
// leaves either the previous or the new content.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/okian/mjoy/pkg/metrics"
)

const filePermission = 0o644

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonc.ToJSON(data), v)
}

// writeJSON replaces path with the pretty-printed encoding of v.
func writeJSON(path, label string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.RecordFileWriteFailure(label)
		return fmt.Errorf("%w: encode %s: %w", ErrWrite, path, err)
	}
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		metrics.RecordFileWriteFailure(label)
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	metrics.RecordFileWrite(label)
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, filePermission); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
