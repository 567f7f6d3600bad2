// Package configutil loads json5 configuration files with optional
// local overrides, so a checked-in config.json5 can be adjusted per
// machine through an untracked config.local.json5.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(name string) (string, string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[0:i], name[i+1:]
		}
	}
	return name, ""
}

// ReadConfig reads `name` (extension included) and then merges
// `<base>.local.<ext>` over it when that file exists, local values
// winning. Returns os.ErrNotExist when neither file is present.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	dirname := filepath.Dir(name)
	base, ext := splitExt(filepath.Base(name))

	raw, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(raw) > 0 {
		if err := json5.Unmarshal(raw, &out); err != nil {
			return out, err
		}
		found = true
	}

	localPath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", base, ext))
	localRaw, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localRaw) > 0 {
		var overlay T
		if err := json5.Unmarshal(localRaw, &overlay); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, overlay, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("applying local config overrides", "path", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively walks from the working directory up towards the
// filesystem root looking for a config matching `name`. Lets the cli
// run from any subdirectory of a checkout.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs("/")
	if err != nil {
		return zero, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for dir != root {
		cfg, err := ReadConfig[T](filepath.Join(dir, name))
		if os.IsNotExist(err) {
			dir = filepath.Join(dir, "..")
			continue
		}
		if err != nil {
			return zero, err
		}
		return cfg, nil
	}

	return zero, os.ErrNotExist
}
