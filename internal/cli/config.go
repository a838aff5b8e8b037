// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/textmend/go-textmend/textmend"
)

// loadConfig reads engine settings from a YAML file, e.g.
//
//	diffTimeout: 2s
//	matchThreshold: 0.4
//	patchMargin: 4
//
// Keys follow the engine's field names. Values are coerced, so both
// quoted and bare numbers work.
func loadConfig(path string, eng *textmend.Engine) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return errors.Wrap(err, "unmarshalling config")
	}

	for key, value := range raw {
		if err := setEngineField(eng, key, value); err != nil {
			return err
		}
	}
	return nil
}

func setEngineField(eng *textmend.Engine, key string, value interface{}) error {
	switch key {
	case "diffTimeout":
		d, err := cast.ToDurationE(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.DiffTimeout = d
	case "diffEditCost":
		n, err := cast.ToIntE(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.DiffEditCost = n
	case "matchThreshold":
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.MatchThreshold = f
	case "matchDistance":
		n, err := cast.ToIntE(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.MatchDistance = n
	case "patchDeleteThreshold":
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.PatchDeleteThreshold = f
	case "patchMargin":
		n, err := cast.ToIntE(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.PatchMargin = n
	case "matchMaxBits":
		n, err := cast.ToIntE(value)
		if err != nil {
			return errors.Wrapf(err, "config key %q", key)
		}
		eng.MatchMaxBits = n
	default:
		return errors.Errorf("unknown config key %q", key)
	}
	return nil
}
