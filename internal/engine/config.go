package engine

import (
	"context"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/urgency"
)

// ConfigGet returns the stored value for key, or ok=false if it has never
// been set (the default from internal/urgency applies instead) (§4.4
// config get).
func (e *Engine) ConfigGet(ctx context.Context, key string) (string, bool, error) {
	return e.Store.GetConfig(ctx, key)
}

// ConfigSet stores value under key. Only the dotted urgency coefficient
// keys are recognized overrides; any other key is still stored (so a
// command or future coefficient can read it back) but never influences
// scoring, matching urgency.LoadCoefficients' "malformed or unknown keys
// are simply ignored" behavior (§4.3).
func (e *Engine) ConfigSet(ctx context.Context, key, value string) error {
	if key == "" {
		return errs.InvalidValuef("config key is required")
	}
	return e.Store.SetConfig(ctx, key, value)
}

// ConfigList returns every stored override key/value pair (§4.4 config
// list). Keys never explicitly set are absent; callers wanting the full
// effective set should cross-reference urgency.ConfigKeys/Defaults.
func (e *Engine) ConfigList(ctx context.Context) (map[string]string, error) {
	return e.Store.GetAllConfig(ctx)
}

// ConfigReset deletes every stored override, reverting every coefficient
// to its built-in default (§4.4 config reset).
func (e *Engine) ConfigReset(ctx context.Context) error {
	return e.Store.ResetConfig(ctx)
}

// ConfigKeys lists the recognized urgency coefficient keys, used by init to
// write the config.toml seed.
func ConfigKeys() []string {
	return urgency.ConfigKeys()
}
