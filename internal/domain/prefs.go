package domain

import "context"

// Preference keys.
const (
	PrefBGLUnit   = "bgl_unit"
	PrefFirstName = "first_name"
)

// PreferenceRepository is the port for key-value display settings. ok is
// false when the key has never been set.
type PreferenceRepository interface {
	GetPreference(ctx context.Context, key string) (value string, ok bool, err error)
	SetPreference(ctx context.Context, key, value string) error
}
