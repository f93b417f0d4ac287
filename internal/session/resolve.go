package session

import (
	"fmt"
	"regexp"

	"github.com/matheus3301/modernchat/internal/config"
)

// DefaultSessionName is used when neither the flag nor the config names one.
const DefaultSessionName = "main"

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Resolve picks the session name, flag first, then the config's
// default_session (which MODERNCHAT_SESSION overrides), then "main".
// The error names the source of a bad name.
func Resolve(flag string, cfg *config.Config) (string, error) {
	name, source := DefaultSessionName, "default"
	switch {
	case flag != "":
		name, source = flag, "--session"
	case cfg != nil && cfg.DefaultSession != "":
		name, source = cfg.DefaultSession, "default_session"
	}
	if err := ValidateName(name); err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	return name, nil
}

// ValidateName reports whether name can be a directory under sessions/.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid session name %q: want 1-64 of [a-z0-9_-]", name)
	}
	return nil
}
