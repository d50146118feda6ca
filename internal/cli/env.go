package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// OverrideVars name environment variables that point at an env file taking
// precedence over the --env flag, checked in order.
var OverrideVars = []string{"NEWSANALYSIS_ENV_FILE", "HORSE_ENV_FILE"}

// EnvLoader loads .env files with a predictable override order.
type EnvLoader struct {
	value       *string
	defaultPath string
	out         io.Writer
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	loader := &EnvLoader{
		defaultPath: defaultPath,
		out:         os.Stderr,
	}
	loader.value = fs.String("env", defaultPath, description)
	return loader
}

// SetOutput redirects load notices. A nil writer silences them.
func (l *EnvLoader) SetOutput(w io.Writer) {
	if l == nil {
		return
	}
	if w == nil {
		w = io.Discard
	}
	l.out = w
}

// Load applies the first env file found: an override variable, then the --env
// value, then the default path. A missing default file is not an error since
// the process environment may already carry every setting. It returns the
// loaded path, or "" when nothing was loaded.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	for _, envVar := range OverrideVars {
		custom := strings.TrimSpace(os.Getenv(envVar))
		if custom == "" {
			continue
		}
		if err := godotenv.Overload(custom); err != nil {
			return "", fmt.Errorf("load %s=%s: %w", envVar, custom, err)
		}
		l.notice("Loaded environment from %s: %s", envVar, custom)
		return custom, nil
	}

	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested == "" {
		requested = l.defaultPath
	}

	err := godotenv.Overload(requested)
	if err == nil {
		l.notice("Loaded environment from: %s", requested)
		return requested, nil
	}
	if requested == l.defaultPath && errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return "", fmt.Errorf("load env file %s: %w", requested, err)
}

func (l *EnvLoader) notice(format string, args ...any) {
	if l.out == nil {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}
