package crashdump

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/smykla-skalski/hyperfind/pkg/config"
)

const redactedValue = "[REDACTED]"

var sensitiveKey = regexp.MustCompile(`(?i)token|secret|password|credential|auth|api[-_]?key`)

// Sanitizer strips sensitive values and home directories from config snapshots.
type Sanitizer struct {
	home string
}

// NewSanitizer creates a Sanitizer for the current user.
func NewSanitizer() *Sanitizer {
	home, _ := os.UserHomeDir()

	return &Sanitizer{home: home}
}

// SanitizeConfig converts cfg to a generic map with sensitive values redacted
// and paths under the home directory rewritten to "~".
func (s *Sanitizer) SanitizeConfig(cfg *config.Config) map[string]any {
	if cfg == nil {
		return nil
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return map[string]any{"error": "failed to serialize config"}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{"error": "failed to deserialize config"}
	}

	s.sanitizeMap(result)

	return result
}

// SanitizePath rewrites a path under the home directory to start with "~".
func (s *Sanitizer) SanitizePath(path string) string {
	if s.home == "" || s.home == "/" {
		return path
	}

	if path == s.home {
		return "~"
	}

	if rest, ok := strings.CutPrefix(path, s.home+string(os.PathSeparator)); ok {
		return "~" + string(os.PathSeparator) + rest
	}

	return path
}

// SanitizeText rewrites every occurrence of the home directory in text,
// such as file paths in a stack trace.
func (s *Sanitizer) SanitizeText(text string) string {
	if s.home == "" || s.home == "/" {
		return text
	}

	return strings.ReplaceAll(text, s.home+string(os.PathSeparator), "~"+string(os.PathSeparator))
}

func (s *Sanitizer) sanitizeMap(m map[string]any) {
	for key, value := range m {
		if sensitiveKey.MatchString(key) {
			m[key] = redactedValue

			continue
		}

		m[key] = s.sanitizeValue(value)
	}
}

func (s *Sanitizer) sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		s.sanitizeMap(v)
	case []any:
		for i := range v {
			v[i] = s.sanitizeValue(v[i])
		}
	case string:
		return s.SanitizePath(v)
	}

	return value
}
