package personas

import (
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9._-]{0,62}[a-z0-9])?$`)

// ParseID normalizes raw (trim, lowercase) and checks it is a valid persona id.
// Persona ids double as store keys, so they stay short and filesystem friendly.
func ParseID(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !idPattern.MatchString(normalized) {
		return "", &ValidationError{Field: "id", Reason: "must match " + idPattern.String() + ", got " + `"` + raw + `"`}
	}
	return normalized, nil
}

func MustID(raw string) string {
	id, err := ParseID(raw)
	if err != nil {
		panic(err)
	}
	return id
}
