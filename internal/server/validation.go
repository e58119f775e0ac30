package server

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"daotask/internal/models"
)

const maxNameLength = 128

var idRegex = regexp.MustCompile(`^[a-z]{2}-[0-9a-z]{6}$`)

func validateID(id string) bool {
	return idRegex.MatchString(id)
}

func normalizeStatus(value string) (string, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return string(status), nil
}

func normalizeKind(value string) (string, error) {
	kind, err := models.ParseTaskKind(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidKind)
	}
	return string(kind), nil
}

// normalizeName validates a DAO, repository, task or milestone name.
func normalizeName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", badRequestCode(fmt.Errorf("%s is required", field), ErrCodeMissingRequired)
	}
	if len(value) > maxNameLength {
		return "", badRequestCode(fmt.Errorf("%s must be at most %d characters", field, maxNameLength), ErrCodeInvalidName)
	}
	if strings.Contains(value, models.SubtaskNameSeparator) {
		return "", badRequestCode(fmt.Errorf("%s must not contain %q", field, models.SubtaskNameSeparator), ErrCodeInvalidName)
	}
	for _, r := range value {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "", badRequestCode(fmt.Errorf("%s must not contain whitespace", field), ErrCodeInvalidName)
		}
	}
	return value, nil
}

func normalizeTag(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", badRequestCode(fmt.Errorf("tag is required"), ErrCodeMissingRequired)
	}
	for _, r := range value {
		if r > unicode.MaxASCII || unicode.IsSpace(r) {
			return "", badRequestCode(fmt.Errorf("tag must be ascii and non-space"), ErrCodeInvalidTag)
		}
	}
	return strings.ToLower(value), nil
}

func normalizeTags(values []string) ([]string, error) {
	tags := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		tag, err := normalizeTag(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > models.MaxTags {
		return nil, badRequestCode(fmt.Errorf("at most %d tags are allowed", models.MaxTags), ErrCodeInvalidTag)
	}
	sort.Strings(tags)
	return tags, nil
}

func normalizePrefix(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) != 2 {
		return "", fmt.Errorf("project prefix must be 2 letters")
	}
	for _, r := range prefix {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("project prefix must be lowercase letters")
		}
	}
	return prefix, nil
}
