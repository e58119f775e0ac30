package store

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"daotask/internal/models"
)

const (
	idSuffixLength = 5
	idMaxAttempts  = 20
)

// kindTags is the single letter that follows the project prefix in an id.
var kindTags = map[models.TaskKind]byte{
	models.KindTask:      't',
	models.KindMilestone: 'm',
	models.KindSubtask:   's',
}

// GenerateID returns a new task id of the form <prefix>-<tag><suffix>, where
// tag names the kind and suffix is five random base36 characters. It retries
// on collisions using the provided exists function.
func GenerateID(prefix string, kind models.TaskKind, exists func(string) (bool, error)) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("project prefix is required")
	}
	tag, ok := kindTags[kind]
	if !ok {
		return "", fmt.Errorf("unknown task kind %q", kind)
	}

	for i := 0; i < idMaxAttempts; i++ {
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}
		id := prefix + "-" + string(tag) + suffix
		if exists == nil {
			return id, nil
		}
		taken, err := exists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}

	return "", fmt.Errorf("unable to generate unique %s id after %d attempts", kind, idMaxAttempts)
}

// KindFromID reports the task kind encoded in id.
func KindFromID(id string) (models.TaskKind, bool) {
	_, rest, ok := strings.Cut(id, "-")
	if !ok || len(rest) != idSuffixLength+1 {
		return "", false
	}
	for kind, tag := range kindTags {
		if rest[0] == tag {
			return kind, true
		}
	}
	return "", false
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random id: %w", err)
	}
	s := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	if len(s) < idSuffixLength {
		s = strings.Repeat("0", idSuffixLength-len(s)) + s
	}
	return s[len(s)-idSuffixLength:], nil
}
