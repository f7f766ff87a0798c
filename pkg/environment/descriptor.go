package environment

import (
	"fmt"
	"strings"
)

const (
	environmentSeparator = ";"
	fieldSeparator       = ","
	fieldCount           = 3
)

// Parse turns a target descriptor into environments, preserving descriptor
// order. The grammar is
//
//	ENV(;ENV)*   where ENV = BROWSER,VERSION,PLATFORM
//
// Whitespace around every field is trimmed. Blank segments at the end of the
// descriptor (a trailing ";") are ignored; any other segment must yield exactly
// three non-empty fields. The returned environments have no session attached.
func Parse(descriptor string) ([]*TestEnvironment, error) {
	if strings.TrimSpace(descriptor) == "" {
		return nil, ErrTargetRequired
	}

	segments := strings.Split(descriptor, environmentSeparator)
	for len(segments) > 0 && strings.TrimSpace(segments[len(segments)-1]) == "" {
		segments = segments[:len(segments)-1]
	}

	envs := make([]*TestEnvironment, 0, len(segments))
	for i, segment := range segments {
		env, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("environment %d (%q): %w", i, strings.TrimSpace(segment), err)
		}
		envs = append(envs, env)
	}
	return envs, nil
}

func parseSegment(segment string) (*TestEnvironment, error) {
	fields := strings.Split(segment, fieldSeparator)
	if len(fields) != fieldCount {
		return nil, ErrMalformedEnvironment
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return nil, ErrMalformedEnvironment
		}
	}

	platform, err := ParsePlatform(fields[2])
	if err != nil {
		return nil, err
	}
	return New(fields[0], fields[1], platform), nil
}
