package model

import (
	"fmt"
	"strings"
)

// TagKind is the grammar class of a tag
type TagKind int

const (
	KindGeneric TagKind = iota
	KindPerson
	KindDuration
)

// String returns the name of the grammar class
func (k TagKind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindDuration:
		return "duration"
	default:
		return "generic"
	}
}

// Role distinguishes the two ends of a duration
type Role int

const (
	RoleStart Role = iota
	RoleStop
)

// Prefix returns the literal that introduces a duration tag with this role
func (r Role) Prefix() string {
	if r == RoleStop {
		return StopPrefix
	}
	return StartPrefix
}

func (r Role) String() string {
	if r == RoleStop {
		return "stop"
	}
	return "start"
}

// Duration tag prefixes, including the separating space
const (
	StartPrefix = "#start "
	StopPrefix  = "#stop "
)

// Tag is a parsed tag. Name is set for person and duration tags, Value for generic ones.
type Tag struct {
	Kind  TagKind
	Role  Role
	Name  string
	Value string
}

// ParseTag classifies raw into exactly one grammar class or returns the reason it is rejected.
// Input is trimmed and lowercased.
func ParseTag(raw string) (Tag, error) {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return Tag{}, ErrEmptyTag
	}

	switch {
	case strings.HasPrefix(t, "#"):
		for _, role := range []Role{RoleStart, RoleStop} {
			if strings.HasPrefix(t, role.Prefix()) {
				name := strings.TrimSpace(t[len(role.Prefix()):])
				if name == "" {
					return Tag{}, fmt.Errorf("%w: missing duration name", ErrInvalidSpecialTag)
				}
				return Tag{Kind: KindDuration, Role: role, Name: name}, nil
			}
		}
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidSpecialTag, t)

	case strings.HasPrefix(t, "@"):
		if len(t) == 1 {
			return Tag{}, ErrInvalidPersonTag
		}
		return Tag{Kind: KindPerson, Name: t[1:]}, nil

	case strings.ContainsAny(t, "#@"):
		return Tag{}, fmt.Errorf("%w: %q", ErrForbiddenCharacter, t)
	}

	return Tag{Kind: KindGeneric, Value: t}, nil
}

// String returns the canonical lowercase form stored on events
func (t Tag) String() string {
	switch t.Kind {
	case KindDuration:
		return t.Role.Prefix() + t.Name
	case KindPerson:
		return "@" + t.Name
	default:
		return t.Value
	}
}

// IsDuration is shorthand for t.Kind == KindDuration
func (t Tag) IsDuration() bool {
	return t.Kind == KindDuration
}
