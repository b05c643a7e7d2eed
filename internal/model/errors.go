package model

import "errors"

// Validation failures. None of them are fatal; callers discard the attempted change.
var (
	ErrInvalidSpecialTag     = errors.New("invalid special tag: only \"#start name\" or \"#stop name\" may begin with #")
	ErrInvalidPersonTag      = errors.New("invalid person tag: must be \"@name\"")
	ErrForbiddenCharacter    = errors.New("generic tags cannot contain # or @")
	ErrDuplicateDurationRole = errors.New("event already has a #start or #stop tag")
	ErrDurationNameCollision = errors.New("duration name already in use")
	ErrEmptyTag              = errors.New("tag is empty")
	ErrTagNotFound           = errors.New("tag not found on event")
	ErrEmptyText             = errors.New("event text cannot be empty")
	ErrInvalidDate           = errors.New("invalid date format")
	ErrNotFound              = errors.New("event not found")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidSpecialTag, "invalid_special_tag"},
	{ErrInvalidPersonTag, "invalid_person_tag"},
	{ErrForbiddenCharacter, "forbidden_character"},
	{ErrDuplicateDurationRole, "duplicate_duration_role"},
	{ErrDurationNameCollision, "duration_name_collision"},
	{ErrEmptyTag, "empty_tag"},
	{ErrTagNotFound, "tag_not_found"},
	{ErrEmptyText, "empty_text"},
	{ErrInvalidDate, "invalid_date"},
	{ErrNotFound, "not_found"},
}

// ErrorCode returns a stable identifier for a validation error, or "" for anything else
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// IsValidation reports whether err is one of the ledger's local validation failures
func IsValidation(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != "not_found"
}
