package resume

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrOrphanEntry       = errors.New("resume: entry has no owning section")
	ErrEmptyHeading      = errors.New("resume: heading is required")
	ErrInvalidNesting    = errors.New("resume: invalid nesting")
	ErrDuplicateIntro    = errors.New("resume: intro declared more than once")
	ErrUnknownSpec       = errors.New("resume: unknown spec kind")
	ErrInvalidIntro      = errors.New("resume: intro is invalid")
	ErrInvalidHeadingLvl = errors.New("resume: heading level out of range")
	ErrInvalidResumeData = errors.New("resume: resume data invalid")
)

const (
	textCodeOrphan       = "RESUME_ORPHAN_ENTRY"
	textCodeEmptyHeading = "RESUME_EMPTY_HEADING"
	textCodeNesting      = "RESUME_INVALID_NESTING"
	textCodeDuplicate    = "RESUME_DUPLICATE_INTRO"
	textCodeUnknown      = "RESUME_UNKNOWN_SPEC"
	textCodeIntro        = "RESUME_INVALID_INTRO"
	textCodeLevel        = "RESUME_INVALID_HEADING_LEVEL"
	textCodeData         = "RESUME_INVALID_DATA"
)

func composeError(sentinel error, code string, path string, detail string) error {
	message := detail
	if path != "" {
		message = fmt.Sprintf("%s (at %s)", detail, path)
	}
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, message).
		WithTextCode(code).
		WithMetadata(map[string]any{"path": path})
}

func orphanError(path string, kind SpecKind) error {
	return composeError(ErrOrphanEntry, textCodeOrphan, path, fmt.Sprintf("%s supplied outside of a section", kind))
}

func emptyHeadingError(path string, kind SpecKind) error {
	return composeError(ErrEmptyHeading, textCodeEmptyHeading, path, fmt.Sprintf("%s heading is empty", kind))
}

func nestingError(path string, kind SpecKind) error {
	return composeError(ErrInvalidNesting, textCodeNesting, path, fmt.Sprintf("%s cannot be nested inside a section", kind))
}

func duplicateIntroError(path string) error {
	return composeError(ErrDuplicateIntro, textCodeDuplicate, path, "only one intro is allowed")
}

func unknownSpecError(path string, kind SpecKind) error {
	return composeError(ErrUnknownSpec, textCodeUnknown, path, fmt.Sprintf("unknown spec kind %q", kind))
}

func introError(path string, cause error) error {
	return composeError(fmt.Errorf("%w: %v", ErrInvalidIntro, cause), textCodeIntro, path, "intro requires a name and a role")
}

func headingLevelError(level int) error {
	return goerrors.Wrap(ErrInvalidHeadingLvl, goerrors.CategoryBadInput, fmt.Sprintf("section level %d leaves no room for positions", level)).
		WithTextCode(textCodeLevel).
		WithMetadata(map[string]any{"level": level})
}

func dataError(cause error, issues []string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %v", ErrInvalidResumeData, cause), goerrors.CategoryBadInput, "resume data does not match the expected shape").
		WithTextCode(textCodeData).
		WithMetadata(map[string]any{"issues": issues})
}
