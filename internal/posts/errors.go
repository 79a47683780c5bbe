package posts

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrMissingDelimiter     = errors.New("posts: metadata block delimiter missing")
	ErrMalformedMetadata    = errors.New("posts: metadata block malformed")
	ErrInvalidDate          = errors.New("posts: invalid date")
	ErrMissingRequiredField = errors.New("posts: required field missing")

	ErrPostIDRequired   = errors.New("posts: post id required")
	ErrDuplicateID      = errors.New("posts: duplicate post id")
	ErrCollectionSealed = errors.New("posts: collection is sealed")
)

const (
	textCodeMissingDelimiter = "POST_METADATA_DELIMITER_MISSING"
	textCodeMalformed        = "POST_METADATA_MALFORMED"
	textCodeInvalidDate      = "POST_INVALID_DATE"
	textCodeMissingField     = "POST_REQUIRED_FIELD_MISSING"
	textCodeIDRequired       = "POST_ID_REQUIRED"
	textCodeDuplicateID      = "POST_DUPLICATE_ID"
	textCodeSealed           = "POST_COLLECTION_SEALED"
)

func missingDelimiterError(cause error) error {
	source := ErrMissingDelimiter
	if cause != nil {
		source = fmt.Errorf("%w: %v", ErrMissingDelimiter, cause)
	}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, "post metadata block not found").
		WithTextCode(textCodeMissingDelimiter)
}

func malformedMetadataError(cause error) error {
	return goerrors.Wrap(fmt.Errorf("%w: %v", ErrMalformedMetadata, cause), goerrors.CategoryBadInput, "post metadata block could not be decoded").
		WithTextCode(textCodeMalformed)
}

func invalidDateError(raw string) error {
	return goerrors.Wrap(ErrInvalidDate, goerrors.CategoryValidation, fmt.Sprintf("post date %q is not a valid timestamp", raw)).
		WithTextCode(textCodeInvalidDate).
		WithMetadata(map[string]any{"field": fieldDate, "value": raw})
}

func missingFieldError(field string) error {
	return goerrors.Wrap(ErrMissingRequiredField, goerrors.CategoryValidation, fmt.Sprintf("post field %q is required", field)).
		WithTextCode(textCodeMissingField).
		WithMetadata(map[string]any{"field": field})
}

func fieldTypeError(field string, want Kind, got Kind) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: field %q must be %s, got %s", ErrMalformedMetadata, field, want, got),
		goerrors.CategoryValidation,
		fmt.Sprintf("post field %q has an unexpected shape", field),
	).
		WithTextCode(textCodeMalformed).
		WithMetadata(map[string]any{"field": field})
}

func idRequiredError() error {
	return goerrors.Wrap(ErrPostIDRequired, goerrors.CategoryValidation, "post id is empty").
		WithTextCode(textCodeIDRequired)
}

func duplicateIDError(id string) error {
	return goerrors.Wrap(ErrDuplicateID, goerrors.CategoryConflict, fmt.Sprintf("post %q already exists", id)).
		WithTextCode(textCodeDuplicateID).
		WithMetadata(map[string]any{"id": id})
}

func sealedError(id string) error {
	return goerrors.Wrap(ErrCollectionSealed, goerrors.CategoryOperation, "collection no longer accepts posts").
		WithTextCode(textCodeSealed).
		WithMetadata(map[string]any{"id": id})
}
