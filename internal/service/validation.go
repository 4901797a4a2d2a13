package service

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

const (
	msgTitleRequired      = "Title is required"
	msgTitleEmpty         = "Title cannot be empty"
	msgTitleTooLong       = "Title must be less than 200 characters"
	msgDescriptionTooLong = "Description must be less than 1000 characters"
	msgNoUpdateFields     = "At least one field must be provided for update"
	msgCompletedNotBool   = "Completed must be a boolean"
	msgIDRequired         = "Todo ID is required"
)

// validateCreate normalizes a create request into the fields to persist.
// A description that trims to nothing is treated as absent.
func validateCreate(req CreateTodoRequest) (title string, description *string, err error) {
	title = strings.TrimSpace(req.Title)
	if title == "" {
		return "", nil, domain.NewValidationError(msgTitleRequired)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", nil, domain.NewValidationError(msgTitleTooLong)
	}

	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(d) > MaxDescriptionLength {
			return "", nil, domain.NewValidationError(msgDescriptionTooLong)
		}
		if d != "" {
			description = &d
		}
	}

	return title, description, nil
}

// validateUpdate turns an update request into a patch. A description that
// trims to nothing, or is null, clears the stored value. A null title or
// completed flag is rejected rather than ignored.
func validateUpdate(req UpdateTodoRequest) (domain.TodoPatch, error) {
	var patch domain.TodoPatch
	if !req.Title.Set && !req.Description.Set && !req.Completed.Set {
		return patch, domain.NewValidationError(msgNoUpdateFields)
	}

	if req.Title.Set {
		title := strings.TrimSpace(req.Title.Value)
		if req.Title.Null || title == "" {
			return patch, domain.NewValidationError(msgTitleEmpty)
		}
		if utf8.RuneCountInString(title) > MaxTitleLength {
			return patch, domain.NewValidationError(msgTitleTooLong)
		}
		patch.Title = &title
	}

	if req.Description.Set {
		d := strings.TrimSpace(req.Description.Value)
		if utf8.RuneCountInString(d) > MaxDescriptionLength {
			return patch, domain.NewValidationError(msgDescriptionTooLong)
		}
		patch.Description = &sql.NullString{String: d, Valid: !req.Description.Null && d != ""}
	}

	if req.Completed.Set {
		if req.Completed.Null {
			return patch, domain.NewValidationError(msgCompletedNotBool)
		}
		completed := req.Completed.Value
		patch.Completed = &completed
	}
	return patch, nil
}

// validateID rejects only the empty id; anything else is looked up as sent.
func validateID(id string) (string, error) {
	if id == "" {
		return "", domain.NewValidationError(msgIDRequired)
	}
	return id, nil
}
