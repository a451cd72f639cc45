package service

import (
	"strings"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
)

type Validator interface {
	CreationData(data *domain.AnnouncementCreationData) error
	Edit(edit *domain.EditData) error
	PollDraft(draft *domain.PollDraft) error
}

// FieldValidator enforces the edit-boundary rules: required text fields and
// the one poll rule (a poll with options needs a question). Anything beyond
// non-emptiness is out of scope.
type FieldValidator struct{}

func (v *FieldValidator) CreationData(data *domain.AnnouncementCreationData) error {
	if err := requiredFields(data.Title, data.ShortDesc, data.Description); err != nil {
		return err
	}
	if data.Scope == "" {
		return &errors.ValidationError{Field: "scope", Reason: "required"}
	}
	if data.Poll != nil {
		if strings.TrimSpace(data.Poll.Question) == "" {
			return &errors.ValidationError{Field: "poll.question", Reason: "required when a poll is attached"}
		}
	}
	return nil
}

func (v *FieldValidator) Edit(edit *domain.EditData) error {
	return requiredFields(edit.Title, edit.ShortDesc, edit.Description)
}

func (v *FieldValidator) PollDraft(draft *domain.PollDraft) error {
	if strings.TrimSpace(draft.Question) == "" && len(draft.Options) > 0 {
		return &errors.ValidationError{Field: "question", Reason: "required when options are present"}
	}
	return nil
}

func requiredFields(title, shortDesc, description string) error {
	if strings.TrimSpace(title) == "" {
		return &errors.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(shortDesc) == "" {
		return &errors.ValidationError{Field: "short_desc", Reason: "required"}
	}
	if strings.TrimSpace(description) == "" {
		return &errors.ValidationError{Field: "description", Reason: "required"}
	}
	return nil
}
