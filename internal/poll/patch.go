// Package poll builds sparse patches for embedded poll edits.
//
// A poll edit must never overwrite the whole poll object: that would erase
// every vote cast since the admin opened the edit form. Instead the builder
// emits field-path writes that stay silent on the votes of every surviving
// option, so the store leaves them untouched.
package poll

import (
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campusboard/feedengine/internal/domain"
)

var patchesBuilt = promauto.NewCounter(prometheus.CounterOpts{
	Name: "poll_patches_built_total",
	Help: "Poll edit patches produced",
})

// Field paths relative to the announcement record.
const (
	pathQuestion       = "poll.question"
	pathAllowMulti     = "poll.allow_multi"
	pathAllowAddOption = "poll.allow_add_option"
	optionPrefix       = "poll.options."
)

// PollPath is the root of the embedded poll subtree. A single tombstone here
// removes the poll entirely; that is an explicit operation, never implied by
// an empty draft.
const PollPath = "poll"

// NewOptionKey returns a fresh key for an added option. Keys are never
// reused after deletion.
func NewOptionKey() domain.OptionKey {
	return domain.OptionKey("opt-" + uuid.NewString()[:8])
}

// BuildPatch diffs the persisted poll against the edited draft.
//
// Scalars (question, flags) are always written. A surviving option gets a
// text write and nothing else; in particular no write under its votes path.
// A genuinely new option additionally gets an empty votes map. An option
// whose key disappeared from the draft gets a tombstone for its whole
// subtree, votes included; that data loss is intentional and documented.
//
// A blank draft question means no poll was intended and yields an empty
// patch; whether that should remove an existing poll is the caller's call.
func BuildPatch(existing *domain.Poll, draft domain.PollDraft) domain.Patch {
	patch := domain.Patch{}

	if strings.TrimSpace(draft.Question) == "" {
		return patch
	}

	patch[pathQuestion] = draft.Question
	patch[pathAllowMulti] = draft.AllowMulti
	patch[pathAllowAddOption] = draft.AllowAddOption

	for key, text := range draft.Options {
		if strings.TrimSpace(text) == "" {
			continue
		}
		patch[optionPrefix+string(key)+".text"] = text
		if !optionExists(existing, key) {
			// new option starts with zero votes
			patch[optionPrefix+string(key)+".votes"] = map[domain.VoterId]bool{}
		}
	}

	if existing != nil {
		for key := range existing.Options {
			if _, kept := draft.Options[key]; !kept {
				patch[optionPrefix+string(key)] = domain.Tombstone
			}
		}
	}

	patchesBuilt.Inc()
	return patch
}

func optionExists(p *domain.Poll, key domain.OptionKey) bool {
	if p == nil {
		return false
	}
	_, ok := p.Options[key]
	return ok
}
