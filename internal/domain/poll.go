package domain

// VoterId identifies a responder. Votes are a set, not a count, so a voter
// can be counted at most once per option.
type VoterId string

// OptionKey is assigned once when an option is created and never reused after
// deletion. Stable keys are what make vote preservation on edit possible.
type OptionKey string

type PollOption struct {
	Text  string           `bson:"text" json:"text"`
	Votes map[VoterId]bool `bson:"votes" json:"votes"`
}

// Poll is embedded 1:1 in an Announcement. A nil *Poll means "no poll";
// presence is the tag, there is no enabled flag.
type Poll struct {
	Question       string                   `bson:"question" json:"question"`
	AllowMulti     bool                     `bson:"allow_multi" json:"allow_multi"`
	AllowAddOption bool                     `bson:"allow_add_option" json:"allow_add_option"`
	Options        map[OptionKey]PollOption `bson:"options" json:"options"`
}

// PollDraft is the edited state of a poll as submitted by an admin: option
// text only, no vote data. Keys kept from the persisted poll mean "this
// option survives"; keys absent mean "this option is removed".
type PollDraft struct {
	Question       string
	AllowMulti     bool
	AllowAddOption bool
	Options        map[OptionKey]string
}
