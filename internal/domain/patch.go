package domain

// Patch is a sparse set of field-path writes, as opposed to a full-record
// overwrite. Paths use dot notation ("poll.options.opt1.text"). A path the
// patch never mentions is left untouched by the store, which is the whole
// point: applying a patch cannot clobber a sibling path.
type Patch map[string]interface{}

type tombstone struct{}

// Tombstone marks a path for deletion of its whole subtree.
var Tombstone = tombstone{}

// IsTombstone reports whether a patch value is a delete marker.
func IsTombstone(v interface{}) bool {
	_, ok := v.(tombstone)
	return ok
}
