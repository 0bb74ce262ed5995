package model

// Tag is a label items can reference. A tag cannot be deleted while any item
// still references it.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color int64  `json:"color"`
	Icon  *int64 `json:"icon"`
}
