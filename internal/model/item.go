package model

// Item is an inventory item with its tags, properties, and attachments.
// The JSON shape is wire-stable: timestamps are unix seconds and match the
// storage representation exactly, which keeps sync checkpoint comparisons
// free of rounding.
type Item struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	Image              *string           `json:"image"`
	Location           int64             `json:"location"`
	Tags               []int64           `json:"tags"`
	Amount             int64             `json:"amount"`
	PropertiesInternal []Property        `json:"propertiesInternal"`
	PropertiesCustom   []Property        `json:"propertiesCustom"`
	Attachments        map[string]string `json:"attachments"`
	LastEdited         int64             `json:"lastEdited"`
	Created            int64             `json:"created"`
}

// Property is a single name/value pair attached to an item. Properties keep
// their insertion order within each list.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
