package entities

// Document is a raw knowledge-base entry pulled from the object store.
type Document struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}
