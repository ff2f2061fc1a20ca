package eko

// Segment is one element of an outbound message payload. Segments are kept
// schemaless so canned responses configured with richer payloads (stickers,
// quick replies, urls) pass through the bridge untouched.
type Segment map[string]any

// TextSegment builds a plain text segment.
func TextSegment(text string) Segment {
	return Segment{"type": "text", "text": text}
}

// Workflow is a workflow record returned by the workflow search API.
type Workflow struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// WorkflowTemplate is a template record returned by the template search API.
type WorkflowTemplate struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// LibraryItem is a document record returned by the library search API.
type LibraryItem struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GroupThread identifies the direct-chat thread of a user. The zero value
// means the user could not be resolved to a thread.
type GroupThread struct {
	GroupID  string `json:"gid"`
	ThreadID string `json:"tid"`
}
