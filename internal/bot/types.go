package bot

// Event is one inbound platform event, discriminated on Type.
type Event struct {
	Type       string    `json:"type"`
	ReplyToken string    `json:"replyToken,omitempty"`
	Source     *Source   `json:"source,omitempty"`
	Message    *Message  `json:"message,omitempty"`
	Postback   *Postback `json:"postback,omitempty"`
	Workflow   *Workflow `json:"workflow,omitempty"`
}

const (
	eventTypeMessage  = "message"
	eventTypePostback = "postback"
	eventTypeWorkflow = "workflow"
)

// Source identifies the sender of an event.
type Source struct {
	UserID string `json:"userId"`
}

// Message is the payload of a free-text message event.
type Message struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Postback is the payload of a button-press event.
type Postback struct {
	Data string `json:"data"`
	Text string `json:"text,omitempty"`
}

// Workflow is the payload of a workflow lifecycle webhook event. It carries
// recipient user IDs instead of a reply token; notifications are pushed.
type Workflow struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	EventType  string   `json:"eventType"`
	Recipients []string `json:"recipients"`
}
