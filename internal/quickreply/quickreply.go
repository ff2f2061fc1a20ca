// Package quickreply turns search results into quick-reply message payloads.
// All functions are pure transforms with no I/O.
package quickreply

import (
	"github.com/warunyoud/botv2Test/internal/eko"
)

const (
	maxLabelLen      = 20
	truncatedPortion = 17
)

// TruncateLabel shortens labels that would overflow a quick-reply button.
// Strings of 20 characters or more are cut to the first 17 plus an ellipsis;
// shorter strings pass through unchanged. Lengths are measured in runes so
// multi-byte labels are never cut mid-character.
func TruncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) >= maxLabelLen {
		return string(runes[:truncatedPortion]) + "..."
	}
	return s
}

func quickReplySegment(text string, items []eko.Segment) []eko.Segment {
	return []eko.Segment{{
		"type":       "text",
		"text":       text,
		"quickReply": eko.Segment{"items": items},
	}}
}

func postbackItem(label, data string) eko.Segment {
	return eko.Segment{
		"type": "action",
		"action": eko.Segment{
			"type":  "postback",
			"label": TruncateLabel(label),
			"data":  data,
		},
	}
}

// Workflows formats a workflow search result as a quick-reply payload.
// An empty result yields a single "no results" text segment instead of an
// empty quick-reply list.
func Workflows(workflows []eko.Workflow) []eko.Segment {
	if len(workflows) == 0 {
		return []eko.Segment{eko.TextSegment("No workflows found")}
	}
	items := make([]eko.Segment, 0, len(workflows))
	for _, wf := range workflows {
		items = append(items, postbackItem(wf.Name, "workflow="+wf.ID))
	}
	return quickReplySegment("Select a workflow", items)
}

// WorkflowTemplates formats a template search result as a quick-reply
// payload.
func WorkflowTemplates(templates []eko.WorkflowTemplate) []eko.Segment {
	if len(templates) == 0 {
		return []eko.Segment{eko.TextSegment("No workflow templates found")}
	}
	items := make([]eko.Segment, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, postbackItem(tpl.Name, "workflowTemplate="+tpl.ID))
	}
	return quickReplySegment("Select a workflow template", items)
}

// Library formats a library search result as a quick-reply payload whose
// actions open the document URL.
func Library(items []eko.LibraryItem) []eko.Segment {
	if len(items) == 0 {
		return []eko.Segment{eko.TextSegment("No library entries found")}
	}
	actions := make([]eko.Segment, 0, len(items))
	for _, item := range items {
		actions = append(actions, eko.Segment{
			"type": "action",
			"action": eko.Segment{
				"type":  "uri",
				"label": TruncateLabel(item.Title),
				"uri":   item.URL,
			},
		})
	}
	return quickReplySegment("Select a document", actions)
}
