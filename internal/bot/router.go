// Package bot routes inbound chat events for one tenant: postbacks get an
// acknowledgment, message text runs through an ordered slash-command table,
// workflow webhooks fan out push notifications to their recipients.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/friendsofgo/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warunyoud/botv2Test/internal/eko"
	"github.com/warunyoud/botv2Test/internal/quickreply"
	"github.com/warunyoud/botv2Test/internal/response"
)

// PlatformClient is the slice of the Eko client the router needs.
type PlatformClient interface {
	Reply(ctx context.Context, replyToken string, segments []eko.Segment) error
	Push(ctx context.Context, groupID, threadID string, segments []eko.Segment) error
	SearchWorkflows(ctx context.Context, userID, keyword string) []eko.Workflow
	SearchWorkflowTemplates(ctx context.Context, keyword string) []eko.WorkflowTemplate
	SearchLibrary(ctx context.Context, userID, keyword string) []eko.LibraryItem
	GetUserInfo(ctx context.Context, groupID, userID string) map[string]any
	GetGroupThread(ctx context.Context, userID string) eko.GroupThread
}

// Router dispatches the events of one tenant.
type Router struct {
	client       PlatformClient
	responseFile string
	log          zerolog.Logger
}

// NewRouter creates a router for one tenant.
func NewRouter(client PlatformClient, responseFile string, logger zerolog.Logger) *Router {
	return &Router{
		client:       client,
		responseFile: responseFile,
		log:          logger,
	}
}

type command struct {
	pattern *regexp.Regexp
	handle  func(r *Router, ctx context.Context, evt *Event, args []string) error
}

// commands is evaluated in order; the first matching pattern wins. Keyword
// commands capture the rest of the string after the command token, so
// keywords may contain whitespace.
var commands = []command{
	{regexp.MustCompile(`^/send (\S+) (\S+) (\S+)$`), (*Router).handleSend},
	{regexp.MustCompile(`^/searchWorkflow (.+)$`), (*Router).handleSearchWorkflow},
	{regexp.MustCompile(`^/searchWorkflowTemplate (.+)$`), (*Router).handleSearchWorkflowTemplate},
	{regexp.MustCompile(`^/searchLibrary (.+)$`), (*Router).handleSearchLibrary},
	{regexp.MustCompile(`^/searchUser (\S+) (\S+)$`), (*Router).handleSearchUser},
}

// HandleEvents dispatches every event of a batch in its own goroutine and
// returns immediately. There is no join and no backpressure; a slow remote
// call only delays its own event's reply.
func (r *Router) HandleEvents(ctx context.Context, events []Event) {
	for i := range events {
		evt := events[i]
		log := r.log.With().Str("event_id", uuid.New().String()).Str("event_type", evt.Type).Logger()
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Msg("panic while processing event")
				}
			}()
			if err := r.handleEvent(log.WithContext(ctx), &evt); err != nil {
				log.Error().Err(err).Msg("error processing event")
			}
		}()
	}
}

func (r *Router) handleEvent(ctx context.Context, evt *Event) error {
	switch evt.Type {
	case eventTypePostback:
		return r.handlePostback(ctx, evt)
	case eventTypeMessage:
		return r.handleMessage(ctx, evt)
	case eventTypeWorkflow:
		return r.handleWorkflow(ctx, evt)
	default:
		zerolog.Ctx(ctx).Debug().Str("type", evt.Type).Msg("ignoring event of unknown type")
		return nil
	}
}

func (r *Router) handlePostback(ctx context.Context, evt *Event) error {
	if evt.Postback == nil {
		return errors.New("postback event without postback payload")
	}
	ack := evt.Postback.Text
	if ack == "" {
		ack = "Postback received!"
	}
	return r.client.Reply(ctx, evt.ReplyToken, []eko.Segment{
		eko.TextSegment(ack),
		eko.TextSegment("data=" + evt.Postback.Data),
	})
}

func (r *Router) handleMessage(ctx context.Context, evt *Event) error {
	if evt.Message == nil {
		return errors.New("message event without message payload")
	}
	text := evt.Message.Text
	for _, cmd := range commands {
		if m := cmd.pattern.FindStringSubmatch(text); m != nil {
			return cmd.handle(r, ctx, evt, m[1:])
		}
	}
	segments, err := r.cannedReply(text)
	if err != nil {
		return err
	}
	return r.client.Reply(ctx, evt.ReplyToken, segments)
}

// cannedReply looks the trigger up in the tenant's response file, falling
// back to the "not recognized" segment. The file is read fresh on every
// event so edits are visible without a restart; a read or parse failure
// drops the event — nothing is sent.
func (r *Router) cannedReply(trigger string) ([]eko.Segment, error) {
	m, err := response.Load(r.responseFile)
	if err != nil {
		return nil, errors.Wrapf(err, "response file %s", r.responseFile)
	}
	if segments, ok := m.Lookup(trigger); ok {
		return segments, nil
	}
	return []eko.Segment{eko.TextSegment(trigger + " is not recognized")}, nil
}

func (r *Router) handleSend(ctx context.Context, evt *Event, args []string) error {
	trigger, groupID, threadID := args[0], args[1], args[2]
	segments, err := r.cannedReply(trigger)
	if err != nil {
		return err
	}
	return r.client.Push(ctx, groupID, threadID, segments)
}

func (r *Router) handleSearchWorkflow(ctx context.Context, evt *Event, args []string) error {
	workflows := r.client.SearchWorkflows(ctx, r.senderID(evt), args[0])
	return r.client.Reply(ctx, evt.ReplyToken, quickreply.Workflows(workflows))
}

func (r *Router) handleSearchWorkflowTemplate(ctx context.Context, evt *Event, args []string) error {
	templates := r.client.SearchWorkflowTemplates(ctx, args[0])
	return r.client.Reply(ctx, evt.ReplyToken, quickreply.WorkflowTemplates(templates))
}

func (r *Router) handleSearchLibrary(ctx context.Context, evt *Event, args []string) error {
	items := r.client.SearchLibrary(ctx, r.senderID(evt), args[0])
	return r.client.Reply(ctx, evt.ReplyToken, quickreply.Library(items))
}

func (r *Router) handleSearchUser(ctx context.Context, evt *Event, args []string) error {
	groupID, userID := args[0], args[1]
	user := r.client.GetUserInfo(ctx, groupID, userID)
	text := "User not found"
	if user != nil {
		serialized, err := json.Marshal(user)
		if err != nil {
			return errors.Wrap(err, "failed to serialize user info")
		}
		text = "User=" + string(serialized)
	}
	return r.client.Reply(ctx, evt.ReplyToken, []eko.Segment{eko.TextSegment(text)})
}

// handleWorkflow pushes a notification to every recipient that resolves to
// a group thread. Unresolvable recipients are skipped silently.
func (r *Router) handleWorkflow(ctx context.Context, evt *Event) error {
	if evt.Workflow == nil {
		return errors.New("workflow event without workflow payload")
	}
	wf := evt.Workflow
	text := fmt.Sprintf("Workflow %s: %s (%s)", wf.EventType, wf.Title, wf.ID)
	for _, recipient := range wf.Recipients {
		thread := r.client.GetGroupThread(ctx, recipient)
		if thread == (eko.GroupThread{}) {
			zerolog.Ctx(ctx).Debug().Str("recipient", recipient).Msg("recipient has no group thread; skipping")
			continue
		}
		if err := r.client.Push(ctx, thread.GroupID, thread.ThreadID, []eko.Segment{eko.TextSegment(text)}); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("recipient", recipient).Msg("failed to push workflow notification")
		}
	}
	return nil
}

func (r *Router) senderID(evt *Event) string {
	if evt.Source == nil {
		return ""
	}
	return evt.Source.UserID
}
