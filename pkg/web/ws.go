package web

import (
	"context"
	"encoding/json"

	"github.com/gofiber/websocket/v2"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/hub"
)

// handleStatusWS sends the current state, then every status change.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	s.queue(client, TypeStatus, s.Status())
	client.Run()
}

// handleConversationWS replays the log, then streams new entries.
func (s *Server) handleConversationWS(c *websocket.Conn) {
	client := hub.NewClient(s.conversationHub, c)
	s.replayConversation(client)
	client.Run()
}

// replayConversation writes the whole log to client before its pumps start.
// The log can hold more entries than the client's send buffer.
func (s *Server) replayConversation(client *hub.Client) {
	for _, e := range s.conversation.Entries() {
		data, err := hub.Encode(TypeConversation, e)
		if err != nil {
			s.logger.Warn("encode websocket message", "type", TypeConversation, "error", err)
			continue
		}
		if err := client.Write(data); err != nil {
			s.logger.Debug("conversation replay stopped", "error", err)
			return
		}
	}
}

// handleActionsWS streams navigation and hide actions.
func (s *Server) handleActionsWS(c *websocket.Conn) {
	client := hub.NewClient(s.actionHub, c)
	if s.hidden.Load() {
		s.queue(client, TypeAction, Action{Kind: ActionHide})
	}
	client.Run()
}

// handleCommandWS accepts {"text": ...} frames and answers each with a
// result or error frame. Commands on one connection run in order.
func (s *Server) handleCommandWS(c *websocket.Conn) {
	client := hub.NewClient(s.commandHub, c)
	client.OnMessage = func(client *hub.Client, data []byte) {
		var req CommandRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.queue(client, TypeError, errorMessage("invalid command frame"))
			return
		}

		cmds := s.backendSnapshot().Commands
		if cmds == nil {
			s.queue(client, TypeError, errorMessage(errUnavailable.Message))
			return
		}

		res, err := cmds.Handle(s.baseContext(), req.Text)
		if err != nil {
			s.queue(client, TypeError, errorMessage(commandError(err).Error()))
			return
		}
		s.queue(client, TypeResult, newCommandResponse(res))
	}
	client.Run()
}

func (s *Server) queue(client *hub.Client, msgType string, v any) {
	data, err := hub.Encode(msgType, v)
	if err != nil {
		s.logger.Warn("encode websocket message", "type", msgType, "error", err)
		return
	}
	if !client.Queue(data) {
		s.logger.Debug("websocket client not accepting messages", "type", msgType)
	}
}

// ErrorMessage is the payload of an error frame.
type ErrorMessage struct {
	Error string `json:"error"`
}

func errorMessage(msg string) ErrorMessage {
	return ErrorMessage{Error: msg}
}

func (s *Server) baseContext() context.Context {
	s.backendMu.RLock()
	defer s.backendMu.RUnlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}
