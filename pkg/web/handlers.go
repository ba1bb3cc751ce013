package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/intent"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/router"
)

var errUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "backend not attached")

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Text string `json:"text"`
}

// CommandResponse describes a handled command.
type CommandResponse struct {
	ID        string   `json:"id,omitempty"`
	Intent    string   `json:"intent,omitempty"`
	Delegated bool     `json:"delegated"`
	Responses []string `json:"responses"`
	Response  string   `json:"response"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Message string `json:"message"`
}

// ProModeRequest is the body of POST /api/promode.
type ProModeRequest struct {
	On bool `json:"on"`
}

// CameraResponse reports a camera transition.
type CameraResponse struct {
	Changed bool   `json:"changed"`
	Status  Status `json:"status"`
}

// CameraErrorResponse is returned when the camera cannot be opened.
type CameraErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// commandError maps router errors to HTTP errors.
func commandError(err error) error {
	switch {
	case errors.Is(err, router.ErrEmptyInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, router.ErrShutdown):
		return fiber.NewError(fiber.StatusGone, err.Error())
	}
	return err
}

func newCommandResponse(res router.Result) CommandResponse {
	out := CommandResponse{
		Delegated: res.Delegated,
		Responses: res.Responses,
		Response:  res.Last(),
	}
	if out.Responses == nil {
		out.Responses = []string{}
	}
	if res.Command != nil {
		out.ID = res.Command.ID
		out.Intent = res.Command.Intent.String()
	} else if res.Delegated {
		out.Intent = intent.Fallback.String()
	}
	return out
}

// handleCommand classifies and dispatches one command.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	cmds := s.backendSnapshot().Commands
	if cmds == nil {
		return errUnavailable
	}

	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return commandError(router.ErrEmptyInput)
	}

	res, err := cmds.Handle(c.UserContext(), req.Text)
	if err != nil {
		return commandError(err)
	}
	return c.JSON(newCommandResponse(res))
}

// handleAsk sends a message straight to the language model.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	cmds := s.backendSnapshot().Commands
	if cmds == nil {
		return errUnavailable
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	reply, err := cmds.Ask(c.UserContext(), req.Message)
	if err != nil {
		return commandError(err)
	}
	return c.JSON(fiber.Map{"response": reply})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

func (s *Server) handleConversation(c *fiber.Ctx) error {
	return c.JSON(s.conversation.Entries())
}

// handleDetections returns the persisted detection history.
func (s *Server) handleDetections(c *fiber.Ctx) error {
	p := s.backendSnapshot().Perception
	if p == nil {
		return errUnavailable
	}
	entries, err := p.DetectionLog(c.UserContext())
	if err != nil {
		return err
	}
	if entries == nil {
		return c.JSON([]any{})
	}
	return c.JSON(entries)
}

func (s *Server) handleProMode(c *fiber.Ctx) error {
	cmds := s.backendSnapshot().Commands
	if cmds == nil {
		return errUnavailable
	}

	var req ProModeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	msg, err := cmds.SetProMode(c.UserContext(), req.On)
	if err != nil {
		return commandError(err)
	}
	return c.JSON(fiber.Map{"message": msg, "proMode": req.On})
}

func cameraError(c *fiber.Ctx, err error) error {
	var cerr *perception.CameraError
	if !errors.As(err, &cerr) {
		cerr = perception.ClassifyCameraError(err)
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(CameraErrorResponse{
		Error:  cerr.Message(),
		Reason: cerr.Reason.String(),
	})
}

func (s *Server) handleCameraStart(c *fiber.Ctx) error {
	p := s.backendSnapshot().Perception
	if p == nil {
		return errUnavailable
	}
	started, err := p.StartCamera(c.UserContext())
	if err != nil {
		return cameraError(c, err)
	}
	return c.JSON(CameraResponse{Changed: started, Status: s.Status()})
}

func (s *Server) handleCameraStop(c *fiber.Ctx) error {
	p := s.backendSnapshot().Perception
	if p == nil {
		return errUnavailable
	}
	stopped := p.StopCamera()
	return c.JSON(CameraResponse{Changed: stopped, Status: s.Status()})
}

func (s *Server) handleEmotionStart(c *fiber.Ctx) error {
	p := s.backendSnapshot().Perception
	if p == nil {
		return errUnavailable
	}
	res, err := p.StartEmotionDetection(c.UserContext())
	if err != nil {
		return cameraError(c, err)
	}
	return c.JSON(CameraResponse{Changed: !res.AlreadyActive, Status: s.Status()})
}

func (s *Server) handleEmotionStop(c *fiber.Ctx) error {
	p := s.backendSnapshot().Perception
	if p == nil {
		return errUnavailable
	}
	stopped := p.StopEmotionDetection()
	return c.JSON(CameraResponse{Changed: stopped, Status: s.Status()})
}
