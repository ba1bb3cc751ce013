package web

import (
	"context"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/session"
)

// Action kinds pushed to /ws/actions.
const (
	ActionOpenURL = "open_url"
	ActionHide    = "hide"
)

// Action is a UI side effect the browser performs.
type Action struct {
	Kind string `json:"kind"`
	URL  string `json:"url,omitempty"`
}

// DetectionView is a detection with its dashboard label.
type DetectionView struct {
	perception.Detection
	Display string `json:"display"`
}

// Status is the dashboard state pushed to /ws/status.
type Status struct {
	session.Flags
	ShutDown        bool                    `json:"shutDown"`
	ListeningStatus string                  `json:"listeningStatus,omitempty"`
	Emotion         perception.EmotionState `json:"emotion"`
	EmotionColor    string                  `json:"emotionColor"`
	Detections      []DetectionView         `json:"detections"`
	Overlay         *perception.Overlay     `json:"overlay,omitempty"`
}

// ShowUser records a user entry.
func (s *Server) ShowUser(text string) {
	s.addEntry(RoleUser, text)
}

// ShowResponse records an assistant entry.
func (s *Server) ShowResponse(text string) {
	s.addEntry(RoleMarvin, text)
}

func (s *Server) addEntry(role, text string) {
	e := s.conversation.Add(role, text)
	if err := s.conversationHub.Publish(TypeConversation, e); err != nil {
		s.logger.Warn("publish conversation entry", "error", err)
	}
}

// OpenURL asks connected browsers to navigate to url.
func (s *Server) OpenURL(_ context.Context, url string) error {
	s.logger.Info("open url", "url", url)
	return s.actionHub.Publish(TypeAction, Action{Kind: ActionOpenURL, URL: url})
}

// Hide asks connected browsers to hide the assistant.
func (s *Server) Hide(context.Context) error {
	s.hidden.Store(true)
	return s.actionHub.Publish(TypeAction, Action{Kind: ActionHide})
}

// Hidden reports whether the assistant was hidden.
func (s *Server) Hidden() bool {
	return s.hidden.Load()
}

// ShowListening publishes the listening status line.
func (s *Server) ShowListening(text string) {
	s.listeningMu.Lock()
	s.listening = text
	s.listeningMu.Unlock()
	if err := s.statusHub.Publish(TypeListening, text); err != nil {
		s.logger.Warn("publish listening status", "error", err)
	}
}

// Status builds the current dashboard state.
func (s *Server) Status() Status {
	b := s.backendSnapshot()

	var st Status
	if b.Session != nil {
		st.Flags = b.Session.Flags()
	}
	if b.Commands != nil {
		st.ShutDown = b.Commands.ShutDown()
	}
	if st.Listening {
		s.listeningMu.RLock()
		st.ListeningStatus = s.listening
		s.listeningMu.RUnlock()
	}

	st.Detections = []DetectionView{}
	if b.Perception != nil {
		snap := b.Perception.Snapshot()
		st.WebcamActive = snap.WebcamActive
		st.EmotionActive = snap.EmotionActive
		st.Emotion = snap.Emotion
		st.Overlay = snap.Overlay
		for _, d := range snap.Detections {
			st.Detections = append(st.Detections, DetectionView{Detection: d, Display: d.String()})
		}
	}
	st.EmotionColor = perception.Color(st.Emotion.Label)
	return st
}

// PublishStatus pushes the current state to /ws/status.
func (s *Server) PublishStatus() {
	if err := s.statusHub.Publish(TypeStatus, s.Status()); err != nil {
		s.logger.Warn("publish status", "error", err)
	}
}
