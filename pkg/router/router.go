// Package router turns command text into assistant behavior.
//
// Every input is classified by pkg/intent and handled by exactly one
// handler. Each handler emits one or more responses; every response is
// displayed and then spoken to completion before the next step runs, so
// navigation actions always follow the words that announce them.
package router

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/intent"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/llm"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/services"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/speech"
)

// Errors returned by Handle.
var (
	ErrEmptyInput = errors.New("router: empty input")
	ErrShutdown   = errors.New("router: assistant has shut down")
)

// Perception controls the camera loops.
type Perception interface {
	StartCamera(ctx context.Context) (bool, error)
	StopCamera() bool
	StartEmotionDetection(ctx context.Context) (perception.EmotionStart, error)
	StopEmotionDetection() bool
	StopAll()
	CurrentDetections() []perception.Detection
	CurrentEmotion() perception.EmotionState
}

// Encyclopedia answers topic lookups.
type Encyclopedia interface {
	Lookup(ctx context.Context, topic string) (string, error)
}

// Weather reports current conditions.
type Weather interface {
	Current(ctx context.Context, location string) (services.Report, error)
}

// News returns the top headline.
type News interface {
	Latest(ctx context.Context) (string, error)
}

// Translator translates English text to a language code.
type Translator interface {
	Translate(ctx context.Context, text, langCode string) (string, error)
}

// Actions are the UI side effects a handler may trigger.
type Actions interface {
	OpenURL(ctx context.Context, url string) error
	Hide(ctx context.Context) error
}

// Display shows conversation entries.
type Display interface {
	ShowUser(text string)
	ShowResponse(text string)
}

// Session is the mode state the router reads and toggles.
type Session interface {
	ProMode() bool
	SetProMode(ctx context.Context, on bool) (string, error)
	WebcamActive() bool
	EmotionActive() bool
}

// Deps are the collaborators of a Router. Nil services make their
// handlers answer with the service's failure response.
type Deps struct {
	Session      Session
	Perception   Perception
	Encyclopedia Encyclopedia
	Weather      Weather
	News         News
	Translator   Translator
	LLM          llm.Provider
	Display      Display
	Speaker      speech.Speaker
	Actions      Actions
}

// Result describes one handled input.
type Result struct {
	// Command is the classified input. It is nil when pro mode answered
	// before classification.
	Command *intent.ParsedCommand

	// Delegated is set when the language model produced the answer.
	Delegated bool

	// Responses are the emitted responses in order.
	Responses []string
}

// Last returns the final response.
func (r Result) Last() string {
	if len(r.Responses) == 0 {
		return ""
	}
	return r.Responses[len(r.Responses)-1]
}

// Router classifies and dispatches commands. Safe for concurrent use;
// concurrent commands proceed independently.
type Router struct {
	deps   Deps
	config *Config
	logger *slog.Logger

	handlers map[intent.Intent]handler

	rngMu sync.Mutex
	rng   *rand.Rand

	shutdown atomic.Bool
}

type handler func(ctx context.Context, ex *exchange, pc *intent.ParsedCommand)

// New creates a Router.
func New(deps Deps, opts ...Option) *Router {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Display == nil {
		deps.Display = nopDisplay{}
	}
	if deps.Speaker == nil {
		deps.Speaker = speech.NewLogSpeaker(cfg.Logger)
	}
	if deps.Actions == nil {
		deps.Actions = nopActions{}
	}

	r := &Router{
		deps:   deps,
		config: cfg,
		logger: cfg.Logger.With("component", "router"),
		rng:    cfg.Rand,
	}
	r.handlers = r.buildHandlers()
	return r
}

// Welcome displays the greeting shown when a session opens.
func (r *Router) Welcome() {
	r.deps.Display.ShowResponse(WelcomeMessage)
}

// ShutDown reports whether the shutdown command has run.
func (r *Router) ShutDown() bool {
	return r.shutdown.Load()
}

// ClassifyAndDispatch handles input and returns the final response.
func (r *Router) ClassifyAndDispatch(ctx context.Context, input string) (string, error) {
	res, err := r.Handle(ctx, input)
	if err != nil {
		return "", err
	}
	return res.Last(), nil
}

// Handle classifies input, runs its handler and returns everything emitted.
func (r *Router) Handle(ctx context.Context, input string) (Result, error) {
	if r.shutdown.Load() {
		return Result{}, ErrShutdown
	}
	cmd := strings.ToLower(strings.TrimSpace(input))
	if cmd == "" {
		return Result{}, ErrEmptyInput
	}

	r.deps.Display.ShowUser(cmd)
	ex := &exchange{r: r}

	delegated := false
	if r.proMode() && !intent.IsBasicCommand(cmd) {
		delegated = true
		if reply, ok := r.delegate(ctx, cmd); ok {
			ex.say(ctx, reply)
			return Result{Delegated: true, Responses: ex.responses}, nil
		}
	}

	pc := intent.Classify(cmd)
	log := r.logger.With("id", pc.ID, "intent", pc.Intent)
	log.Debug("classified", "params", pc.Params, "malformed", pc.Malformed)

	if pc.Intent == intent.Fallback {
		// Inputs already offered to the model above are not sent twice.
		if r.proMode() && !delegated {
			if reply, ok := r.delegate(ctx, cmd); ok {
				ex.say(ctx, reply)
				return Result{Command: pc, Delegated: true, Responses: ex.responses}, nil
			}
		}
		ex.say(ctx, msgFallback)
		return Result{Command: pc, Responses: ex.responses}, nil
	}

	h, ok := r.handlers[pc.Intent]
	if !ok {
		log.Error("no handler for intent")
		ex.say(ctx, msgFallback)
		return Result{Command: pc, Responses: ex.responses}, nil
	}
	h(ctx, ex, pc)
	return Result{Command: pc, Responses: ex.responses}, nil
}

// Ask sends message straight to the language model. Failures are answered
// with a system error that names the cause.
func (r *Router) Ask(ctx context.Context, message string) (string, error) {
	if r.shutdown.Load() {
		return "", ErrShutdown
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyInput
	}

	r.deps.Display.ShowUser(message)
	ex := &exchange{r: r}

	switch {
	case !r.proMode():
		ex.say(ctx, msgProModeInactive)
	case r.deps.LLM == nil:
		ex.say(ctx, msgSystemError+llm.ErrProviderUnavailable.Error())
	default:
		reply, err := r.deps.LLM.Complete(ctx, message)
		if err != nil {
			r.logger.Warn("language model failed", "error", err)
			ex.say(ctx, msgSystemError+llm.Detail(err))
		} else {
			ex.say(ctx, reply)
		}
	}
	return ex.last(), nil
}

// SetProMode toggles pro mode outside of a spoken command. The confirmation
// is displayed and spoken like any other response.
func (r *Router) SetProMode(ctx context.Context, on bool) (string, error) {
	if r.shutdown.Load() {
		return "", ErrShutdown
	}
	ex := &exchange{r: r}
	r.setProMode(ctx, ex, on)
	return ex.last(), nil
}

func (r *Router) proMode() bool {
	return r.deps.Session != nil && r.deps.Session.ProMode()
}

// delegate asks the language model silently; failures only log.
func (r *Router) delegate(ctx context.Context, cmd string) (string, bool) {
	if r.deps.LLM == nil {
		return "", false
	}
	reply, err := r.deps.LLM.Complete(ctx, cmd)
	if err != nil {
		r.logger.Warn("pro mode delegation failed, using basic commands", "error", err)
		return "", false
	}
	return reply, true
}

func (r *Router) intN(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.IntN(n)
}

// exchange collects the responses of one input.
type exchange struct {
	r         *Router
	responses []string
}

// say displays text and speaks it to completion.
func (ex *exchange) say(ctx context.Context, text string) {
	ex.responses = append(ex.responses, text)
	ex.r.deps.Display.ShowResponse(text)
	if err := ex.r.deps.Speaker.Speak(ctx, text); err != nil && !errors.Is(err, context.Canceled) {
		ex.r.logger.Warn("speak failed", "error", err)
	}
}

func (ex *exchange) last() string {
	if len(ex.responses) == 0 {
		return ""
	}
	return ex.responses[len(ex.responses)-1]
}

// open runs a navigation action after the preceding responses were spoken.
func (ex *exchange) open(ctx context.Context, url string) {
	if err := ex.r.deps.Actions.OpenURL(ctx, url); err != nil {
		ex.r.logger.Warn("open url failed", "url", url, "error", err)
	}
}

type nopDisplay struct{}

func (nopDisplay) ShowUser(string)     {}
func (nopDisplay) ShowResponse(string) {}

type nopActions struct{}

func (nopActions) OpenURL(context.Context, string) error { return nil }
func (nopActions) Hide(context.Context) error            { return nil }
