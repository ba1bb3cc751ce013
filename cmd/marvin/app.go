package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/config"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/httpc"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/log"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/llm"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/router"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/services"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/session"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/speech"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/tts"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/vision/opencv"
)

// hooks connect the assistant to its front end.
type hooks struct {
	Display router.Display
	Actions router.Actions

	// Changed runs after any session flag or perception state change.
	Changed func()

	// NoCamera skips opening the webcam and detector.
	NoCamera bool
}

// assistant is the wired set of components shared by every command.
type assistant struct {
	logger     *slog.Logger
	store      store.Store
	session    *session.State
	perception *perception.Manager
	router     *router.Router
	speaker    speech.Speaker

	closers []func() error
}

func newAssistant(ctx context.Context, cfg config.Config, h hooks) (*assistant, error) {
	a := &assistant{logger: log.Component("marvin")}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	changed := func() {
		if h.Changed != nil {
			h.Changed()
		}
	}

	a.session = session.New(st,
		session.WithLogger(log.L()),
		session.WithOnChange(func(session.Flags) { changed() }),
	)
	if err := a.session.Load(ctx); err != nil {
		a.logger.Warn("session state not restored", "error", err)
	}

	client, err := httpc.NewProxyClient(cfg.HTTPTimeout, cfg.SocksProxy)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps, err := newServices(cfg, client)
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, err := newLLM(cfg, client)
	if err != nil {
		a.logger.Warn("pro mode unavailable", "error", err)
	} else {
		deps.LLM = provider
		a.closers = append(a.closers, provider.Close)
	}

	a.speaker, err = newSpeaker(cfg, client)
	if err != nil {
		a.Close()
		return nil, err
	}

	var camera perception.Camera
	var detector perception.Detector
	if !h.NoCamera {
		camera, detector = a.openVision(cfg)
	}
	a.perception = perception.NewManager(camera, detector, a.session,
		perception.WithDetectionLog(store.NewDetectionLog(st)),
		perception.WithOnUpdate(func(perception.Snapshot) { changed() }),
		perception.WithLogger(log.L()),
	)
	// Registered last so the loops stop before the store closes.
	a.closers = append([]func() error{a.perception.Close}, a.closers...)

	deps.Session = a.session
	deps.Perception = a.perception
	deps.Display = h.Display
	deps.Actions = h.Actions
	deps.Speaker = a.speaker

	a.router = router.New(deps,
		router.WithWeatherLocation(cfg.Services.WeatherLocation),
		router.WithLogger(log.L()),
	)
	return a, nil
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DataDir == "" {
		return store.NewMemory(), nil
	}
	st, err := store.NewBadger(store.BadgerOptions{
		Dir:    filepath.Join(cfg.DataDir, "db"),
		Logger: log.L(),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func newServices(cfg config.Config, client *http.Client) (router.Deps, error) {
	common := func(baseURL string) []services.Option {
		return []services.Option{
			services.WithBaseURL(baseURL),
			services.WithHTTPClient(client),
			services.WithTimeout(cfg.HTTPTimeout),
			services.WithLogger(log.L()),
		}
	}

	wiki, err := services.NewWikipedia(common(cfg.Services.WikipediaURL)...)
	if err != nil {
		return router.Deps{}, fmt.Errorf("wikipedia client: %w", err)
	}
	translator, err := services.NewMyMemory(common(cfg.Services.TranslateURL)...)
	if err != nil {
		return router.Deps{}, fmt.Errorf("translation client: %w", err)
	}
	news, err := services.NewNews(common(cfg.Services.NewsURL),
		services.WithAPIKey(cfg.Services.NewsAPIKey),
		services.WithRSS(cfg.Services.RSSURL, cfg.Services.RSSProxyURL),
	)
	if err != nil {
		return router.Deps{}, fmt.Errorf("news client: %w", err)
	}

	return router.Deps{
		Encyclopedia: wiki,
		Weather:      services.NewWttr(common(cfg.Services.WeatherURL)...),
		News:         news,
		Translator:   translator,
	}, nil
}

// newLLM builds the pro mode provider. In proxy mode a configured API key
// adds a direct fallback.
func newLLM(cfg config.Config, client *http.Client) (llm.Provider, error) {
	common := []llm.Option{
		llm.WithHTTPClient(client),
		llm.WithModel(cfg.LLM.Model),
		llm.WithTimeout(cfg.HTTPTimeout),
		llm.WithLogger(log.L()),
	}
	direct := func() (llm.Provider, error) {
		return llm.NewOpenAI(append(common, llm.WithURL(cfg.LLM.BaseURL), llm.WithAPIKey(cfg.LLM.APIKey))...)
	}

	var providers []llm.Provider
	switch cfg.LLM.Mode {
	case "direct":
		p, err := direct()
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	default:
		p, err := llm.NewProxy(append(common, llm.WithURL(cfg.LLM.ProxyURL))...)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
		if cfg.LLM.APIKey != "" {
			if fallback, err := direct(); err == nil {
				providers = append(providers, fallback)
			}
		}
	}
	return llm.NewChainWithLogger(log.L(), providers...)
}

func newSpeaker(cfg config.Config, client *http.Client) (speech.Speaker, error) {
	if cfg.TTS.Provider != "openai" {
		return speech.NewLogSpeaker(log.L()), nil
	}
	provider, err := tts.NewOpenAI(
		tts.WithAPIKey(cfg.TTS.APIKey),
		tts.WithVoice(cfg.TTS.Voice),
		tts.WithHTTPClient(client),
		tts.WithLogger(log.L()),
	)
	if err != nil {
		return nil, fmt.Errorf("speech output: %w", err)
	}
	return speech.NewTTSSpeaker(provider, speech.NewBeepPlayer(), log.L()), nil
}

// openVision returns the webcam and detector. Failures leave the camera
// unavailable; commands then answer with the camera error.
func (a *assistant) openVision(cfg config.Config) (perception.Camera, perception.Detector) {
	capture := opencv.DefaultCaptureConfig()
	capture.Device = cfg.Camera.Device
	capture.Width = cfg.Camera.Width
	capture.Height = cfg.Camera.Height

	camera, err := opencv.NewWebcam(capture, log.L())
	if err != nil {
		a.logger.Warn("camera disabled", "error", err)
		return nil, nil
	}

	yolo := opencv.DefaultYOLOConfig()
	yolo.ModelPath = cfg.Camera.ModelPath
	detector, err := opencv.NewYOLO(yolo, log.L())
	if err != nil {
		a.logger.Warn("object detection disabled", "error", err)
		return camera, nil
	}
	a.closers = append(a.closers, detector.Close)
	return camera, detector
}

// Close releases every component in order.
func (a *assistant) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
