package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/intent"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/services"
)

func (r *Router) buildHandlers() map[intent.Intent]handler {
	return map[intent.Intent]handler{
		intent.VisionOn:           r.visionOn,
		intent.DescribeVision:     r.describeVision,
		intent.VisionOff:          r.visionOff,
		intent.StopAllDetection:   r.stopAll,
		intent.EmotionStart:       r.emotionStart,
		intent.EmotionStop:        r.emotionStop,
		intent.EmotionQuery:       r.emotionQuery,
		intent.ProModeOff:         r.proModeToggle(false),
		intent.ProModeOn:          r.proModeToggle(true),
		intent.Greeting:           fixed(msgGreeting),
		intent.Translate:          r.translate,
		intent.SearchWeb:          r.searchWeb,
		intent.WhoAreYou:          fixed(msgWhoAreYou),
		intent.Creator:            fixed(msgCreator),
		intent.Joke:               r.joke,
		intent.Thanks:             fixed(msgThanks),
		intent.HowAreYou:          fixed(msgHowAreYou),
		intent.Shutdown:           r.shutdownHandler,
		intent.Acknowledge:        fixed(msgAcknowledge),
		intent.News:               r.news,
		intent.PlayOnYoutube:      r.playOnYoutube,
		intent.RoomTemperature:    fixed(msgRoomTemp),
		intent.BookTickets:        r.bookTickets,
		intent.IntroduceTo:        r.introduce,
		intent.RouteBetween:       r.route,
		intent.TimeOrDate:         r.timeOrDate,
		intent.Weather:            r.weather,
		intent.EncyclopediaLookup: r.lookup,
	}
}

func fixed(text string) handler {
	return func(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
		ex.say(ctx, text)
	}
}

// cameraFailure answers a failed camera start.
func cameraFailure(err error) string {
	var cerr *perception.CameraError
	if errors.As(err, &cerr) {
		return cerr.Message()
	}
	return perception.ClassifyCameraError(err).Message()
}

func (r *Router) visionOn(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception == nil {
		ex.say(ctx, cameraFailure(perception.ErrNoCamera))
		return
	}
	started, err := r.deps.Perception.StartCamera(ctx)
	switch {
	case err != nil:
		ex.say(ctx, cameraFailure(err))
	case !started:
		ex.say(ctx, msgCameraAlreadyActive)
	default:
		ex.say(ctx, msgCameraStarted)
	}
}

func (r *Router) describeVision(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	var dets []perception.Detection
	if r.deps.Perception != nil {
		dets = r.deps.Perception.CurrentDetections()
	}
	if len(dets) == 0 {
		ex.say(ctx, msgNoObjects)
		return
	}
	ex.say(ctx, fmt.Sprintf("I can see the following objects: %s.", strings.Join(perception.Labels(dets), ", ")))
}

func (r *Router) visionOff(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception != nil {
		emotionWasActive := r.emotionActive()
		r.deps.Perception.StopCamera()
		if emotionWasActive {
			ex.say(ctx, msgEmotionStopped)
		}
	}
	ex.say(ctx, msgCameraStopped)
}

func (r *Router) stopAll(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception != nil {
		r.deps.Perception.StopAll()
	}
	ex.say(ctx, msgAllStopped)
}

func (r *Router) emotionStart(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception == nil {
		ex.say(ctx, cameraFailure(perception.ErrNoCamera))
		return
	}
	if r.emotionActive() {
		ex.say(ctx, msgEmotionAlreadyActive)
		return
	}
	if !r.webcamActive() {
		ex.say(ctx, msgEmotionStartingCam)
	}

	res, err := r.deps.Perception.StartEmotionDetection(ctx)
	if err != nil {
		var cerr *perception.CameraError
		if errors.As(err, &cerr) {
			ex.say(ctx, cerr.Message())
			return
		}
		r.logger.Warn("emotion detection start failed", "error", err)
		ex.say(ctx, msgEmotionStartFailed)
		return
	}
	if res.AlreadyActive {
		ex.say(ctx, msgEmotionAlreadyActive)
		return
	}
	if res.CameraStarted {
		ex.say(ctx, msgCameraStarted)
	}
	ex.say(ctx, msgEmotionStarted)
}

func (r *Router) emotionStop(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception != nil {
		r.deps.Perception.StopEmotionDetection()
	}
	ex.say(ctx, msgEmotionStopped)
}

func (r *Router) emotionQuery(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.Perception == nil || !r.emotionActive() {
		ex.say(ctx, msgEmotionInactive)
		return
	}
	st := r.deps.Perception.CurrentEmotion()
	if !st.FacePresent() {
		ex.say(ctx, msgNoFace)
		return
	}
	ex.say(ctx, emotionResponse(st))
}

func (r *Router) proModeToggle(on bool) handler {
	return func(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
		r.setProMode(ctx, ex, on)
	}
}

func (r *Router) setProMode(ctx context.Context, ex *exchange, on bool) {
	if r.deps.Session == nil {
		ex.say(ctx, msgProModeInactive)
		return
	}
	msg, err := r.deps.Session.SetProMode(ctx, on)
	if err != nil {
		// The flag changed in memory; only persistence failed.
		r.logger.Warn("pro mode not persisted", "error", err)
	}
	ex.say(ctx, msg)
}

func (r *Router) translate(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	lang := pc.Param(intent.ParamLanguageName)
	if pc.Malformed {
		if lang != "" {
			ex.say(ctx, fmt.Sprintf("Sorry, I don't support translation to %s yet.", lang))
			return
		}
		ex.say(ctx, msgTranslateUsage)
		return
	}
	if r.deps.Translator == nil {
		ex.say(ctx, msgTranslateFailed)
		return
	}

	text := pc.Param(intent.ParamSourceText)
	out, err := r.deps.Translator.Translate(ctx, text, pc.Param(intent.ParamTargetLanguage))
	if err != nil {
		r.logger.Warn("translation failed", "error", err, "retryable", services.IsRetryable(err))
		ex.say(ctx, msgTranslateFailed)
		return
	}
	ex.say(ctx, fmt.Sprintf("In %s, \"%s\" is \"%s\"", lang, text, out))
}

func (r *Router) searchWeb(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	if pc.Malformed {
		ex.say(ctx, msgSearchEmpty)
		return
	}
	q := pc.Param(intent.ParamQuery)
	ex.say(ctx, fmt.Sprintf("Searching Google for \"%s\".", q))
	ex.say(ctx, msgSearchOpening)
	ex.open(ctx, googleSearchURL+escape(q))
}

func (r *Router) joke(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	ex.say(ctx, Jokes[r.intN(len(Jokes))])
}

func (r *Router) shutdownHandler(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	r.shutdown.Store(true)
	ex.say(ctx, msgShutdown)

	if d := r.config.ShutdownDelay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	// The UI is hidden even if the request context ended during the delay.
	if err := r.deps.Actions.Hide(context.WithoutCancel(ctx)); err != nil {
		r.logger.Warn("hide failed", "error", err)
	}
	r.logger.Info("assistant shut down")
}

func (r *Router) news(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	if r.deps.News == nil {
		ex.say(ctx, msgNewsFailed)
		return
	}
	title, err := r.deps.News.Latest(ctx)
	switch {
	case errors.Is(err, services.ErrNotFound):
		ex.say(ctx, msgNewsEmpty)
	case err != nil:
		r.logger.Warn("news failed", "error", err)
		ex.say(ctx, msgNewsFailed)
	default:
		ex.say(ctx, "Here is the latest news: "+title)
	}
}

func (r *Router) playOnYoutube(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	if pc.Malformed {
		ex.say(ctx, msgPlayEmpty)
		return
	}
	q := pc.Param(intent.ParamQuery)
	ex.say(ctx, fmt.Sprintf("Searching and playing \"%s\" directly on YouTube.", q))
	ex.say(ctx, msgPlayGoodbye)
	ex.open(ctx, youtubeSearchURL+escape(q)+"&btnI")
}

func (r *Router) bookTickets(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	mode := pc.Param(intent.ParamTicketMode)
	site, ok := ticketSites[mode]
	if !ok {
		ex.say(ctx, msgFallback)
		return
	}
	ex.say(ctx, fmt.Sprintf("Opened %s ticket booking website...", mode))
	ex.open(ctx, site)
}

func (r *Router) introduce(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	if pc.Malformed {
		ex.say(ctx, msgIntroduceEmpty)
		return
	}
	ex.say(ctx, fmt.Sprintf("Hello %s, I am Marvin, your virtual agent. It was a pleasure meeting you!", pc.Param(intent.ParamName)))
}

func (r *Router) route(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	if pc.Malformed {
		ex.say(ctx, msgRouteUsage)
		return
	}
	from, to := pc.Param(intent.ParamFrom), pc.Param(intent.ParamTo)
	ex.say(ctx, fmt.Sprintf("Opening the route from %s to %s in Google Maps...", from, to))
	ex.open(ctx, mapsRouteURL+"&origin="+escape(from)+"&destination="+escape(to))
}

func (r *Router) timeOrDate(ctx context.Context, ex *exchange, _ *intent.ParsedCommand) {
	now := r.config.Now()
	ex.say(ctx, fmt.Sprintf("The current time is %s and the date is %s.", now.Format("3:04:05 PM"), now.Format("1/2/2006")))
}

func (r *Router) weather(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	loc := pc.Param(intent.ParamLocation)
	if loc == "" {
		loc = r.config.WeatherLocation
	}
	if r.deps.Weather == nil {
		ex.say(ctx, weatherFailure(loc))
		return
	}

	rep, err := r.deps.Weather.Current(ctx, loc)
	if err != nil {
		r.logger.Warn("weather failed", "location", loc, "error", err)
		ex.say(ctx, weatherFailure(loc))
		return
	}
	ex.say(ctx, fmt.Sprintf("In %s, it's currently %s with a temperature of %s and %s wind.",
		loc, strings.ToLower(rep.Condition), rep.Temperature, rep.Wind))
}

func weatherFailure(loc string) string {
	return fmt.Sprintf("I couldn't get the weather for %s. Please try again later.", loc)
}

func (r *Router) lookup(ctx context.Context, ex *exchange, pc *intent.ParsedCommand) {
	topic := pc.Param(intent.ParamTopic)
	if r.deps.Encyclopedia == nil || topic == "" {
		ex.say(ctx, msgNoAnswer)
		return
	}
	extract, err := r.deps.Encyclopedia.Lookup(ctx, topic)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			r.logger.Warn("encyclopedia lookup failed", "topic", topic, "error", err)
		}
		ex.say(ctx, msgNoAnswer)
		return
	}
	ex.say(ctx, extract)
}

func (r *Router) emotionActive() bool {
	return r.deps.Session != nil && r.deps.Session.EmotionActive()
}

func (r *Router) webcamActive() bool {
	return r.deps.Session != nil && r.deps.Session.WebcamActive()
}

// escape encodes s as a URI component, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
