// Package intent classifies free-form command text into a fixed set of intents.
//
// Classification is an ordered rule table evaluated first-match-wins against
// the lower-cased input. Overlapping triggers are resolved by declaration
// order, so the order of Rules is part of the observable behavior.
package intent

import (
	"github.com/google/uuid"
)

// Intent identifies the purpose of an input utterance.
type Intent int

// The closed set of intents.
const (
	Fallback Intent = iota
	VisionOn
	DescribeVision
	VisionOff
	StopAllDetection
	EmotionStart
	EmotionStop
	EmotionQuery
	ProModeOff
	ProModeOn
	Greeting
	Translate
	SearchWeb
	WhoAreYou
	Creator
	Joke
	Thanks
	HowAreYou
	Shutdown
	Acknowledge
	News
	PlayOnYoutube
	RoomTemperature
	BookTickets
	IntroduceTo
	RouteBetween
	TimeOrDate
	Weather
	EncyclopediaLookup
)

var intentNames = map[Intent]string{
	Fallback:           "Fallback",
	VisionOn:           "VisionOn",
	DescribeVision:     "DescribeVision",
	VisionOff:          "VisionOff",
	StopAllDetection:   "StopAllDetection",
	EmotionStart:       "EmotionStart",
	EmotionStop:        "EmotionStop",
	EmotionQuery:       "EmotionQuery",
	ProModeOff:         "ProModeOff",
	ProModeOn:          "ProModeOn",
	Greeting:           "Greeting",
	Translate:          "Translate",
	SearchWeb:          "SearchWeb",
	WhoAreYou:          "WhoAreYou",
	Creator:            "Creator",
	Joke:               "Joke",
	Thanks:             "Thanks",
	HowAreYou:          "HowAreYou",
	Shutdown:           "Shutdown",
	Acknowledge:        "Acknowledge",
	News:               "News",
	PlayOnYoutube:      "PlayOnYoutube",
	RoomTemperature:    "RoomTemperature",
	BookTickets:        "BookTickets",
	IntroduceTo:        "IntroduceTo",
	RouteBetween:       "RouteBetween",
	TimeOrDate:         "TimeOrDate",
	Weather:            "Weather",
	EncyclopediaLookup: "EncyclopediaLookup",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes the intent by name.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Parameter names used in ParsedCommand.Params.
const (
	ParamQuery          = "query"
	ParamFrom           = "from"
	ParamTo             = "to"
	ParamName           = "name"
	ParamTargetLanguage = "targetLanguage"
	ParamLanguageName   = "languageName"
	ParamSourceText     = "sourceText"
	ParamTicketMode     = "ticketMode"
	ParamLocation       = "location"
	ParamTopic          = "topic"
)

// ParsedCommand is the result of classifying one input.
type ParsedCommand struct {
	ID     string            `json:"id"`
	Intent Intent            `json:"intent"`
	Raw    string            `json:"raw"`
	Params map[string]string `json:"params,omitempty"`

	// Malformed is set when the intent matched but its parameters could not be
	// extracted. Handlers answer with a clarification instead of acting.
	Malformed bool `json:"malformed,omitempty"`
}

// Param returns the named parameter or "".
func (p *ParsedCommand) Param(name string) string {
	if p.Params == nil {
		return ""
	}
	return p.Params[name]
}

func (p *ParsedCommand) set(name, value string) {
	if p.Params == nil {
		p.Params = make(map[string]string)
	}
	p.Params[name] = value
}

func newCommand(raw string) *ParsedCommand {
	return &ParsedCommand{
		ID:     uuid.NewString(),
		Intent: Fallback,
		Raw:    raw,
	}
}
