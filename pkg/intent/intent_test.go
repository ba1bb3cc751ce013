package intent

import (
	"testing"
)

func TestClassifyOnePhrasePerIntent(t *testing.T) {
	tests := []struct {
		input string
		want  Intent
	}{
		{"turn on vision", VisionOn},
		{"what do you see", DescribeVision},
		{"stop camera", VisionOff},
		{"stop all detection", StopAllDetection},
		{"start emotion detection", EmotionStart},
		{"stop emotion detection", EmotionStop},
		{"how am i feeling", EmotionQuery},
		{"deactivate pro mode", ProModeOff},
		{"activate pro mode", ProModeOn},
		{"hello there", Greeting},
		{"translate good morning to hindi", Translate},
		{"search for golang generics", SearchWeb},
		{"who are you", WhoAreYou},
		{"who is your creator", Creator},
		{"tell me a joke", Joke},
		{"thanks a lot", Thanks},
		{"how are you", HowAreYou},
		{"goodbye marvin", Shutdown},
		{"that was good", Acknowledge},
		{"latest news", News},
		{"play despacito on youtube", PlayOnYoutube},
		{"room temperature", RoomTemperature},
		{"book tickets for train", BookTickets},
		{"introduce yourself to priya", IntroduceTo},
		{"easiest route from mysore to bangalore", RouteBetween},
		{"what time is it", TimeOrDate},
		{"weather in mumbai", Weather},
		{"what is photosynthesis", EncyclopediaLookup},
		{"xyzzy", Fallback},
	}

	seen := make(map[Intent]bool)
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := Classify(tc.input)
			if got.Intent != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.input, got.Intent, tc.want)
			}
		})
		seen[tc.want] = true
	}

	for i := range intentNames {
		if !seen[i] {
			t.Errorf("no sample phrase for %v", i)
		}
	}
}

func TestClassifyEarlierRuleWins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Intent
	}{
		{"greeting before joke", "hello, tell me a joke", Greeting},
		{"weather before how does", "how does the weather work", Weather},
		{"time before what is", "what is the time", TimeOrDate},
		{"pro mode off before on", "please deactivate pro mode", ProModeOff},
		{"emotion query before what is", "what is my emotion", EmotionQuery},
		{"room temperature before weather", "what is the room temperature", RoomTemperature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.input).Intent; got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestClassifyNormalizes(t *testing.T) {
	pc := Classify("  HELLO There  ")
	if pc.Intent != Greeting {
		t.Errorf("intent: got %v, want Greeting", pc.Intent)
	}
	if pc.Raw != "hello there" {
		t.Errorf("raw: got %q", pc.Raw)
	}
	if pc.ID == "" {
		t.Error("ID should be set")
	}
}

func TestClassifyParams(t *testing.T) {
	tests := []struct {
		input     string
		intent    Intent
		params    map[string]string
		malformed bool
	}{
		{"what is photosynthesis", EncyclopediaLookup, map[string]string{ParamTopic: "photosynthesis"}, false},
		{"translate good morning to hindi", Translate, map[string]string{
			ParamSourceText: "good morning", ParamLanguageName: "hindi", ParamTargetLanguage: "hi",
		}, false},
		{"translate good morning to klingon", Translate, map[string]string{
			ParamSourceText: "good morning", ParamLanguageName: "klingon",
		}, true},
		{"translate", Translate, nil, true},
		{"search for golang generics", SearchWeb, map[string]string{ParamQuery: "golang generics"}, false},
		{"search for", SearchWeb, nil, true},
		{"play despacito on youtube", PlayOnYoutube, map[string]string{ParamQuery: "despacito"}, false},
		{"play on youtube", PlayOnYoutube, nil, true},
		{"book tickets for movie tonight", BookTickets, map[string]string{ParamTicketMode: "movie"}, false},
		{"book tickets for flight", BookTickets, map[string]string{ParamTicketMode: "flight"}, false},
		{"introduce yourself to priya", IntroduceTo, map[string]string{ParamName: "priya"}, false},
		{"introduce yourself to", IntroduceTo, nil, true},
		{"easiest route from mysore to bangalore", RouteBetween, map[string]string{ParamFrom: "mysore", ParamTo: "bangalore"}, false},
		{"easiest route from home", RouteBetween, nil, true},
		{"weather in new delhi", Weather, map[string]string{ParamLocation: "new delhi"}, false},
		{"temperature in chennai", Weather, map[string]string{ParamLocation: "chennai"}, false},
		{"what's the weather", Weather, nil, false},
		{"wikipedia search alan turing", EncyclopediaLookup, map[string]string{ParamTopic: "alan turing"}, false},
		{"who is alan turing", EncyclopediaLookup, map[string]string{ParamTopic: "alan turing"}, false},
		{"how does a network work", EncyclopediaLookup, map[string]string{ParamTopic: "a network"}, false},
		{"how do magnets work", EncyclopediaLookup, map[string]string{ParamTopic: "magnets"}, false},
		{"how to bake bread", EncyclopediaLookup, map[string]string{ParamTopic: "bake bread"}, false},
		{"how can i do yoga", EncyclopediaLookup, map[string]string{ParamTopic: "yoga"}, false},
		{"how to download files", EncyclopediaLookup, map[string]string{ParamTopic: "download files"}, false},
		{"how does homework work", EncyclopediaLookup, map[string]string{ParamTopic: "homework"}, false},
		{"how do networks work at work", EncyclopediaLookup, map[string]string{ParamTopic: "networks at work"}, false},
		{"how planes fly", EncyclopediaLookup, map[string]string{ParamTopic: "planes fly"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			pc := Classify(tc.input)
			if pc.Intent != tc.intent {
				t.Fatalf("intent: got %v, want %v", pc.Intent, tc.intent)
			}
			if pc.Malformed != tc.malformed {
				t.Errorf("malformed: got %v, want %v", pc.Malformed, tc.malformed)
			}
			if len(pc.Params) != len(tc.params) {
				t.Errorf("params: got %v, want %v", pc.Params, tc.params)
			}
			for k, v := range tc.params {
				if got := pc.Param(k); got != v {
					t.Errorf("param %s: got %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestIsBasicCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"enable pro mode", true},
		{"disable pro mode", true},
		{"stop all detection", true},
		{"this is fine", true}, // "hi" inside "this"
		{"explain quantum entanglement", false},
		{"tell me about quantum physics", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := IsBasicCommand(tc.input); got != tc.want {
				t.Errorf("IsBasicCommand(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestLanguageCode(t *testing.T) {
	if len(Languages) != 7 {
		t.Fatalf("expected 7 languages, got %d", len(Languages))
	}
	for _, l := range Languages {
		code, ok := LanguageCode(l.Name)
		if !ok || code != l.Code {
			t.Errorf("LanguageCode(%q) = %q, %v", l.Name, code, ok)
		}
	}
	if _, ok := LanguageCode("klingon"); ok {
		t.Error("klingon should be unsupported")
	}
	if code, _ := LanguageCode(" French "); code != "fr" {
		t.Errorf("LanguageCode should normalize, got %q", code)
	}
}

func TestIntentString(t *testing.T) {
	if VisionOn.String() != "VisionOn" {
		t.Errorf("got %q", VisionOn.String())
	}
	if Intent(999).String() != "Unknown" {
		t.Errorf("got %q", Intent(999).String())
	}
}
