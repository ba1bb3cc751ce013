package intent

import (
	"regexp"
	"strings"
)

// Rule is one entry of the ordered classification table.
type Rule struct {
	Intent Intent
	Match  func(cmd string) bool

	// Extract fills parameters for a matched command. May be nil.
	Extract func(cmd string, pc *ParsedCommand)
}

var (
	helloRe     = regexp.MustCompile(`\bhello\b`)
	hiRe        = regexp.MustCompile(`\bhi\b`)
	howAreYouRe = regexp.MustCompile(`\bhow are you\b`)
	howGoingRe  = regexp.MustCompile(`\bhow is it going\b`)
	goodRe      = regexp.MustCompile(`\bgood\b`)
	greatRe     = regexp.MustCompile(`\bgreat\b`)
	translateRe = regexp.MustCompile(`translate (.+?) to (.+)`)
	routeRe     = regexp.MustCompile(`easiest route from (.+?) to (.+)`)
	weatherInRe = regexp.MustCompile(`\bin\s+(.+)$`)
	howDoesRe   = regexp.MustCompile(`^how (does|do)`)
	howToRe     = regexp.MustCompile(`^how (to|can i)`)
	// Whole words only: "download" keeps its "do".
	workWordRe  = regexp.MustCompile(`\bwork\b`)
	doWordRe    = regexp.MustCompile(`\bdo\b`)
	ticketModes = []string{"bus", "train", "flight", "movie"}
	rules       = buildRules()
)

// Rules returns the classification table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify maps input to the first matching rule's intent.
// Input is trimmed and lower-cased before matching.
func Classify(input string) *ParsedCommand {
	cmd := normalize(input)
	pc := newCommand(cmd)

	for _, r := range rules {
		if !r.Match(cmd) {
			continue
		}
		pc.Intent = r.Intent
		if r.Extract != nil {
			r.Extract(cmd, pc)
		}
		return pc
	}
	return pc
}

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func containsAny(subs ...string) func(string) bool {
	return func(cmd string) bool {
		for _, s := range subs {
			if strings.Contains(cmd, s) {
				return true
			}
		}
		return false
	}
}

func matchesAny(res ...*regexp.Regexp) func(string) bool {
	return func(cmd string) bool {
		for _, re := range res {
			if re.MatchString(cmd) {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(cmd string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(cmd, p) {
				return true
			}
		}
		return false
	}
}

// stripFirst removes the first occurrence of s and trims the result.
func stripFirst(cmd, s string) string {
	return strings.TrimSpace(strings.Replace(cmd, s, "", 1))
}

// stripFirstWord removes the first standalone occurrence of a word.
func stripFirstWord(cmd string, word *regexp.Regexp) string {
	loc := word.FindStringIndex(cmd)
	if loc == nil {
		return strings.TrimSpace(cmd)
	}
	return strings.Join(strings.Fields(cmd[:loc[0]]+" "+cmd[loc[1]:]), " ")
}

func buildRules() []Rule {
	return []Rule{
		{Intent: VisionOn, Match: containsAny("turn on vision", "activate vision", "start camera")},
		{Intent: DescribeVision, Match: containsAny("what do you see")},
		{Intent: VisionOff, Match: containsAny("turn off vision", "stop camera")},
		{Intent: StopAllDetection, Match: containsAny("stop all detection")},
		{Intent: EmotionStart, Match: containsAny("start emotion detection", "detect emotions")},
		{Intent: EmotionStop, Match: containsAny("stop emotion detection", "end emotion detection")},
		{Intent: EmotionQuery, Match: containsAny("how am i feeling", "what is my emotion", "analyze my emotions")},
		// "deactivate" contains "activate", so off is declared first.
		{Intent: ProModeOff, Match: containsAny("deactivate pro mode", "disable pro mode")},
		{Intent: ProModeOn, Match: containsAny("activate pro mode", "enable pro mode")},
		{Intent: Greeting, Match: matchesAny(helloRe, hiRe)},
		{Intent: Translate, Match: containsAny("translate"), Extract: extractTranslate},
		{Intent: SearchWeb, Match: hasPrefix("search for"), Extract: func(cmd string, pc *ParsedCommand) {
			requireParam(pc, ParamQuery, stripFirst(cmd, "search for"))
		}},
		{Intent: WhoAreYou, Match: containsAny("who are you", "what are you", "tell me about yourself")},
		{Intent: Creator, Match: containsAny("creator", "created you")},
		{Intent: Joke, Match: containsAny("tell me a joke")},
		{Intent: Thanks, Match: containsAny("thank you", "thanks")},
		{Intent: HowAreYou, Match: matchesAny(howAreYouRe, howGoingRe)},
		{Intent: Shutdown, Match: containsAny("shutdown", "goodbye")},
		{Intent: Acknowledge, Match: matchesAny(goodRe, greatRe)},
		{Intent: News, Match: containsAny("latest news", "news updates")},
		{Intent: PlayOnYoutube, Match: func(cmd string) bool {
			return strings.Contains(cmd, "play") && strings.Contains(cmd, "on youtube")
		}, Extract: func(cmd string, pc *ParsedCommand) {
			q := strings.Replace(cmd, "play", "", 1)
			requireParam(pc, ParamQuery, stripFirst(q, "on youtube"))
		}},
		{Intent: RoomTemperature, Match: containsAny("room temperature")},
		{Intent: BookTickets, Match: func(cmd string) bool {
			return ticketMode(cmd) != ""
		}, Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTicketMode, ticketMode(cmd))
		}},
		{Intent: IntroduceTo, Match: containsAny("introduce yourself to"), Extract: func(cmd string, pc *ParsedCommand) {
			_, name, _ := strings.Cut(cmd, "introduce yourself to")
			requireParam(pc, ParamName, strings.TrimSpace(name))
		}},
		{Intent: RouteBetween, Match: containsAny("easiest route from"), Extract: extractRoute},
		{Intent: TimeOrDate, Match: containsAny("time", "date")},
		{Intent: Weather, Match: containsAny("weather", "temperature"), Extract: func(cmd string, pc *ParsedCommand) {
			if m := weatherInRe.FindStringSubmatch(cmd); m != nil {
				pc.set(ParamLocation, strings.TrimSpace(m[1]))
			}
		}},
		{Intent: EncyclopediaLookup, Match: func(cmd string) bool {
			return strings.Contains(cmd, "wikipedia") && strings.Contains(cmd, "search")
		}, Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirst(cmd, "wikipedia search"))
		}},
		{Intent: EncyclopediaLookup, Match: hasPrefix("who is"), Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirst(cmd, "who is"))
		}},
		{Intent: EncyclopediaLookup, Match: hasPrefix("what is"), Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirst(cmd, "what is"))
		}},
		{Intent: EncyclopediaLookup, Match: hasPrefix("how does", "how do"), Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirstWord(howDoesRe.ReplaceAllString(cmd, ""), workWordRe))
		}},
		{Intent: EncyclopediaLookup, Match: hasPrefix("how to", "how can i"), Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirstWord(howToRe.ReplaceAllString(cmd, ""), doWordRe))
		}},
		{Intent: EncyclopediaLookup, Match: hasPrefix("how"), Extract: func(cmd string, pc *ParsedCommand) {
			pc.set(ParamTopic, stripFirst(cmd, "how"))
		}},
	}
}

func requireParam(pc *ParsedCommand, name, value string) {
	if value == "" {
		pc.Malformed = true
		return
	}
	pc.set(name, value)
}

func ticketMode(cmd string) string {
	for _, mode := range ticketModes {
		if strings.Contains(cmd, "book tickets for "+mode) {
			return mode
		}
	}
	return ""
}

func extractTranslate(cmd string, pc *ParsedCommand) {
	m := translateRe.FindStringSubmatch(cmd)
	if m == nil {
		pc.Malformed = true
		return
	}

	text := strings.TrimSpace(m[1])
	lang := strings.TrimSpace(m[2])
	pc.set(ParamSourceText, text)
	pc.set(ParamLanguageName, lang)

	code, ok := LanguageCode(lang)
	if !ok {
		pc.Malformed = true
		return
	}
	pc.set(ParamTargetLanguage, code)
}

func extractRoute(cmd string, pc *ParsedCommand) {
	m := routeRe.FindStringSubmatch(cmd)
	if m == nil {
		pc.Malformed = true
		return
	}
	pc.set(ParamFrom, strings.TrimSpace(m[1]))
	pc.set(ParamTo, strings.TrimSpace(m[2]))
}
