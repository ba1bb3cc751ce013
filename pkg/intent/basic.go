package intent

import "strings"

// basicCommands are the triggers that always use local handling, even in pro mode.
// Matching is plain substring containment, so short entries like "hi" and "time"
// claim many unrelated inputs.
var basicCommands = []string{
	"turn on vision", "activate vision", "start camera", "what do you see", "turn off vision", "stop camera",
	"start emotion detection", "detect emotions", "stop emotion detection", "end emotion detection", "how am i feeling", "what is my emotion",
	"hello", "hi", "translate", "search for", "who are you", "what are you", "tell me about yourself",
	"creator", "created you", "tell me a joke", "thank you", "thanks", "how are you", "how is it going",
	"shutdown", "goodbye", "good", "great", "latest news", "news updates", "play", "on youtube",
	"room temperature", "book tickets", "introduce yourself to", "easiest route from", "time", "date",
	"weather", "temperature", "wikipedia search", "who is", "what is", "how does", "how do", "how to", "how can i",
	"pro mode", "stop all detection",
}

// IsBasicCommand reports whether input contains any basic-command trigger.
func IsBasicCommand(input string) bool {
	cmd := normalize(input)
	for _, b := range basicCommands {
		if strings.Contains(cmd, b) {
			return true
		}
	}
	return false
}
