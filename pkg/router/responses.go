package router

import (
	"fmt"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/perception"
)

// WelcomeMessage is shown once when a session starts.
const WelcomeMessage = "Hello! I'm Marvin, your AI assistant. You can talk to me using voice commands or type your questions. Try saying 'hello' or 'what can you do?'"

// Fixed responses.
const (
	msgFallback = "I'm not sure I understand. Could you please rephrase your command?"

	msgCameraStarted       = "Camera activated! Object detection is now running."
	msgCameraAlreadyActive = "Webcam is already active."
	msgCameraStopped       = "Webcam has been stopped, and vision has been deactivated."
	msgAllStopped          = "All camera detection has been stopped."
	msgNoObjects           = "I'm not detecting any objects right now."

	msgEmotionAlreadyActive = "Emotion detection is already active."
	msgEmotionStartingCam   = "Starting camera for emotion detection..."
	msgEmotionStarted       = "Emotion detection activated! I'm now analyzing your facial expressions through the camera."
	msgEmotionStartFailed   = "Sorry, I couldn't start emotion detection. Please make sure your camera is working properly."
	msgEmotionStopped       = "Emotion detection has been stopped."
	msgEmotionInactive      = "Emotion detection is not active. Say 'start emotion detection' to begin analyzing your emotions."
	msgNoFace               = "I can't detect a face right now. Please make sure you're visible to the camera."

	msgGreeting    = "Hello! How can I assist you today?"
	msgWhoAreYou   = "I am Marvin, your smart AI assistant with object detection, emotion recognition, and voice capabilities. I was designed to help you with tasks, answer your questions, and make your day easier!"
	msgCreator     = "I was programmed by Adnan."
	msgThanks      = "It was my pleasure!"
	msgHowAreYou   = "I'm doing great, What about you?"
	msgShutdown    = "Goodbye! Shutting down, Refresh the page if you wanna start interacting again"
	msgAcknowledge = "I'm glad to hear that, So what can I assist you with today?"
	msgRoomTemp    = "The room temperature ranges from: 20–22 °C"

	msgTranslateUsage  = "Please say something like 'Translate good morning to Hindi'"
	msgTranslateFailed = "Sorry, I couldn't complete the translation."

	msgSearchEmpty   = "Please specify what you want me to search for."
	msgSearchOpening = "Opening Google search results now."

	msgPlayEmpty   = "Please specify what you want me to play on YouTube."
	msgPlayGoodbye = "Enjoy your video! I'll be right here when you return."

	msgNewsEmpty  = "Sorry, I couldn't find any news at the moment."
	msgNewsFailed = "Sorry, I couldn't fetch the news right now. Please try again later."

	msgIntroduceEmpty = "Please provide a name to introduce myself to."
	msgRouteUsage     = "Please say: easiest route from place to place"
	msgNoAnswer       = "Sorry, I couldn't find an answer for that."

	msgProModeInactive = "Pro Mode is not active. Enable PRO MODE for advanced AI capabilities."
	msgSystemError     = "SYSTEM ERROR: Advanced AI temporarily unavailable. "
)

// Navigation targets.
const (
	googleSearchURL  = "https://www.google.com/search?q="
	youtubeSearchURL = "https://www.google.com/search?q=site:youtube.com+"
	mapsRouteURL     = "https://www.google.com/maps/dir/?api=1"
)

// ticketSites maps a booking mode to the site it opens.
var ticketSites = map[string]string{
	"bus":    "https://www.redbus.in",
	"train":  "https://www.irctc.co.in",
	"flight": "https://www.expedia.com",
	"movie":  "https://in.bookmyshow.com/explore/home/bengaluru",
}

// Jokes is the joke pool; one is picked uniformly per request.
var Jokes = []string{
	"Why don't skeletons fight each other? They don't have the guts.",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"I used to play piano by ear, but now I use my hands.",
	"What do you get when you cross a snowman and a vampire? Frostbite.",
	"Why don't oysters share their pearls? Because they're shellfish.",
	"I told my computer I needed a break, and now it won't stop sending me Kit-Kats.",
	"What did the grape do when it got stepped on? Nothing, but it let out a little wine.",
	"Why don't some couples go to the gym? Because some relationships don't work out.",
	"Why did the coffee file a police report? It got mugged.",
	"I used to be a baker, but I couldn't make enough dough.",
	"I told my friend 10 jokes to make him laugh. Sadly, no pun in 10 did.",
	"Why don't eggs tell jokes? They'd crack each other up.",
	"I'm reading a book on anti-gravity. It's impossible to put down.",
	"I wanted to become a professional skateboarder, but I couldn't handle the grind.",
	"How does a penguin build its house? Igloos it together!",
	"Why did the bicycle fall over? Because it was two-tired.",
	"Why can't you trust an atom? Because they make up everything!",
	"Did you hear about the mathematician who's afraid of negative numbers? He'll stop at nothing to avoid them.",
	"What did one ocean say to the other ocean? Nothing, they just waved.",
}

// emotionResponse answers "how am I feeling" for a readout.
func emotionResponse(st perception.EmotionState) string {
	c := st.Confidence
	switch st.Label {
	case perception.Happy:
		return fmt.Sprintf("You appear to be feeling happy! With %d%% confidence, I can see positive emotions. That's wonderful!", c)
	case perception.Sad:
		return fmt.Sprintf("I sense you might be feeling sad (%d%% confidence). Is everything okay? Would you like to talk about it?", c)
	case perception.Angry:
		return fmt.Sprintf("I'm detecting some anger (%d%% confidence). Would you like to discuss what's bothering you?", c)
	case perception.Surprised:
		return fmt.Sprintf("You look surprised! (%d%% confidence) Did something unexpected happen?", c)
	case perception.Fearful:
		return fmt.Sprintf("I sense some fear in your expression (%d%% confidence). Everything will be alright.", c)
	case perception.Disgusted:
		return fmt.Sprintf("You appear disgusted (%d%% confidence). Is there something unpleasant?", c)
	case perception.Neutral:
		return fmt.Sprintf("You seem to be in a neutral, balanced state of mind (%d%% confidence).", c)
	case perception.Focused:
		return fmt.Sprintf("You appear very focused and concentrated (%d%% confidence). Great for productivity!", c)
	case perception.Calm:
		return fmt.Sprintf("You seem calm and relaxed (%d%% confidence). That's a peaceful state to be in.", c)
	}
	return fmt.Sprintf("I detect you're feeling %s with %d%% confidence.", st.Label, c)
}
