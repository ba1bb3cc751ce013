package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/log"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/router"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/speech"
)

const replHelp = `:listen      toggle voice mode (lines are recognized as speech)
:pro on|off  switch pro mode
:ask <text>  send text straight to the language model
:status      show session flags
:quit        leave`

var replCamera bool

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"chat"},
	Short:   "Interactive text session",
	Long: `Type commands and read Marvin's answers. In voice mode each line is
treated as one recognized utterance, as if spoken into the microphone.

` + replHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	replCmd.Flags().BoolVar(&replCamera, "camera", false, "open the webcam for vision commands")
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := &terminal{w: out, echoUser: false}
	a, err := newAssistant(ctx, cfg, hooks{Display: term, Actions: term, NoCamera: !replCamera})
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(out, bannerStyle.Render("MARVIN"))
	if a.session.ProMode() {
		fmt.Fprintln(out, proModeStyle.Render("PRO MODE"))
	}
	a.router.Welcome()

	handle := func(ctx context.Context, text string) {
		if _, err := a.router.Handle(ctx, text); err != nil {
			if errors.Is(err, router.ErrShutdown) {
				cancel()
				return
			}
			if !errors.Is(err, router.ErrEmptyInput) {
				term.ShowError(err)
			}
		}
		if a.router.ShutDown() {
			cancel()
		}
	}

	// Voice mode feeds typed lines to a recognizer through this pipe.
	voiceR, voiceW := io.Pipe()
	defer voiceW.Close()
	listener := speech.NewListener(speech.NewLineRecognizer(voiceR), a.session, handle,
		speech.WithStatus(term.ShowStatus),
		speech.WithListenerLogger(log.L()),
	)
	defer listener.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch {
		case line == ":quit" || line == ":q":
			return nil
		case line == ":help":
			fmt.Fprintln(out, statusStyle.Render(replHelp))
		case line == ":listen":
			if !listener.Toggle(ctx) {
				term.ShowStatus("Voice mode off.")
			}
		case line == ":pro on" || line == ":pro off":
			if _, err := a.router.SetProMode(ctx, line == ":pro on"); err != nil {
				term.ShowError(err)
			}
		case strings.HasPrefix(line, ":ask "):
			if _, err := a.router.Ask(ctx, strings.TrimPrefix(line, ":ask ")); err != nil {
				term.ShowError(err)
			}
		case line == ":status":
			f := a.session.Flags()
			term.ShowStatus(fmt.Sprintf("listening=%t webcam=%t emotion=%t pro=%t",
				f.Listening, f.WebcamActive, f.EmotionActive, f.ProMode))
		case a.session.Listening():
			if _, err := fmt.Fprintln(voiceW, line); err != nil {
				term.ShowError(err)
			}
		case line != "":
			handle(ctx, line)
		}
	}
}
