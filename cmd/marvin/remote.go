package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/hub"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/web"
)

var remoteAddr string

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Send commands to a running marvin server",
	Long: `Connect to the /ws/command websocket of a running server, send each typed
line as a command and print the responses. UI actions pushed by the server
are printed as they arrive.

Examples:
  marvin remote
  marvin remote --addr ws://raspberrypi.local:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRemote(cmd.Context(), remoteAddr, os.Stdin, os.Stdout)
	},
}

func init() {
	remoteCmd.Flags().StringVar(&remoteAddr, "addr", "ws://localhost:8080", "server websocket base URL")
}

func dialWS(ctx context.Context, base, path string) (*websocket.Conn, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", base, err)
	}
	u.Path = path

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return conn, nil
}

func runRemote(ctx context.Context, addr string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmdConn, err := dialWS(ctx, addr, "/ws/command")
	if err != nil {
		return err
	}
	defer cmdConn.Close()

	actConn, err := dialWS(ctx, addr, "/ws/actions")
	if err != nil {
		return err
	}
	defer actConn.Close()

	term := &terminal{w: out}
	go readEnvelopes(cancel, cmdConn, term)
	go readEnvelopes(cancel, actConn, term)

	fmt.Fprintln(out, bannerStyle.Render("MARVIN remote · "+addr))

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return cmdConn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := cmdConn.WriteJSON(web.CommandRequest{Text: line}); err != nil {
				return fmt.Errorf("send command: %w", err)
			}
		}
	}
}

// readEnvelopes prints server frames until the connection closes.
func readEnvelopes(cancel context.CancelFunc, conn *websocket.Conn, term *terminal) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := hub.Decode(data)
		if err != nil {
			continue
		}

		switch env.Type {
		case web.TypeResult:
			var res web.CommandResponse
			if json.Unmarshal(env.Data, &res) == nil {
				for _, r := range res.Responses {
					term.ShowResponse(r)
				}
			}
		case web.TypeError:
			var e web.ErrorMessage
			if json.Unmarshal(env.Data, &e) == nil {
				term.ShowError(errors.New(e.Error))
			}
		case web.TypeAction:
			var act web.Action
			if json.Unmarshal(env.Data, &act) != nil {
				continue
			}
			switch act.Kind {
			case web.ActionOpenURL:
				term.OpenURL(context.Background(), act.URL)
			case web.ActionHide:
				term.Hide(context.Background())
			}
		}
	}
}
