package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	c := config.FromViper(v)
	c.DataDir = ""
	return c
}

func TestREPL(t *testing.T) {
	cfg = testConfig(t)

	in := strings.NewReader(strings.Join([]string{
		"hello",
		":pro on",
		":status",
		"search for gophers",
		":quit",
		"thanks",
	}, "\n"))
	var out bytes.Buffer

	if err := runREPL(context.Background(), in, &out); err != nil {
		t.Fatalf("runREPL: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Hello! I'm Marvin",
		"Hello! How can I assist you today?",
		"PRO MODE ACTIVATED!",
		"pro=true",
		"https://www.google.com/search?q=gophers",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "It was my pleasure!") {
		t.Error("input after :quit should be ignored")
	}
}

func TestREPLStopsAfterShutdown(t *testing.T) {
	cfg = testConfig(t)

	in := strings.NewReader("goodbye\nhello\n")
	var out bytes.Buffer

	if err := runREPL(context.Background(), in, &out); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if strings.Count(out.String(), "How can I assist you today?") != 0 {
		t.Errorf("commands after shutdown should not be handled:\n%s", out.String())
	}
}
