package main

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	RelayURL string `env:"RELAY_URL,default=ws://localhost:8080/ws"`
	Name     string `env:"CHAT_NAME"`
	Language string `env:"CHAT_LANGUAGE"`
	Colours  bool   `env:"COLOURS,default=true"`
	LogLevel string `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, log, config.RelayURL)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = c.Close() }()

	if config.Name != "" {
		if err := c.Login(config.Name); err != nil {
			return exitRuntime, err
		}
	}
	if config.Language != "" {
		if err := c.ChooseLanguage(config.Language, ""); err != nil {
			return exitRuntime, err
		}
	}
	printInfo(config.Colours, fmt.Sprintf("Connected to %s. Commands: /name <name>, /lang <key>, /who, /quit", config.RelayURL))

	lines := make(chan string)
	go readLines(lines)

	var users []event.User
	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case evt, ok := <-c.Events():
			if !ok {
				return exitRuntime, fmt.Errorf("relay closed the connection")
			}
			switch e := evt.(type) {
			case event.GotMessage:
				fmt.Println(client.FormatMessage(e, config.Colours))
			case event.UpdatedUsers:
				users = e.Users
				printInfo(config.Colours, fmt.Sprintf("%d participant(s) online", len(users)))
			}
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			quit, err := handleLine(c, line, users)
			if err != nil {
				log.Warn("Command failed", "error", err)
			}
			if quit {
				return exitOK, nil
			}
		}
	}
}

// handleLine runs a slash command or sends the line as a message.
func handleLine(c *client.Client, line string, users []event.User) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/quit":
		return true, nil
	case "/name":
		return false, c.Login(arg)
	case "/lang":
		return false, c.ChooseLanguage(arg, "")
	case "/who":
		client.RenderUsers(os.Stdout, users)
		return false, nil
	default:
		return false, c.SendMessage(line)
	}
}

func readLines(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

func printInfo(colours bool, s string) {
	if colours {
		color.Cyan.Println(s)
		return
	}
	fmt.Println(s)
}

