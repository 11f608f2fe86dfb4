// mcp-client is an interactive console for an MCP business server. It
// accepts slash commands and free-text questions.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"mcp-business-go/internal/console"
	"mcp-business-go/pkg/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL string
		once    string
		timeout time.Duration
	)

	flagSet := pflag.NewFlagSet("mcp-client", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "url", envOr("MCP_URL", client.DefaultBaseURL), "server base URL")
	flagSet.StringVar(&once, "once", "", "run a single command or question and exit")
	flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 && once == "" {
		once = strings.Join(args, " ")
	}

	api := client.New(baseURL, client.WithHTTPClient(&http.Client{Timeout: timeout}))
	session := console.New(api, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if once != "" {
		session.Handle(ctx, once)
		return nil
	}
	return session.Run(ctx, os.Stdin)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `mcp-client: interactive console for the MCP business server.

Usage:
  mcp-client [flags] [question]

With a question (or --once) the command runs once and exits; otherwise an
interactive session starts. Type /quit to leave it.

Flags:
%s`, flagSet.FlagUsages())
}
