package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/openlistings/concierge/internal/api"
	"github.com/openlistings/concierge/internal/config"
	"github.com/openlistings/concierge/internal/session"
	"github.com/openlistings/concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// The TUI owns stdout, so logs go to a file when configured and are
	// dropped otherwise.
	logWriter := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logWriter = f
	}
	logger := logging.New(cfg.LogLevel, logWriter)

	client := api.NewClient(cfg.APIBase,
		api.WithLogger(logger),
		api.WithTimeout(cfg.RequestTimeout),
	)

	sink := &programSink{}
	ctrl := session.New(client, sink,
		session.WithBusinessID(cfg.BusinessID),
		session.WithSheetID(cfg.SheetID),
		session.WithEndDelay(cfg.EndDelay),
		session.WithLogger(logger),
	)

	p := tea.NewProgram(newChatModel(ctrl))
	sink.attach(p)

	logger.Info("starting concierge widget",
		"api_base", cfg.APIBase,
		"conversation_id", ctrl.ConversationID(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running widget: %v\n", err)
		os.Exit(1)
	}
}
