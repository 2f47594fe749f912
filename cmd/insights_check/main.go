package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wellness-insights/internal/config"
	"wellness-insights/internal/service"
)

const usage = `usage:
  insights_check <user-id>                        print summary and insights
  insights_check mood <user-id> <1-10> <label> [notes...]
  insights_check journal <user-id> <content...>`

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init", zap.Error(err))
	}
	defer a.Close()

	switch args[0] {
	case "mood":
		err = recordMood(ctx, a, args[1:])
	case "journal":
		err = recordJournal(ctx, a, args[1:])
	default:
		err = printReport(ctx, a, args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		a.Close()
		os.Exit(1)
	}
}

func recordMood(ctx context.Context, a *app, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("mood needs <user-id> <value> <label>\n%s", usage)
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("mood value: %w", err)
	}
	sample, err := a.samples.RecordMood(ctx, service.MoodInput{
		UserID: args[0],
		Value:  value,
		Label:  args[2],
		Notes:  strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	return printJSON(sample)
}

func recordJournal(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("journal needs <user-id> <content>\n%s", usage)
	}
	entry, err := a.samples.RecordJournal(ctx, service.JournalInput{
		UserID:  args[0],
		Content: strings.Join(args[1:], " "),
	})
	if err != nil {
		return err
	}
	// Esperamos el analisis para que el proceso no termine antes.
	a.samples.Wait()
	return printJSON(entry)
}

func printReport(ctx context.Context, a *app, userID string) error {
	report, err := a.insights.Report(ctx, userID)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
