package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LogNotifier writes notifications to the log instead of an email provider.
// The embassy has no outbound mail relay yet, so this is the only production
// notifier for now.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendDocumentStatusUpdate(ctx context.Context, in DocumentStatusInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.document_status",
		"email", in.Email,
		"nome", in.Nome,
		"document_id", in.DocumentID,
		"status", in.Status,
	)
	return nil
}

func (n *LogNotifier) SendWelcome(ctx context.Context, in WelcomeInput) error {
	if err := simulateProvider(ctx); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.welcome",
		"email", in.Email,
		"nome", in.Nome,
	)
	return nil
}

func simulateProvider(ctx context.Context) error {
	if msStr := os.Getenv("NOTIFIER_SLEEP_MS"); msStr != "" {
		ms, _ := strconv.Atoi(msStr)
		if ms > 0 {
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if os.Getenv("NOTIFIER_FAIL") == "1" {
		return fmt.Errorf("provider down (simulated)")
	}

	return nil
}
