package notifications

import "context"

type DocumentStatusInput struct {
	Email      string
	Nome       string
	DocumentID string
	Status     string
}

type WelcomeInput struct {
	Email string
	Nome  string
}

type Notifier interface {
	SendDocumentStatusUpdate(ctx context.Context, input DocumentStatusInput) error
	SendWelcome(ctx context.Context, input WelcomeInput) error
}
