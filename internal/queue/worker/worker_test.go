package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/jobs"
	"github.com/embaixada-angola/studentportal/internal/notifications"
	"github.com/embaixada-angola/studentportal/internal/queue/redisclient"
)

type fakeQueue struct {
	items []jobs.Job
}

func (q *fakeQueue) Enqueue(ctx context.Context, queue string, j jobs.Job) error {
	q.items = append(q.items, j)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context, queue string, timeout time.Duration) (jobs.Job, error) {
	if len(q.items) == 0 {
		return jobs.Job{}, redisclient.ErrQueueEmpty
	}

	j := q.items[0]
	q.items = q.items[1:]
	return j, nil
}

type fakeUsers struct {
	getFn func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{ID: id, Email: "joao.silva@estudante.com", Nome: "João Silva"}, nil
}

type fakeNotifier struct {
	statusCalls  []notifications.DocumentStatusInput
	welcomeCalls []notifications.WelcomeInput
	err          error
}

func (f *fakeNotifier) SendDocumentStatusUpdate(ctx context.Context, in notifications.DocumentStatusInput) error {
	f.statusCalls = append(f.statusCalls, in)
	return f.err
}

func (f *fakeNotifier) SendWelcome(ctx context.Context, in notifications.WelcomeInput) error {
	f.welcomeCalls = append(f.welcomeCalls, in)
	return f.err
}

func mustJob(t *testing.T, typ jobs.JobType, payload any) jobs.Job {
	t.Helper()

	b, err := jobs.EncodePayload(typ, payload)
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}

	j, err := jobs.NewJob(typ, b)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	return j
}

func TestProcessOne_EmptyQueue(t *testing.T) {
	w := New(Config{}, &fakeQueue{}, &fakeUsers{}, &fakeNotifier{}, nil)

	processed, err := w.ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}
	if processed {
		t.Fatalf("nothing to process on an empty queue")
	}
}

func TestProcessOne_DocumentStatusChanged(t *testing.T) {
	q := &fakeQueue{}
	n := &fakeNotifier{}

	q.items = append(q.items, mustJob(t, jobs.JobDocumentStatusChanged, jobs.DocumentStatusChangedPayload{
		DocumentID: "doc-1",
		UserID:     "2",
		Status:     "entregue",
	}))

	w := New(Config{}, q, &fakeUsers{}, n, nil)

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = %v, %v", processed, err)
	}

	if len(n.statusCalls) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.statusCalls))
	}

	got := n.statusCalls[0]

	if got.Email != "joao.silva@estudante.com" || got.DocumentID != "doc-1" || got.Status != "entregue" {
		t.Fatalf("notification input mismatch: %+v", got)
	}
}

func TestProcessOne_SendWelcome(t *testing.T) {
	q := &fakeQueue{}
	n := &fakeNotifier{}

	q.items = append(q.items, mustJob(t, jobs.JobSendWelcome, jobs.SendWelcomePayload{
		UserID: "9",
		Email:  "nova@estudante.com",
		Nome:   "Nova Estudante",
	}))

	w := New(Config{}, q, &fakeUsers{}, n, nil)

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	if len(n.welcomeCalls) != 1 || n.welcomeCalls[0].Email != "nova@estudante.com" {
		t.Fatalf("welcome notification not sent: %+v", n.welcomeCalls)
	}
}

func TestProcessOne_DropsJobAfterMaxTries(t *testing.T) {
	q := &fakeQueue{}
	n := &fakeNotifier{err: errors.New("provider down")}

	j := mustJob(t, jobs.JobSendWelcome, jobs.SendWelcomePayload{
		UserID: "9",
		Email:  "nova@estudante.com",
	})
	j.Attempts = j.MaxTries - 1

	q.items = append(q.items, j)

	w := New(Config{}, q, &fakeUsers{}, n, nil)

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = %v, %v", processed, err)
	}

	if len(q.items) != 0 {
		t.Fatalf("exhausted job must not be requeued")
	}
}

func TestExponentialBackoff_Caps(t *testing.T) {
	if d := ExponentialBackoff(0); d < 2*time.Second || d > 3*time.Second {
		t.Fatalf("attempt 0 should be about 2s, got %v", d)
	}

	if d := ExponentialBackoff(20); d > 5*time.Minute+time.Second {
		t.Fatalf("backoff must cap at 5m, got %v", d)
	}
}

func TestProcessOne_BadPayloadCountsAsFailure(t *testing.T) {
	q := &fakeQueue{}

	q.items = append(q.items, jobs.Job{
		ID:       "j1",
		Type:     jobs.JobSendWelcome,
		Payload:  nil,
		Attempts: 4,
		MaxTries: 5,
	})

	w := New(Config{}, q, &fakeUsers{}, &fakeNotifier{}, nil)

	processed, err := w.ProcessOne(context.Background())

	if err != nil || !processed {
		t.Fatalf("ProcessOne = %v, %v", processed, err)
	}

	if len(q.items) != 0 {
		t.Fatalf("undecodable job at max tries must be dropped")
	}
}
