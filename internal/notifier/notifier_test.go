package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontraq/kontraq-be/internal/directory"
	"github.com/kontraq/kontraq-be/internal/domain"
)

// fakeSender records outbound messages and fails on demand.
type fakeSender struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (s *fakeSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func testNotifier(t *testing.T, store directory.Store, sender SMSSender) *Notifier {
	t.Helper()
	return New(&Config{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:         store,
		Sender:        sender,
		Concurrency:   1,
		PrefetchCount: 1,
		SendTimeout:   time.Second,
	})
}

func seedAssignment(t *testing.T) *directory.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := directory.NewMemoryStore()

	require.NoError(t, store.UpsertJob(ctx, &domain.Job{
		JobID:           "job-1",
		ClientName:      "Alice Cooper",
		Location:        "123 Main St",
		ZipCode:         "78704",
		JobType:         domain.SpecialtyGutterRepair,
		Status:          domain.JobStatusAssigned,
		SubcontractorID: "sub-1",
	}))
	require.NoError(t, store.UpsertSubcontractor(ctx, &domain.Subcontractor{
		SubcontractorID: "sub-1",
		Name:            "Mike Builder",
		Phone:           "+15125551234",
		Availability:    domain.AvailabilityAvailable,
		LicenseStatus:   domain.LicenseStatusValid,
	}))

	return store
}

func TestProcessEvent(t *testing.T) {
	store := seedAssignment(t)
	sender := &fakeSender{}
	n := testNotifier(t, store, sender)

	err := n.processEvent(context.Background(), &domain.AssignmentEvent{
		JobID:           "job-1",
		SubcontractorID: "sub-1",
		EventType:       domain.EventTypeAssigned,
	})

	require.NoError(t, err)
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "+15125551234", sender.messages[0].To)
	assert.Equal(t,
		"You have been assigned a new job: Gutter Repair at 123 Main St (78704). Client: Alice Cooper.",
		sender.messages[0].Body,
	)
}

func TestProcessEventFailures(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.AssignmentEvent
		wantErr string
	}{
		{
			name: "unknown event type",
			event: &domain.AssignmentEvent{
				JobID:           "job-1",
				SubcontractorID: "sub-1",
				EventType:       "completed",
			},
			wantErr: "unknown event type",
		},
		{
			name: "unknown subcontractor",
			event: &domain.AssignmentEvent{
				JobID:           "job-1",
				SubcontractorID: "ghost",
				EventType:       domain.EventTypeAssigned,
			},
			wantErr: "failed to resolve subcontractor",
		},
		{
			name: "unknown job",
			event: &domain.AssignmentEvent{
				JobID:           "ghost",
				SubcontractorID: "sub-1",
				EventType:       domain.EventTypeAssigned,
			},
			wantErr: "failed to resolve job",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seedAssignment(t)
			sender := &fakeSender{}
			n := testNotifier(t, store, sender)

			err := n.processEvent(context.Background(), tt.event)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, sender.messages)
			assert.False(t, n.shouldRequeue(err), "lookup failures are permanent")
		})
	}
}

func TestProcessEventPropagatesRetryable(t *testing.T) {
	store := seedAssignment(t)
	sender := &fakeSender{err: NewRetryableError(errors.New("provider unavailable"))}
	n := testNotifier(t, store, sender)

	err := n.processEvent(context.Background(), &domain.AssignmentEvent{
		JobID:           "job-1",
		SubcontractorID: "sub-1",
		EventType:       domain.EventTypeAssigned,
	})

	require.Error(t, err)
	assert.True(t, n.shouldRequeue(err), "transient send failures requeue")
}

func TestShouldRequeue(t *testing.T) {
	n := testNotifier(t, directory.NewMemoryStore(), &fakeSender{})

	assert.True(t, n.shouldRequeue(NewRetryableError(errors.New("timeout"))))
	assert.True(t, n.shouldRequeue(fmt.Errorf("wrapped: %w", NewRetryableError(errors.New("timeout")))))
	assert.False(t, n.shouldRequeue(errors.New("bad payload")))
}

func TestTwilioSender(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantErr       bool
		wantRetryable bool
	}{
		{
			name:   "created",
			status: http.StatusCreated,
		},
		{
			name:          "server error is retryable",
			status:        http.StatusServiceUnavailable,
			wantErr:       true,
			wantRetryable: true,
		},
		{
			name:          "client error is permanent",
			status:        http.StatusBadRequest,
			wantErr:       true,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotTo, gotFrom, gotBody string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				gotPath = r.URL.Path
				gotTo = r.PostForm.Get("To")
				gotFrom = r.PostForm.Get("From")
				gotBody = r.PostForm.Get("Body")

				_, _, ok := r.BasicAuth()
				assert.True(t, ok, "request carries basic auth")

				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			sender := NewTwilioSender(&TwilioConfig{
				AccountSID: "AC123",
				AuthToken:  "secret",
				FromNumber: "+15125550100",
				BaseURL:    srv.URL,
			})

			err := sender.Send(context.Background(), Message{
				To:   "+15125551234",
				Body: "hello",
			})

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
				assert.Equal(t, "+15125551234", gotTo)
				assert.Equal(t, "+15125550100", gotFrom)
				assert.Equal(t, "hello", gotBody)
				return
			}

			require.Error(t, err)
			var retryable *RetryableError
			assert.Equal(t, tt.wantRetryable, errors.As(err, &retryable))
		})
	}
}

func TestTwilioSenderNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	sender := NewTwilioSender(&TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15125550100",
		BaseURL:    srv.URL,
	})

	err := sender.Send(context.Background(), Message{To: "+15125551234", Body: "hello"})

	require.Error(t, err)
	var retryable *RetryableError
	assert.True(t, errors.As(err, &retryable))
}
