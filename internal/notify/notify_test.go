package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/branch-queue/internal/config"
	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/branch-queue/internal/domain/ticket"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

type recordingSink struct {
	mu    sync.Mutex
	names []domain.EventName
	err   error
	gate  chan struct{}
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, name domain.EventName, ev domain.Event) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	return s.err
}

func (s *recordingSink) got() []domain.EventName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.EventName(nil), s.names...)
}

func TestDispatcherFansOut(t *testing.T) {
	failing := &recordingSink{err: errors.New("boom")}
	ok := &recordingSink{}
	d := NewDispatcher(10, failing, ok)

	ev := domain.NewEvent(&models.Appointment{ID: 1}, testTime)
	d.Emit(domain.EventBookingConfirmed, ev)
	d.Emit(domain.EventQueueModified, ev)
	d.Close()

	want := []domain.EventName{domain.EventBookingConfirmed, domain.EventQueueModified}
	assert.Equal(t, want, failing.got())
	assert.Equal(t, want, ok.got())

	d.Emit(domain.EventNextInQueue, ev)
	assert.Len(t, ok.got(), 2)
}

func TestFanoutKeepsFastSinkMoving(t *testing.T) {
	slow := &recordingSink{gate: make(chan struct{})}
	fast := &recordingSink{}
	slowD := NewDispatcher(10, slow)
	fastD := NewDispatcher(10, fast)
	n := Fanout{fastD, slowD}

	ev := domain.NewEvent(&models.Appointment{ID: 1}, testTime)
	n.Emit(domain.EventNextInQueue, ev)
	n.Emit(domain.EventQueueModified, ev)

	fastD.Close()
	assert.Equal(t, []domain.EventName{domain.EventNextInQueue, domain.EventQueueModified}, fast.got())
	assert.Empty(t, slow.got())

	close(slow.gate)
	slowD.Close()
	assert.Len(t, slow.got(), 2)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &recordingSink{gate: make(chan struct{})}
	d := NewDispatcher(1, sink)
	ev := domain.NewEvent(&models.Appointment{ID: 1}, testTime)

	// the worker holds the first event at the gate, the second fills the queue
	d.Emit(domain.EventBookingConfirmed, ev)
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, timeout, tick)
	d.Emit(domain.EventQueueModified, ev)
	d.Emit(domain.EventNextInQueue, ev)

	close(sink.gate)
	d.Close()

	assert.Equal(t, []domain.EventName{domain.EventBookingConfirmed, domain.EventQueueModified}, sink.got())
}

type fakeDirectory struct {
	users    map[uint]*models.User
	branches map[uint]*models.Branch
}

func (f fakeDirectory) FindUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (f fakeDirectory) FindBranch(_ context.Context, id uint) (*models.Branch, error) {
	if b, ok := f.branches[id]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

type captureProvider struct {
	sent []Message
	err  error
}

func (p *captureProvider) Send(_ context.Context, msg Message) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func newMessengerFixture() (*Messenger, *captureProvider, *captureProvider) {
	dir := fakeDirectory{
		users: map[uint]*models.User{
			1: {ID: 1, Name: "Ravi", Email: "ravi@example.com", Phone: "+911234"},
			2: {ID: 2, Name: "Asha", Email: "asha@example.com"},
		},
		branches: map[uint]*models.Branch{3: {ID: 3, Name: "Central"}},
	}
	email, sms := &captureProvider{}, &captureProvider{}
	return NewMessenger(dir, email, sms), email, sms
}

func TestMessengerSendsEmailAndSMS(t *testing.T) {
	m, email, sms := newMessengerFixture()
	ap := &models.Appointment{ID: 9, UserID: 1, BranchID: 3, ServiceType: "Cash", AppointmentDate: "2025-01-10", TimeSlot: "09:00", QueueNumber: 4}

	require.NoError(t, m.Deliver(context.Background(), domain.EventBookingConfirmed, domain.NewEvent(ap, testTime)))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ravi@example.com", email.sent[0].Recipient)
	assert.Equal(t, "Appointment confirmed", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].Body, "Central")
	assert.Contains(t, email.sent[0].Body, "queue number is 4")

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+911234", sms.sent[0].Recipient)
}

func TestMessengerSkipsQueueBookkeeping(t *testing.T) {
	m, email, _ := newMessengerFixture()
	ap := &models.Appointment{ID: 9, UserID: 2, BranchID: 3, Status: ticket.StatusCompleted}

	require.NoError(t, m.Deliver(context.Background(), domain.EventQueueModified, domain.NewEvent(ap, testTime)))
	require.NoError(t, m.Deliver(context.Background(), domain.EventAppointmentUpdated, domain.NewEvent(ap, testTime)))
	assert.Empty(t, email.sent)

	ap.Status = ticket.StatusCancelled
	require.NoError(t, m.Deliver(context.Background(), domain.EventAppointmentUpdated, domain.NewEvent(ap, testTime)))
	require.Len(t, email.sent, 1)
	assert.Equal(t, "Appointment cancelled", email.sent[0].Subject)
}

func TestMessengerReportsProviderErrors(t *testing.T) {
	m, email, _ := newMessengerFixture()
	email.err = errors.New("smtp down")
	ap := &models.Appointment{ID: 9, UserID: 2, BranchID: 3}

	err := m.Deliver(context.Background(), domain.EventNextInQueue, domain.NewEvent(ap, testTime))
	assert.ErrorContains(t, err, "smtp down")

	err = m.Deliver(context.Background(), domain.EventNextInQueue, domain.NewEvent(&models.Appointment{UserID: 42}, testTime))
	assert.Error(t, err)
}

func TestWebhookProvider(t *testing.T) {
	var got map[string]string
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := NewWebhookProvider(ChannelSMS, srv.URL, "secret")
	require.NoError(t, p.Send(context.Background(), Message{Recipient: "+911234", Body: "hello"}))
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, map[string]string{"channel": "sms", "recipient": "+911234", "message": "hello"}, got)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()
	assert.Error(t, NewWebhookProvider(ChannelSMS, failing.URL, "").Send(context.Background(), Message{Body: "x"}))
}

func TestProvidersFromConfig(t *testing.T) {
	email, sms := ProvidersFromConfig(&config.Config{})
	assert.IsType(t, LogProvider{}, email)
	assert.IsType(t, LogProvider{}, sms)

	email, sms = ProvidersFromConfig(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMSWebhookURL: "http://sms.local"})
	assert.IsType(t, &SMTPProvider{}, email)
	assert.IsType(t, &WebhookProvider{}, sms)
}
