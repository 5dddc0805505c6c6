package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/validation"
	"github.com/ekoelbar/barclient/pkg/errors"
)

type mockReservationAPI struct {
	mock.Mock
}

func (m *mockReservationAPI) GetAvailableSpots(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockReservationAPI) CreateReservation(ctx context.Context, req barapi.CreateReservationRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*domain.Reservation)
	return r, args.Error(1)
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Record(_ context.Context, event audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func validReservationForm() ReservationForm {
	return ReservationForm{Name: "Mette Hansen", Email: "mette@example.dk", Guests: validation.Int(4)}
}

type reservationFixture struct {
	svc       *ReservationService
	api       *mockReservationAPI
	sched     *manualScheduler
	sink      *recordingSink
	successes int
	cancels   int
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	f := &reservationFixture{
		api:   &mockReservationAPI{},
		sched: &manualScheduler{},
		sink:  &recordingSink{},
	}
	f.svc = NewReservationService(f.api, f.sink, f.sched, ReservationHooks{
		OnSuccess: func(*domain.Reservation) { f.successes++ },
		OnCancel:  func() { f.cancels++ },
	}, zap.NewNop())
	return f
}

func TestReservation_SetEventLoadsSpots(t *testing.T) {
	f := newReservationFixture(t)
	f.api.On("GetAvailableSpots", mock.Anything, int64(3)).Return(42, nil).Once()

	f.svc.SetEvent(context.Background(), 3)

	assert.Equal(t, 42, f.svc.State().AvailableSpots)
	f.api.AssertExpectations(t)
}

func TestReservation_SpotsErrorFallsBackToZero(t *testing.T) {
	f := newReservationFixture(t)
	f.api.On("GetAvailableSpots", mock.Anything, int64(3)).Return(10, nil).Once()
	f.api.On("GetAvailableSpots", mock.Anything, int64(3)).Return(0, stderrors.New("boom")).Once()

	ctx := context.Background()
	f.svc.SetEvent(ctx, 3)
	f.svc.Open(ctx)

	st := f.svc.State()
	assert.True(t, st.Open)
	assert.Equal(t, 0, st.AvailableSpots)
}

func TestReservation_DefaultForm(t *testing.T) {
	f := newReservationFixture(t)

	form := f.svc.State().Form
	require.NotNil(t, form.Guests)
	assert.Equal(t, float64(1), *form.Guests)
	assert.Empty(t, form.Name)
}

func TestReservation_ValidationStopsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ReservationForm)
		field   string
		message string
	}{
		{"blank name", func(f *ReservationForm) { f.Name = "  " }, "customerName", "Navn må ikke være tomt"},
		{"digits in name", func(f *ReservationForm) { f.Name = "R2D2" }, "customerName", "Navn må kun indeholde bogstaver"},
		{"bad email", func(f *ReservationForm) { f.Email = "mette.example.dk" }, "customerEmail", "Email skal indeholde præcis ét @"},
		{"no guests", func(f *ReservationForm) { f.Guests = nil }, "numberOfGuests", "Antal gæster er påkrævet"},
		{"zero guests", func(f *ReservationForm) { f.Guests = validation.Int(0) }, "numberOfGuests", "Mindst 1 gæst påkrævet"},
		{"too many guests", func(f *ReservationForm) { f.Guests = validation.Int(21) }, "numberOfGuests", "Max 20 gæster per reservation"},
		{"name checked first", func(f *ReservationForm) { f.Name = ""; f.Guests = nil }, "customerName", "Navn må ikke være tomt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(t)
			form := validReservationForm()
			tt.mutate(&form)
			f.svc.SetForm(form)

			_, err := f.svc.Submit(context.Background())

			var vErr *errors.ErrValidation
			require.True(t, stderrors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.message, vErr.Message)
			assert.Equal(t, tt.message, f.svc.State().Error)
			assert.Equal(t, form.Name, f.svc.State().Form.Name, "form is kept")
			f.api.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
		})
	}
}

func TestReservation_SubmitSuccessClosesAfterDelay(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()
	f.api.On("GetAvailableSpots", mock.Anything, int64(3)).Return(20, nil)
	f.api.On("CreateReservation", mock.Anything, barapi.CreateReservationRequest{
		EventID: 3, CustomerName: "Mette Hansen", CustomerEmail: "mette@example.dk", NumberOfGuests: 4,
	}).Return(&domain.Reservation{ID: 11, NumberOfGuests: 4, Status: domain.ReservationStatusPending}, nil).Once()

	f.svc.SetEvent(ctx, 3)
	f.svc.Open(ctx)
	f.svc.SetForm(validReservationForm())

	reservation, err := f.svc.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusPending, reservation.Status)

	st := f.svc.State()
	assert.True(t, st.Success)
	assert.True(t, st.Open)
	assert.False(t, st.Submitting)
	assert.Equal(t, ReservationSuccessDelay, f.sched.lastDelay())
	assert.Equal(t, 0, f.successes)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, audit.EventReservationCreated, f.sink.events[0].Type)
	assert.Equal(t, int64(11), f.sink.events[0].ReservationID)

	f.sched.fireAll(false)

	st = f.svc.State()
	assert.False(t, st.Success)
	assert.False(t, st.Open)
	assert.Empty(t, st.Form.Name)
	assert.Equal(t, 1, f.successes)
	assert.Equal(t, 0, f.cancels)
}

func TestReservation_FailureKeepsForm(t *testing.T) {
	f := newReservationFixture(t)
	f.api.On("CreateReservation", mock.Anything, mock.Anything).
		Return(nil, &barapi.APIError{StatusCode: 409, Message: "Not enough available spots"}).Once()
	f.api.On("CreateReservation", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("dial tcp: connection refused")).Once()

	f.svc.SetForm(validReservationForm())

	_, err := f.svc.Submit(context.Background())
	var actionErr *ActionError
	require.True(t, stderrors.As(err, &actionErr))
	assert.Equal(t, "Not enough available spots", f.svc.State().Error)

	_, err = f.svc.Submit(context.Background())
	require.Error(t, err)

	st := f.svc.State()
	assert.Equal(t, "Kunne ikke oprette reservation. Prøv igen.", st.Error)
	assert.Equal(t, "Mette Hansen", st.Form.Name)
	assert.False(t, st.Submitting)
	assert.False(t, st.Success)
	assert.Zero(t, f.sched.pending())
}

func TestReservation_DoubleSubmitMakesOneCall(t *testing.T) {
	f := newReservationFixture(t)
	release := make(chan struct{})
	started := make(chan struct{})

	f.api.On("CreateReservation", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&domain.Reservation{ID: 1, Status: domain.ReservationStatusPending}, nil).Once()

	f.svc.SetForm(validReservationForm())

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, f.svc.State().Submitting)
	_, err := f.svc.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	f.api.AssertNumberOfCalls(t, "CreateReservation", 1)
}

func TestReservation_CloseEmitsCancel(t *testing.T) {
	f := newReservationFixture(t)
	f.svc.SetForm(validReservationForm())

	f.svc.Close()

	st := f.svc.State()
	assert.False(t, st.Open)
	assert.Empty(t, st.Form.Email)
	assert.Equal(t, 1, f.cancels)
}

func TestReservation_ShutdownCancelsDismissal(t *testing.T) {
	f := newReservationFixture(t)
	f.api.On("CreateReservation", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 1, Status: domain.ReservationStatusPending}, nil)
	f.svc.SetForm(validReservationForm())

	_, err := f.svc.Submit(context.Background())
	require.NoError(t, err)

	f.svc.Shutdown()
	assert.Zero(t, f.sched.pending())

	// a callback racing with Shutdown must not touch state either
	f.sched.fireAll(true)
	assert.Equal(t, 0, f.successes)
	assert.True(t, f.svc.State().Success)
}

func TestReservationRegistry_OneWidgetPerEvent(t *testing.T) {
	api := &mockReservationAPI{}
	api.On("GetAvailableSpots", mock.Anything, int64(1)).Return(5, nil).Once()
	api.On("GetAvailableSpots", mock.Anything, int64(2)).Return(8, nil).Once()
	reg := NewReservationRegistry(api, audit.Nop{}, &manualScheduler{}, zap.NewNop())

	ctx := context.Background()
	first := reg.Get(ctx, 1)
	assert.Same(t, first, reg.Get(ctx, 1))
	second := reg.Get(ctx, 2)

	assert.NotSame(t, first, second)
	assert.Equal(t, 5, first.State().AvailableSpots)
	assert.Equal(t, 8, second.State().AvailableSpots)
	api.AssertExpectations(t)
}

func TestReservationRegistry_SuccessRefreshesSpots(t *testing.T) {
	api := &mockReservationAPI{}
	sched := &manualScheduler{}
	api.On("GetAvailableSpots", mock.Anything, int64(1)).Return(10, nil).Once()
	api.On("GetAvailableSpots", mock.Anything, int64(1)).Return(6, nil).Once()
	api.On("CreateReservation", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 3, NumberOfGuests: 4, Status: domain.ReservationStatusPending}, nil)
	reg := NewReservationRegistry(api, audit.Nop{}, sched, zap.NewNop())

	w := reg.Get(context.Background(), 1)
	w.SetForm(validReservationForm())
	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	sched.fireAll(false)
	assert.Equal(t, 6, w.State().AvailableSpots)

	reg.Shutdown()
	api.AssertExpectations(t)
}
