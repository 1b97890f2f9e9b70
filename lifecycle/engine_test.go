package lifecycle

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/medvault/medvault-server/events"
	"github.com/medvault/medvault-server/models"
	"github.com/medvault/medvault-server/store"
)

// fakeStore is an in-memory Store. TransitionAppointment serializes the
// read-apply-write under a mutex the way the real store does with a row lock.
type fakeStore struct {
	mu            sync.Mutex
	patients      map[uint]*models.Patient
	doctors       map[uint]*models.Doctor
	appointments  map[uint]models.Appointment
	notifications []models.Notification
	nextID        uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patients:     make(map[uint]*models.Patient),
		doctors:      make(map[uint]*models.Doctor),
		appointments: make(map[uint]models.Appointment),
	}
}

func (s *fakeStore) GetPatient(id uint) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.patients[id]
	if !ok {
		return nil, store.ErrPatientNotFound
	}
	return patient, nil
}

func (s *fakeStore) GetDoctor(id uint) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doctor, ok := s.doctors[id]
	if !ok {
		return nil, store.ErrDoctorNotFound
	}
	return doctor, nil
}

func (s *fakeStore) CreateAppointment(appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	appointment.ID = s.nextID
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	s.appointments[appointment.ID] = *appointment
	return nil
}

func (s *fakeStore) GetAppointment(id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrAppointmentNotFound
	}
	s.hydrate(&appointment)
	return &appointment, nil
}

func (s *fakeStore) TransitionAppointment(id uint, apply func(*models.Appointment) error) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appointment, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrAppointmentNotFound
	}
	if err := apply(&appointment); err != nil {
		return nil, err
	}
	appointment.UpdatedAt = time.Now()
	s.appointments[id] = appointment
	s.hydrate(&appointment)
	return &appointment, nil
}

func (s *fakeStore) ListAppointmentsByPatient(patientID uint) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range s.appointments {
		if appointment.PatientID == patientID {
			s.hydrate(&appointment)
			out = append(out, appointment)
		}
	}
	sortByDateTimeDesc(out)
	return out, nil
}

func (s *fakeStore) ListAppointmentsByDoctor(doctorID uint) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range s.appointments {
		if appointment.DoctorID == doctorID {
			s.hydrate(&appointment)
			out = append(out, appointment)
		}
	}
	sortByDateTimeDesc(out)
	return out, nil
}

// sortByDateTimeDesc matches the real store's list ordering.
func sortByDateTimeDesc(appointments []models.Appointment) {
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].AppointmentDateTime.After(appointments[j].AppointmentDateTime)
	})
}

func (s *fakeStore) CreateNotification(notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *notification)
	return nil
}

// hydrate fills the preloaded associations the real store returns.
func (s *fakeStore) hydrate(appointment *models.Appointment) {
	if patient, ok := s.patients[appointment.PatientID]; ok {
		appointment.Patient = *patient
	}
	if doctor, ok := s.doctors[appointment.DoctorID]; ok {
		appointment.Doctor = *doctor
	}
}

type recordingHandler struct {
	mu  sync.Mutex
	got []events.Event
}

func (h *recordingHandler) Name() string { return "recording" }

func (h *recordingHandler) Handle(event events.Event) error {
	h.mu.Lock()
	h.got = append(h.got, event)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) events() []events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]events.Event(nil), h.got...)
}

const (
	patientID      = 1
	doctorID       = 2
	otherPatientID = 3
	otherDoctorID  = 4
)

func newTestEngine(t *testing.T) (*Engine, *fakeStore, *recordingHandler, *events.Dispatcher) {
	t.Helper()
	s := newFakeStore()
	s.patients[patientID] = &models.Patient{
		UserID: patientID,
		User:   models.User{ID: patientID, FirstName: "Asha", LastName: "Verma", Email: "asha@example.com"},
	}
	s.patients[otherPatientID] = &models.Patient{
		UserID: otherPatientID,
		User:   models.User{ID: otherPatientID, FirstName: "Rohan", LastName: "Mehta", Email: "rohan@example.com"},
	}
	s.doctors[doctorID] = &models.Doctor{
		UserID:         doctorID,
		User:           models.User{ID: doctorID, FirstName: "Priya", LastName: "Nair", Email: "priya@example.com"},
		Specialization: "Cardiology",
		IsActive:       true,
	}
	s.doctors[otherDoctorID] = &models.Doctor{
		UserID:   otherDoctorID,
		User:     models.User{ID: otherDoctorID, FirstName: "Vikram", LastName: "Rao", Email: "vikram@example.com"},
		IsActive: true,
	}

	recorder := &recordingHandler{}
	dispatcher := events.NewDispatcher(recorder)
	engine := NewEngine(s, dispatcher)
	return engine, s, recorder, dispatcher
}

func bookRequest() BookRequest {
	return BookRequest{
		DoctorID:            doctorID,
		AppointmentDateTime: time.Now().Add(48 * time.Hour),
		ReasonForVisit:      "Chest pain on exertion",
		Symptoms:            "Shortness of breath",
	}
}

func mustBook(t *testing.T, engine *Engine) *AppointmentView {
	t.Helper()
	view, err := engine.Book(patientID, bookRequest())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	return view
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	engine, s, recorder, dispatcher := newTestEngine(t)

	view := mustBook(t, engine)
	dispatcher.Wait()

	if view.Status != models.StatusPending {
		t.Errorf("status = %s, want %s", view.Status, models.StatusPending)
	}
	if view.PatientName != "Asha Verma" {
		t.Errorf("patient name = %q, want %q", view.PatientName, "Asha Verma")
	}
	if view.DoctorName != "Dr. Priya Nair" {
		t.Errorf("doctor name = %q, want %q", view.DoctorName, "Dr. Priya Nair")
	}
	if view.DoctorSpecialization != "Cardiology" {
		t.Errorf("specialization = %q, want Cardiology", view.DoctorSpecialization)
	}

	stored, err := s.GetAppointment(view.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("stored status = %s, want PENDING", stored.Status)
	}

	got := recorder.events()
	if len(got) != 1 || got[0].Type != events.AppointmentBooked {
		t.Fatalf("events = %+v, want one AppointmentBooked", got)
	}
}

func TestBookRejectsPastDate(t *testing.T) {
	engine, s, recorder, dispatcher := newTestEngine(t)

	req := bookRequest()
	req.AppointmentDateTime = time.Now().Add(-time.Hour)
	if _, err := engine.Book(patientID, req); !errors.Is(err, store.ErrPastAppointment) {
		t.Fatalf("err = %v, want ErrPastAppointment", err)
	}
	dispatcher.Wait()

	if len(s.appointments) != 0 {
		t.Errorf("appointment was created despite past date")
	}
	if len(recorder.events()) != 0 {
		t.Errorf("events were dispatched despite failed booking")
	}
}

func TestBookRequiresReason(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	req := bookRequest()
	req.ReasonForVisit = ""
	if _, err := engine.Book(patientID, req); !errors.Is(err, store.ErrReasonRequired) {
		t.Fatalf("err = %v, want ErrReasonRequired", err)
	}
}

func TestBookUnknownParticipants(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	if _, err := engine.Book(99, bookRequest()); !errors.Is(err, store.ErrPatientNotFound) {
		t.Errorf("unknown patient err = %v, want ErrPatientNotFound", err)
	}

	req := bookRequest()
	req.DoctorID = 99
	if _, err := engine.Book(patientID, req); !errors.Is(err, store.ErrDoctorNotFound) {
		t.Errorf("unknown doctor err = %v, want ErrDoctorNotFound", err)
	}
}

func TestBookInactiveDoctor(t *testing.T) {
	engine, s, _, _ := newTestEngine(t)
	s.doctors[doctorID].IsActive = false

	if _, err := engine.Book(patientID, bookRequest()); !errors.Is(err, store.ErrDoctorInactive) {
		t.Fatalf("err = %v, want ErrDoctorInactive", err)
	}
}

func TestUpdateStatusApproves(t *testing.T) {
	engine, _, recorder, dispatcher := newTestEngine(t)
	booked := mustBook(t, engine)

	view, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "Bring prior ECG reports", doctorID)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	dispatcher.Wait()

	if view.Status != models.StatusApproved {
		t.Errorf("status = %s, want APPROVED", view.Status)
	}
	if view.DoctorNotes != "Bring prior ECG reports" {
		t.Errorf("doctor notes = %q, want the approval note", view.DoctorNotes)
	}
	if view.RejectionReason != "" {
		t.Errorf("rejection reason = %q, want empty", view.RejectionReason)
	}

	got := recorder.events()
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	last := got[1]
	if last.Type != events.AppointmentStatusChanged || last.NewStatus != models.StatusApproved {
		t.Errorf("last event = %s/%s, want status change to APPROVED", last.Type, last.NewStatus)
	}
}

func TestUpdateStatusRejectionStoresReason(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)

	view, err := engine.UpdateStatus(booked.ID, models.StatusRejected, "Fully booked this week", doctorID)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if view.RejectionReason != "Fully booked this week" {
		t.Errorf("rejection reason = %q, want the rejection note", view.RejectionReason)
	}
	if view.DoctorNotes != "" {
		t.Errorf("doctor notes = %q, want empty", view.DoctorNotes)
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	engine, s, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)

	if _, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "", otherDoctorID); !errors.Is(err, store.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	stored, _ := s.GetAppointment(booked.ID)
	if stored.Status != models.StatusPending {
		t.Errorf("status changed by a non-owner to %s", stored.Status)
	}
}

func TestUpdateStatusIllegalTransitions(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)

	if _, err := engine.UpdateStatus(booked.ID, models.StatusCompleted, "", doctorID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("pending->completed err = %v, want ErrInvalidTransition", err)
	}
	if _, err := engine.UpdateStatus(booked.ID, "DONE", "", doctorID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("unknown status err = %v, want ErrInvalidTransition", err)
	}

	if _, err := engine.UpdateStatus(booked.ID, models.StatusRejected, "", doctorID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "", doctorID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("terminal transition err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	if _, err := engine.UpdateStatus(99, models.StatusApproved, "", doctorID); !errors.Is(err, store.ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestCancelPendingAppointment(t *testing.T) {
	engine, s, recorder, dispatcher := newTestEngine(t)
	booked := mustBook(t, engine)
	dispatcher.Wait()
	before := len(recorder.events())

	if err := engine.Cancel(booked.ID, patientID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	dispatcher.Wait()

	stored, _ := s.GetAppointment(booked.ID)
	if stored.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", stored.Status)
	}
	if stored.RejectionReason != models.CancelledByPatientReason {
		t.Errorf("reason = %q, want %q", stored.RejectionReason, models.CancelledByPatientReason)
	}
	if len(recorder.events()) != before {
		t.Errorf("patient cancellation dispatched side effects")
	}
}

func TestCancelApprovedAppointment(t *testing.T) {
	engine, s, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)
	if _, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "", doctorID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := engine.Cancel(booked.ID, patientID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	stored, _ := s.GetAppointment(booked.ID)
	if stored.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", stored.Status)
	}
}

func TestCancelOwnership(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)

	if err := engine.Cancel(booked.ID, otherPatientID); !errors.Is(err, store.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestCancelTerminalAppointment(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)
	if _, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "", doctorID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := engine.UpdateStatus(booked.ID, models.StatusCompleted, "", doctorID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := engine.Cancel(booked.ID, patientID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("cancel completed err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelTwice(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	booked := mustBook(t, engine)

	if err := engine.Cancel(booked.ID, patientID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := engine.Cancel(booked.ID, patientID); !errors.Is(err, store.ErrInvalidTransition) {
		t.Errorf("second cancel err = %v, want ErrInvalidTransition", err)
	}
}

func TestFullLifecycleDispatchesEachChangeOnce(t *testing.T) {
	engine, _, recorder, dispatcher := newTestEngine(t)

	booked := mustBook(t, engine)
	if _, err := engine.UpdateStatus(booked.ID, models.StatusApproved, "", doctorID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := engine.UpdateStatus(booked.ID, models.StatusCompleted, "Follow up in six months", doctorID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	dispatcher.Wait()

	got := recorder.events()
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	completions := 0
	for _, event := range got {
		if event.Type == events.AppointmentStatusChanged && event.NewStatus == models.StatusCompleted {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("completion dispatched %d times, want exactly once", completions)
	}
}

func TestConcurrentConflictingTransitions(t *testing.T) {
	engine, s, _, dispatcher := newTestEngine(t)
	booked := mustBook(t, engine)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = engine.UpdateStatus(booked.ID, models.StatusApproved, "", doctorID)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = engine.UpdateStatus(booked.ID, models.StatusRejected, "No availability", doctorID)
	}()
	wg.Wait()
	dispatcher.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else if !errors.Is(err, store.ErrInvalidTransition) {
			t.Errorf("loser err = %v, want ErrInvalidTransition", err)
		}
	}
	if winners != 1 {
		t.Fatalf("%d transitions succeeded, want exactly 1", winners)
	}

	stored, _ := s.GetAppointment(booked.ID)
	if stored.Status != models.StatusApproved && stored.Status != models.StatusRejected {
		t.Errorf("final status = %s, want APPROVED or REJECTED", stored.Status)
	}
}

func TestListByPatientAndDoctor(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	middle := time.Now().Add(48 * time.Hour)
	latest := time.Now().Add(96 * time.Hour)
	earliest := time.Now().Add(24 * time.Hour)
	// Booked out of order so sorted output cannot be insertion order.
	for _, when := range []time.Time{middle, latest, earliest} {
		req := bookRequest()
		req.AppointmentDateTime = when
		if _, err := engine.Book(patientID, req); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}

	byPatient, err := engine.ListByPatient(patientID)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(byPatient) != 3 {
		t.Fatalf("patient list has %d entries, want 3", len(byPatient))
	}
	for i := 1; i < len(byPatient); i++ {
		if byPatient[i].AppointmentDateTime.After(byPatient[i-1].AppointmentDateTime) {
			t.Errorf("patient list not in descending date order at index %d", i)
		}
	}
	if !byPatient[0].AppointmentDateTime.Equal(latest) {
		t.Errorf("patient list starts at %v, want the latest appointment", byPatient[0].AppointmentDateTime)
	}
	if !byPatient[2].AppointmentDateTime.Equal(earliest) {
		t.Errorf("patient list ends at %v, want the earliest appointment", byPatient[2].AppointmentDateTime)
	}

	byDoctor, err := engine.ListByDoctor(doctorID)
	if err != nil {
		t.Fatalf("ListByDoctor: %v", err)
	}
	if len(byDoctor) != 3 {
		t.Fatalf("doctor list has %d entries, want 3", len(byDoctor))
	}
	for i := 1; i < len(byDoctor); i++ {
		if byDoctor[i].AppointmentDateTime.After(byDoctor[i-1].AppointmentDateTime) {
			t.Errorf("doctor list not in descending date order at index %d", i)
		}
	}

	empty, err := engine.ListByDoctor(otherDoctorID)
	if err != nil {
		t.Fatalf("ListByDoctor: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("other doctor list has %d entries, want 0", len(empty))
	}
}
