package usecase

import (
	"context"
	"fmt"
	"sync"

	"asistencia-service/internal/domain/entity"
)

// memoryAttendeeRepository mirrors the Mongo repository semantics in memory
type memoryAttendeeRepository struct {
	mu        sync.Mutex
	seq       int
	attendees map[string]*entity.Attendee
	countErr  error
}

func newMemoryAttendeeRepository() *memoryAttendeeRepository {
	return &memoryAttendeeRepository{attendees: map[string]*entity.Attendee{}}
}

func (r *memoryAttendeeRepository) NextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%024x", r.seq)
}

func (r *memoryAttendeeRepository) Create(ctx context.Context, a *entity.Attendee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.attendees {
		if existing.Email == a.Email {
			return entity.ErrValidation("El correo " + a.Email + " ya está registrado")
		}
	}
	cp := *a
	r.attendees[a.ID] = &cp
	return nil
}

func (r *memoryAttendeeRepository) FindByID(ctx context.Context, id string) (*entity.Attendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attendees[id]
	if !ok {
		return nil, entity.ErrNotFound("attendee " + id + " not found")
	}
	cp := *a
	cp.Asistencias = append([]entity.AttendanceEntry(nil), a.Asistencias...)
	return &cp, nil
}

func (r *memoryAttendeeRepository) AppendAttendance(ctx context.Context, id string, entry entity.AttendanceEntry) (*entity.Attendee, bool, error) {
	r.mu.Lock()
	a, ok := r.attendees[id]
	if !ok {
		r.mu.Unlock()
		return nil, false, entity.ErrNotFound("attendee " + id + " not found")
	}
	_, exists := a.AttendanceOn(entry.Fecha)
	if !exists {
		a.Asistencias = append(a.Asistencias, entry)
	}
	r.mu.Unlock()

	got, err := r.FindByID(ctx, id)
	return got, !exists, err
}

func (r *memoryAttendeeRepository) CountByAttendanceDate(ctx context.Context, fecha string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.attendees {
		if _, ok := a.AttendanceOn(fecha); ok {
			n++
		}
	}
	return n, nil
}

type fakeEncoder struct{ err error }

func (f fakeEncoder) DataURI(content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "data:image/png;base64,cG5n", nil
}

type fakeBlob struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func (f *fakeBlob) EnsureContainer(ctx context.Context) error { return nil }

func (f *fakeBlob) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return "https://cdn.example.com/tickets/" + key, nil
}

type fakeMailer struct {
	sent []*entity.OutboundEmail
	err  error
}

func (f *fakeMailer) Provider() string { return "fake" }

func (f *fakeMailer) Send(ctx context.Context, email *entity.OutboundEmail) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, email)
	return fmt.Sprintf("msg_%d", len(f.sent)), nil
}

type fakeDeliveries struct {
	records   []*entity.TicketDelivery
	lookups   []string
	err       error
	lookupErr error
}

func (f *fakeDeliveries) Record(ctx context.Context, d *entity.TicketDelivery) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, d)
	return nil
}

// FindByEmail returns the newest deliveries first
func (f *fakeDeliveries) FindByEmail(ctx context.Context, email string, limit int) ([]*entity.TicketDelivery, error) {
	f.lookups = append(f.lookups, email)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	var out []*entity.TicketDelivery
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].Email == email {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}
