package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	pasien "github.com/c14220110/poliklinik-dispatch/internal/administrasi/models"
	"github.com/c14220110/poliklinik-dispatch/internal/antrian/models"
	"github.com/c14220110/poliklinik-dispatch/internal/common/metrics"
)

// DefaultSpecialties is the catalog used when Options.Specialties is empty.
var DefaultSpecialties = []string{"General Medicine", "Cardiology", "Pediatrics", "Dermatology"}

// DuplicatePolicy decides whether a patient may wait in more than one queue
// (or twice in the same queue) at the same time.
type DuplicatePolicy int

const (
	AllowDuplicates DuplicatePolicy = iota
	RejectIfQueued
)

func (p DuplicatePolicy) String() string {
	switch p {
	case AllowDuplicates:
		return "allow"
	case RejectIfQueued:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy maps the config values "allow" and "reject".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return AllowDuplicates, nil
	case "reject":
		return RejectIfQueued, nil
	default:
		return AllowDuplicates, fmt.Errorf("unknown duplicate policy %q", s)
	}
}

type Options struct {
	Specialties     []string
	DuplicatePolicy DuplicatePolicy
	Logger          *zerolog.Logger
	Metrics         *metrics.DispatchMetrics
}

// DispatchManager owns the patient registry, one FIFO queue per specialty
// and the emergency queue. All methods are safe for concurrent use; a single
// mutex guards the whole state.
type DispatchManager struct {
	mu sync.Mutex

	registry map[string]pasien.Patient
	order    []string // registration order of ids

	specialties []string
	queues      map[string]*patientQueue
	emergency   *patientQueue
	queued      map[string]int // id -> entries across all queues

	policy  DuplicatePolicy
	log     zerolog.Logger
	metrics *metrics.DispatchMetrics
}

func NewDispatchManager(opts Options) (*DispatchManager, error) {
	specialties := opts.Specialties
	if len(specialties) == 0 {
		specialties = DefaultSpecialties
	}

	m := &DispatchManager{
		registry:    make(map[string]pasien.Patient),
		specialties: make([]string, 0, len(specialties)),
		queues:      make(map[string]*patientQueue, len(specialties)),
		emergency:   &patientQueue{},
		queued:      make(map[string]int),
		policy:      opts.DuplicatePolicy,
		log:         zerolog.Nop(),
		metrics:     opts.Metrics,
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "dispatch").Logger()
	}

	for _, name := range specialties {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: blank specialty name", ErrInvalidCatalog)
		}
		if strings.EqualFold(name, models.EmergencyQueue) {
			return nil, fmt.Errorf("%w: %q is reserved for the emergency queue", ErrInvalidCatalog, name)
		}
		if _, exists := m.queues[name]; exists {
			return nil, fmt.Errorf("%w: duplicate specialty %q", ErrInvalidCatalog, name)
		}
		m.specialties = append(m.specialties, name)
		m.queues[name] = &patientQueue{}
		m.metrics.SetQueueDepth(name, 0)
	}
	m.metrics.SetQueueDepth(models.EmergencyQueue, 0)

	m.log.Info().
		Strs("specialties", m.specialties).
		Str("duplicate_policy", m.policy.String()).
		Msg("dispatch manager ready")
	return m, nil
}

// Register adds a patient to the registry. A second registration with the
// same id fails with ErrDuplicatePatient and leaves the registry unchanged.
func (m *DispatchManager) Register(p pasien.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.registry[p.ID]; exists {
		m.metrics.ObserveRegistration("duplicate")
		m.log.Warn().Str("patient_id", p.ID).Msg("duplicate registration rejected")
		return fmt.Errorf("%w: id %s", ErrDuplicatePatient, p.ID)
	}

	m.registry[p.ID] = p
	m.order = append(m.order, p.ID)
	m.metrics.ObserveRegistration("registered")
	m.log.Info().Str("patient_id", p.ID).Int("registered", len(m.order)).Msg("patient registered")
	return nil
}

// Patient looks up a registered patient by id.
func (m *DispatchManager) Patient(id string) (pasien.Patient, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry[id]
	return p, ok
}

// AssignToQueue appends the patient to the tail of a specialty queue.
func (m *DispatchManager) AssignToQueue(p *pasien.Patient, specialty string) (models.Assignment, error) {
	if p == nil {
		m.metrics.ObserveAssignment(m.requestedLabel(specialty), "no_patient")
		return models.Assignment{}, ErrNoPatientSelected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignLocked(*p, specialty)
}

// AssignToQueueByID resolves the patient in the registry first, then assigns
// it like AssignToQueue.
func (m *DispatchManager) AssignToQueueByID(id, specialty string) (models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry[id]
	if !ok {
		m.metrics.ObserveAssignment(m.requestedLabel(specialty), "not_found")
		return models.Assignment{}, fmt.Errorf("%w: id %s", ErrPatientNotFound, id)
	}
	return m.assignLocked(p, specialty)
}

// AssignToEmergency appends the patient to the tail of the emergency queue.
// There is no check that the case is really an emergency.
func (m *DispatchManager) AssignToEmergency(p *pasien.Patient) (models.Assignment, error) {
	if p == nil {
		m.metrics.ObserveAssignment(models.EmergencyQueue, "no_patient")
		return models.Assignment{}, ErrNoPatientSelected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enqueueLocked(m.emergency, models.EmergencyQueue, *p)
}

func (m *DispatchManager) AssignToEmergencyByID(id string) (models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.registry[id]
	if !ok {
		m.metrics.ObserveAssignment(models.EmergencyQueue, "not_found")
		return models.Assignment{}, fmt.Errorf("%w: id %s", ErrPatientNotFound, id)
	}
	return m.enqueueLocked(m.emergency, models.EmergencyQueue, p)
}

func (m *DispatchManager) assignLocked(p pasien.Patient, specialty string) (models.Assignment, error) {
	q, ok := m.queues[specialty]
	if !ok {
		m.metrics.ObserveAssignment("unknown", "unknown_specialty")
		m.log.Warn().Str("patient_id", p.ID).Str("specialty", specialty).Msg("assignment to unknown specialty")
		return models.Assignment{}, fmt.Errorf("%w: %q", ErrUnknownSpecialty, specialty)
	}
	return m.enqueueLocked(q, specialty, p)
}

func (m *DispatchManager) enqueueLocked(q *patientQueue, name string, p pasien.Patient) (models.Assignment, error) {
	if m.policy == RejectIfQueued && m.queued[p.ID] > 0 {
		m.metrics.ObserveAssignment(name, "already_queued")
		m.log.Warn().Str("patient_id", p.ID).Str("queue", name).Msg("patient already waiting")
		return models.Assignment{}, fmt.Errorf("%w: id %s", ErrAlreadyQueued, p.ID)
	}

	q.push(p)
	m.queued[p.ID]++
	m.metrics.ObserveAssignment(name, "assigned")
	m.metrics.SetQueueDepth(name, q.size())
	m.log.Info().Str("patient_id", p.ID).Str("queue", name).Int("position", q.size()).Msg("patient assigned")

	return models.Assignment{
		PatientID:   p.ID,
		PatientName: p.DisplayName(),
		Queue:       name,
		Position:    q.size(),
		Message:     fmt.Sprintf("Patient %s assigned to the %s queue.", p.DisplayName(), name),
	}, nil
}

// CallNext takes the next patient for a specialty. The emergency queue is
// always served first, whatever specialty was asked for. The bool is false
// when nobody is waiting in the emergency queue or in that specialty's queue
// (including when the specialty is unknown); that is not an error.
func (m *DispatchManager) CallNext(specialty string) (models.Dispatch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, q := models.EmergencyQueue, m.emergency
	if q.size() == 0 {
		sq, ok := m.queues[specialty]
		if !ok || sq.size() == 0 {
			m.metrics.ObserveCall(m.requestedLabel(specialty), "")
			m.log.Debug().Str("specialty", specialty).Msg("no patient waiting")
			return models.Dispatch{}, false
		}
		name, q = specialty, sq
	}

	p := q.pop()
	if m.queued[p.ID]--; m.queued[p.ID] <= 0 {
		delete(m.queued, p.ID)
	}
	m.metrics.ObserveCall(m.requestedLabel(specialty), name)
	m.metrics.SetQueueDepth(name, q.size())
	m.log.Info().Str("patient_id", p.ID).Str("queue", name).Str("specialty", specialty).Msg("patient called")

	return models.Dispatch{Patient: p, Queue: name}, true
}

// requestedLabel keeps metric cardinality bounded to the catalog. The queue
// map is never written after construction, so no lock is needed.
func (m *DispatchManager) requestedLabel(specialty string) string {
	if _, ok := m.queues[specialty]; ok {
		return specialty
	}
	return "unknown"
}

// ListSpecialties returns the catalog in configuration order.
func (m *DispatchManager) ListSpecialties() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.specialties...)
}

// ListRegisteredPatients returns a copy of the registry in registration order.
func (m *DispatchManager) ListRegisteredPatients() []pasien.Patient {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]pasien.Patient, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.registry[id])
	}
	return out
}

// QueueStatusSnapshot returns waiting counts keyed by queue name, with the
// emergency queue under models.EmergencyQueue.
func (m *DispatchManager) QueueStatusSnapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int, len(m.queues)+1)
	out[models.EmergencyQueue] = m.emergency.size()
	for name, q := range m.queues {
		out[name] = q.size()
	}
	return out
}

// QueueStatus is QueueStatusSnapshot in display order: emergency first, then
// the catalog order.
func (m *DispatchManager) QueueStatus() []models.QueueCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.QueueCount, 0, len(m.specialties)+1)
	out = append(out, models.QueueCount{Queue: models.EmergencyQueue, Waiting: m.emergency.size()})
	for _, name := range m.specialties {
		out = append(out, models.QueueCount{Queue: name, Waiting: m.queues[name].size()})
	}
	return out
}

// Waiting returns a copy of the patients waiting in one queue, head first.
func (m *DispatchManager) Waiting(queue string) ([]pasien.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if queue == models.EmergencyQueue {
		return m.emergency.snapshot(), nil
	}
	q, ok := m.queues[queue]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecialty, queue)
	}
	return q.snapshot(), nil
}

// patientQueue is a FIFO of patient values.
type patientQueue struct {
	items []pasien.Patient
}

func (q *patientQueue) push(p pasien.Patient) {
	q.items = append(q.items, p)
}

func (q *patientQueue) pop() pasien.Patient {
	p := q.items[0]
	q.items[0] = pasien.Patient{}
	q.items = q.items[1:]
	return p
}

func (q *patientQueue) size() int {
	return len(q.items)
}

func (q *patientQueue) snapshot() []pasien.Patient {
	out := make([]pasien.Patient, len(q.items))
	copy(out, q.items)
	return out
}
