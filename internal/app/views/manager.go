package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	calendarapp "roomdesk/internal/app/handlers/calendar"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/schedule"
	domaincalendar "roomdesk/internal/domain/calendar"
	"roomdesk/internal/domain/rooms"
	"roomdesk/internal/domain/shared/daterange"
)

var (
	ErrViewNotFound    = errors.New("views: view not found")
	ErrHotelRequired   = errors.New("views: hotel id required")
	ErrManagerClosed   = errors.New("views: manager closed")
	errStaleGeneration = errors.New("views: response superseded")
)

// Manager owns the mounted calendar views. Each view reloads rooms and bookings
// on its own timer and after every successful mutation.
type Manager struct {
	hotels   policies.HotelDirectory
	commands commands.Bus
	now      func() time.Time
	interval time.Duration
	logger   *slog.Logger

	base   context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	views  map[string]*view
	closed bool
}

type Config struct {
	Hotels   policies.HotelDirectory
	Commands commands.Bus
	Now      func() time.Time
	// RefreshInterval <= 0 uses schedule.DefaultInterval.
	RefreshInterval time.Duration
	Logger          *slog.Logger
}

func NewManager(cfg Config) *Manager {
	if cfg.Hotels == nil {
		panic("views: hotel directory required")
	}
	if cfg.Commands == nil {
		panic("views: command bus required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	base, cancel := context.WithCancel(context.Background())
	return &Manager{
		hotels:   cfg.Hotels,
		commands: cfg.Commands,
		now:      now,
		interval: cfg.RefreshInterval,
		logger:   cfg.Logger,
		base:     base,
		cancel:   cancel,
		views:    make(map[string]*view),
	}
}

// Mount registers a view, loads it and starts its refresh timer. A failed first
// load still mounts the view; the error is reported in its state.
func (m *Manager) Mount(ctx context.Context, p Params) (State, error) {
	if p.HotelID == "" {
		return State{}, ErrHotelRequired
	}
	p = m.normalize(p)
	v := &view{id: uuid.NewString(), params: p}
	v.refresh = &schedule.Periodic{
		Name:     "view-refresh:" + v.id,
		Interval: m.interval,
		Logger:   m.logger,
		Task: func(ctx context.Context) {
			_ = m.reload(ctx, v)
		},
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return State{}, ErrManagerClosed
	}
	m.views[v.id] = v
	m.mu.Unlock()

	loadErr := m.reload(ctx, v)
	v.refresh.Start(m.base)
	if m.logger != nil {
		m.logger.Info("calendar view mounted", "view_id", v.id, "hotel_id", p.HotelID, "view", p.View, "anchor", p.Anchor)
	}
	return m.state(v), loadErr
}

// Unmount stops the view's timer and forgets it.
func (m *Manager) Unmount(id string) error {
	m.mu.Lock()
	v, ok := m.views[id]
	delete(m.views, id)
	m.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	v.refresh.Stop()
	if m.logger != nil {
		m.logger.Info("calendar view unmounted", "view_id", id)
	}
	return nil
}

func (m *Manager) Get(id string) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	return m.state(v), nil
}

// Change applies new params. Moving the window discards loaded data, closes the
// overlay and refetches; responses to fetches started before the change are
// dropped when they arrive.
func (m *Manager) Change(ctx context.Context, id string, p Params) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	if p.HotelID == "" {
		return State{}, ErrHotelRequired
	}
	p = m.normalize(p)

	v.mu.Lock()
	if v.params.sameWindow(p) {
		v.params = p
		v.overlay.Close()
		if v.loaded {
			v.renderLocked(m.today())
		}
		v.mu.Unlock()
		return m.state(v), nil
	}
	v.params = p
	v.generation++
	v.snap = calendarapp.Snapshot{}
	v.dates = nil
	v.grid = domaincalendar.Grid{}
	v.loaded = false
	v.lastErr = ""
	v.overlay.Close()
	v.mu.Unlock()

	err = m.reload(ctx, v)
	return m.state(v), err
}

// Reload refetches the current window. On failure the previous data stays and
// the error is kept in the state.
func (m *Manager) Reload(ctx context.Context, id string) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	err = m.reload(ctx, v)
	return m.state(v), err
}

// Select opens the quick-booking overlay on an empty cell of an available room.
func (m *Manager) Select(id string, roomID rooms.RoomID, date daterange.Date) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	v.mu.Lock()
	_, err = v.overlay.Open(v.grid, roomID, date)
	st := v.stateLocked(m.today())
	v.mu.Unlock()
	return st, err
}

func (m *Manager) CancelSelection(id string) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	v.mu.Lock()
	v.overlay.Close()
	st := v.stateLocked(m.today())
	v.mu.Unlock()
	return st, nil
}

// QuickBookingForm is what the overlay collects on top of the selected cell.
type QuickBookingForm struct {
	CheckOut        daterange.Date
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Guests          int
	SpecialRequests string
	IdempotencyKey  string
}

// SubmitQuickBooking sends the selected cell and form to the booking command
// exactly once and closes the overlay whatever the outcome. Success reloads the
// whole view; failure leaves the grid as it was. With the overlay already closed,
// a form carrying the idempotency key of the view's last submission resends that
// submission so the client gets the stored outcome back.
func (m *Manager) SubmitQuickBooking(ctx context.Context, id string, form QuickBookingForm) (State, *dto.QuickBookingResult, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, nil, err
	}
	v.mu.Lock()
	sel, open := v.overlay.Current()
	hotelID := v.params.HotelID
	last := v.lastSubmit
	v.overlay.Close()
	var cmd calendarapp.QuickBookingCommand
	switch {
	case open:
		cmd = calendarapp.QuickBookingCommand{
			HotelID:         hotelID,
			RoomID:          string(sel.RoomID),
			CheckIn:         sel.Date.String(),
			CheckOut:        form.CheckOut.String(),
			GuestName:       form.GuestName,
			GuestEmail:      form.GuestEmail,
			GuestPhone:      form.GuestPhone,
			Guests:          form.Guests,
			SpecialRequests: form.SpecialRequests,
			IdempotencyKeyV: form.IdempotencyKey,
		}
		if cmd.IdempotencyKeyV != "" {
			v.lastSubmit = &cmd
		}
	case last != nil && form.IdempotencyKey != "" && last.IdempotencyKeyV == form.IdempotencyKey:
		cmd = *last
	default:
		v.mu.Unlock()
		return m.state(v), nil, domaincalendar.ErrNoSelection
	}
	v.mu.Unlock()

	res, err := commands.Dispatch[calendarapp.QuickBookingCommand, *dto.QuickBookingResult](ctx, m.commands, cmd)
	if err != nil {
		m.fail(v, fmt.Sprintf("could not create booking: %v", err))
		return m.state(v), nil, err
	}
	if err := m.reload(ctx, v); err != nil && m.logger != nil {
		m.logger.Warn("reload after quick booking failed", "view_id", v.id, "error", err)
	}
	return m.state(v), res, nil
}

// UpdateRoomStatus changes a room's status upstream and reloads on success.
func (m *Manager) UpdateRoomStatus(ctx context.Context, id string, roomID rooms.RoomID, status string) (State, error) {
	v, err := m.lookup(id)
	if err != nil {
		return State{}, err
	}
	v.mu.Lock()
	hotelID := v.params.HotelID
	v.mu.Unlock()

	cmd := calendarapp.UpdateRoomStatusCommand{HotelID: hotelID, RoomID: string(roomID), Status: status}
	if _, err := commands.Dispatch[calendarapp.UpdateRoomStatusCommand, *dto.Room](ctx, m.commands, cmd); err != nil {
		m.fail(v, fmt.Sprintf("could not update room status: %v", err))
		return m.state(v), err
	}
	if err := m.reload(ctx, v); err != nil && m.logger != nil {
		m.logger.Warn("reload after status change failed", "view_id", v.id, "error", err)
	}
	return m.state(v), nil
}

// RefreshHotel reloads every view showing hotelID and returns how many it touched.
func (m *Manager) RefreshHotel(ctx context.Context, hotelID string) int {
	m.mu.RLock()
	var targets []*view
	for _, v := range m.views {
		v.mu.Lock()
		if v.params.HotelID == hotelID {
			targets = append(targets, v)
		}
		v.mu.Unlock()
	}
	m.mu.RUnlock()
	for _, v := range targets {
		_ = m.reload(ctx, v)
	}
	return len(targets)
}

// Close stops every timer. Mount fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	all := make([]*view, 0, len(m.views))
	for _, v := range m.views {
		all = append(all, v)
	}
	m.views = map[string]*view{}
	m.mu.Unlock()

	m.cancel()
	for _, v := range all {
		v.refresh.Stop()
	}
}

// Len is the number of mounted views.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.views)
}

func (m *Manager) reload(ctx context.Context, v *view) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	gen := v.generation
	p := v.params
	v.mu.Unlock()

	dates := domaincalendar.Dates(p.Anchor, p.View)
	snap, err := calendarapp.Fetch(ctx, m.hotels, p.HotelID, domaincalendar.WindowOf(dates))

	v.mu.Lock()
	defer v.mu.Unlock()
	// only the most recently started load may touch the view
	if gen != v.generation || seq != v.loadSeq {
		if m.logger != nil {
			m.logger.Debug("discarding stale calendar response", "view_id", v.id, "generation", gen, "current", v.generation, "load", seq, "latest", v.loadSeq)
		}
		return errStaleGeneration
	}
	if err != nil {
		v.lastErr = fmt.Sprintf("could not load calendar: %v", err)
		if m.logger != nil {
			m.logger.Warn("calendar load failed", "view_id", v.id, "hotel_id", p.HotelID, "error", err)
		}
		return err
	}
	v.snap = snap
	v.dates = dates
	v.loaded = true
	v.loadedAt = m.now().UTC()
	v.lastErr = ""
	v.renderLocked(m.today())
	// the selected cell may have been taken by someone else
	if sel, open := v.overlay.Current(); open {
		if cell, err := v.grid.Cell(sel.RoomID, sel.Date); err != nil || !cell.CanCreate {
			v.overlay.Close()
		}
	}
	return nil
}

func (m *Manager) fail(v *view, msg string) {
	v.mu.Lock()
	v.lastErr = msg
	v.mu.Unlock()
}

func (m *Manager) state(v *view) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked(m.today())
}

func (m *Manager) lookup(id string) (*view, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

func (m *Manager) normalize(p Params) Params {
	if p.Anchor.IsZero() {
		p.Anchor = m.today()
	}
	p.View = domaincalendar.ParseViewMode(string(p.View))
	return p
}

func (m *Manager) today() daterange.Date {
	return daterange.Today(m.now)
}

// IsStale reports whether err only means a newer load replaced this one.
func IsStale(err error) bool {
	return errors.Is(err, errStaleGeneration)
}
