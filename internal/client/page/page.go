package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
)

var (
	ErrNotLoaded       = errors.New("profile is not loaded yet")
	ErrNotEditing      = errors.New("not in edit mode")
	ErrEditing         = errors.New("finish editing with save first")
	ErrNothingToRetry  = errors.New("there are no unsynced changes")
	ErrSessionNotFound = errors.New("no edit session")
)

// API is the part of the profile backend the page talks to.
type API interface {
	GetProfile(ctx context.Context) (*models.UserInfo, error)
	SaveProfile(ctx context.Context, u *models.UserInfo) (*models.UserInfo, error)
}

// Drafts keeps a record whose save failed, so it survives a restart.
type Drafts interface {
	SaveDraft(ctx context.Context, u *models.UserInfo) error
	LoadDraft(ctx context.Context) (*models.UserInfo, error)
	ClearDraft(ctx context.Context) error
}

type Deps struct {
	API      API
	Notifier Notifier
	Drafts   Drafts
	Location *time.Location
	Logger   logging.Logger
	Now      func() time.Time
}

type requestKind int

const (
	kindFetch requestKind = iota
	kindSave
)

// Page owns the page state. All fields below mu are guarded by it; network
// calls are made without holding it.
type Page struct {
	api    API
	notify Notifier
	drafts Drafts
	loc    *time.Location
	logger logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    LoadState
	mode     Mode
	lastGood *models.UserInfo
	unsynced bool
	start    timex.TimeOfDay
	end      timex.TimeOfDay
	session  *EditSession

	// Every request takes a ticket from seq. A completion is applied only
	// when its ticket is still the newest of its kind and not older than
	// the last state change.
	seq     uint64
	latest  [2]uint64
	applied uint64
}

func New(d Deps) *Page {
	p := &Page{
		api:    d.API,
		notify: d.Notifier,
		drafts: d.Drafts,
		loc:    d.Location,
		logger: d.Logger,
		now:    d.Now,
		state:  NotLoaded{},
		mode:   Viewing,
		start:  timex.DefaultStart,
		end:    timex.DefaultEnd,
	}
	if p.notify == nil {
		p.notify = NotifierFunc(func(Notification) {})
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.logger == nil {
		p.logger = logging.Nop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

func (p *Page) ticket(k requestKind) uint64 {
	p.seq++
	p.latest[k] = p.seq
	return p.seq
}

func (p *Page) current(k requestKind, t uint64) bool {
	return p.latest[k] == t && t >= p.applied
}

// show puts u on display and reseeds the local time slots from it.
func (p *Page) show(u *models.UserInfo, t uint64) {
	u = u.Clone()
	if u.ExpertProfile == nil {
		u.ExpertProfile = &models.ExpertProfile{}
	}
	u.ExpertProfile.Normalize()

	p.state = Loaded{User: u}
	p.start, p.end = timex.DefaultStart, timex.DefaultEnd
	if s := u.ExpertProfile.StartTimeSlot; s != nil {
		p.start = timex.TimeOfDayFromUTC(*s, p.loc)
	}
	if e := u.ExpertProfile.EndTimeSlot; e != nil {
		p.end = timex.TimeOfDayFromUTC(*e, p.loc)
	}
	p.applied = t
}

// Load fetches the profile and puts it on display. A draft left by an
// earlier failed save is shown on top of it, marked unsynced. On failure
// the state is left as it was and a notification is emitted.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.mode == Editing {
		p.mu.Unlock()
		return ErrEditing
	}
	t := p.ticket(kindFetch)
	p.mu.Unlock()

	u, err := p.api.GetProfile(ctx)
	if err != nil {
		p.mu.Lock()
		stale := !p.current(kindFetch, t)
		p.mu.Unlock()
		if !stale {
			p.notify.Notify(fetchFailed(err))
		}
		return err
	}

	draft := p.loadDraft(ctx, u)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.current(kindFetch, t) {
		p.logger.Debug(ctx, "stale fetch discarded", "ticket", t)
		return nil
	}
	p.lastGood = u.Clone()
	p.unsynced = false
	if draft != nil {
		p.show(draft, t)
		p.unsynced = true
	} else {
		p.show(u, t)
	}
	return nil
}

func (p *Page) loadDraft(ctx context.Context, server *models.UserInfo) *models.UserInfo {
	if p.drafts == nil {
		return nil
	}
	d, err := p.drafts.LoadDraft(ctx)
	if err != nil {
		p.logger.Warn(ctx, "draft unreadable", "error", err)
		return nil
	}
	if d == nil || d.ID != server.ID {
		return nil
	}
	return d
}

// Reload discards unsynced changes and fetches the server record again.
func (p *Page) Reload(ctx context.Context) error {
	p.mu.Lock()
	editing := p.mode == Editing
	p.mu.Unlock()
	if editing {
		return ErrEditing
	}

	if p.drafts != nil {
		if err := p.drafts.ClearDraft(ctx); err != nil {
			p.logger.Warn(ctx, "draft clear failed", "error", err)
		}
	}
	return p.Load(ctx)
}

// Edit switches to edit mode and opens a session over the record on
// display.
func (p *Page) Edit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	loaded, ok := p.state.(Loaded)
	if !ok {
		return ErrNotLoaded
	}
	if p.mode == Editing {
		return nil
	}
	p.session = newEditSession(loaded.User, p.start, p.end)
	p.mode = Editing
	return nil
}

// Toggle is the single edit/save button.
func (p *Page) Toggle(ctx context.Context) error {
	p.mu.Lock()
	mode := p.mode
	p.mu.Unlock()

	if mode == Editing {
		return p.Save(ctx)
	}
	return p.Edit()
}

// Mutate runs fn against the open edit session.
func (p *Page) Mutate(fn func(s *EditSession) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode != Editing || p.session == nil {
		return ErrNotEditing
	}
	return fn(p.session)
}

// Save leaves edit mode, shows the merged record right away and submits
// it. A failed submit keeps the merged record on display marked unsynced.
func (p *Page) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.mode != Editing || p.session == nil {
		p.mu.Unlock()
		return ErrNotEditing
	}
	s := p.session
	p.session = nil
	p.mode = Viewing

	merged, err := s.merge(p.loc, p.now())
	if err != nil {
		p.mu.Unlock()
		p.notify.Notify(saveFailed(err))
		return err
	}
	p.mu.Unlock()

	return p.submit(ctx, merged)
}

// Retry resubmits the unsynced record on display.
func (p *Page) Retry(ctx context.Context) error {
	p.mu.Lock()
	loaded, ok := p.state.(Loaded)
	if !p.unsynced || !ok {
		p.mu.Unlock()
		return ErrNothingToRetry
	}
	if p.mode == Editing {
		p.mu.Unlock()
		return ErrEditing
	}
	u := loaded.User.Clone()
	p.mu.Unlock()

	return p.submit(ctx, u)
}

func (p *Page) submit(ctx context.Context, u *models.UserInfo) error {
	p.mu.Lock()
	t := p.ticket(kindSave)
	p.show(u, t)
	p.mu.Unlock()

	p.notify.Notify(Notification{Level: Pending, Message: MsgSaving})

	stored, err := p.api.SaveProfile(ctx, u)

	p.mu.Lock()
	cur := p.current(kindSave, t)
	if cur {
		if err != nil {
			p.unsynced = true
		} else {
			p.lastGood = stored.Clone()
			p.unsynced = false
			p.show(stored, t)
		}
	}
	p.mu.Unlock()

	if err != nil {
		p.notify.Notify(saveFailed(err))
		if cur {
			p.persistDraft(ctx, u)
		}
		return err
	}

	p.notify.Notify(Notification{Level: Success, Message: MsgSaved})
	if cur && p.drafts != nil {
		if err := p.drafts.ClearDraft(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn(ctx, "draft clear failed", "error", err)
		}
	}
	if !cur {
		p.logger.Debug(ctx, "stale save result discarded", "ticket", t)
	}
	return nil
}

func (p *Page) persistDraft(ctx context.Context, u *models.UserInfo) {
	if p.drafts == nil {
		return
	}
	if err := p.drafts.SaveDraft(context.WithoutCancel(ctx), u); err != nil {
		p.logger.Warn(ctx, "draft save failed", "error", err)
	}
}

// View is a consistent copy of everything Render needs.
type View struct {
	State       LoadState
	Mode        Mode
	Unsynced    bool
	Start       timex.TimeOfDay
	End         timex.TimeOfDay
	Session     *SessionView
	Suggestions []string
}

// SessionView is the edit form as currently filled in.
type SessionView struct {
	Name          string
	WalletAddress string
	HourlyRate    models.Rate
	WeekDays      []models.WeekDay
	Start         timex.TimeOfDay
	End           timex.TimeOfDay
	Tags          []string
}

func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{State: p.state, Mode: p.mode, Unsynced: p.unsynced, Start: p.start, End: p.end}
	if l, ok := p.state.(Loaded); ok {
		v.State = Loaded{User: l.User.Clone()}
	}
	if s := p.session; s != nil {
		v.Session = &SessionView{
			Name:          s.Name(),
			WalletAddress: s.WalletAddress(),
			HourlyRate:    s.HourlyRate(),
			WeekDays:      s.WeekDays(),
			Start:         s.Start(),
			End:           s.End(),
			Tags:          s.Tags(),
		}
		v.Suggestions = s.TagInput().Suggest("")
	}
	return v
}

// Diff lists the pending edits, or ErrSessionNotFound outside edit mode.
func (p *Page) Diff() ([]Change, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, ErrSessionNotFound
	}
	return p.session.Diff(), nil
}

// LastSaved is the last record the server confirmed, if any.
func (p *Page) LastSaved() *models.UserInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastGood.Clone()
}
