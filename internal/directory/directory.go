package directory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

// TTL is how long a loaded snapshot is served before the next reload.
const TTL = 5 * time.Minute

// Source is the bulk fetch surface the directory loads from.
type Source interface {
	FindContacts(ctx context.Context, filter evolution.ContactFilter) ([]evolution.Contact, error)
	FindChats(ctx context.Context) ([]evolution.Chat, error)
}

type snapshot struct {
	names    map[string]string
	loadedAt time.Time
}

// Stats describes the published snapshot.
type Stats struct {
	Loaded   bool          `json:"loaded"`
	Entries  int           `json:"entries"`
	LoadedAt *time.Time    `json:"loaded_at,omitempty"`
	Age      time.Duration `json:"age"`
	Loads    int64         `json:"loads"`
}

// Directory maps canonical phone identifiers to display names. Lookups are
// lock-free against the last published snapshot; reloads are collapsed so
// concurrent callers share one bulk fetch.
type Directory struct {
	source       Source
	includeChats bool
	now          func() time.Time

	group singleflight.Group

	mu   sync.Mutex // guards publish against Invalidate
	gen  atomic.Uint64
	snap atomic.Pointer[snapshot]

	loads atomic.Int64
}

type Option func(*Directory)

// WithChats adds a second bulk fetch of the chat list that fills names the
// contact list lacks.
func WithChats(enabled bool) Option {
	return func(d *Directory) {
		d.includeChats = enabled
	}
}

// IncludesChats reports whether chat names feed the directory.
func (d *Directory) IncludesChats() bool {
	return d.includeChats
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}

func New(source Source, opts ...Option) *Directory {
	d := &Directory{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) fresh(s *snapshot) bool {
	return s != nil && d.now().Sub(s.loadedAt) < TTL
}

// EnsureLoaded reloads the snapshot when it is missing or older than TTL.
// A failed reload keeps the previous snapshot and returns the error.
func (d *Directory) EnsureLoaded(ctx context.Context) error {
	if d.fresh(d.snap.Load()) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Callers arriving after Invalidate get their own flight.
	gen := d.gen.Load()
	_, err, _ := d.group.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		if d.fresh(d.snap.Load()) {
			return nil, nil
		}
		return nil, d.load(context.WithoutCancel(ctx), gen)
	})
	return err
}

func (d *Directory) load(ctx context.Context, gen uint64) error {
	entry := log.Op("directory.load")
	d.loads.Add(1)

	contacts, err := d.source.FindContacts(ctx, evolution.ContactFilter{})
	if err != nil {
		entry.WithError(err).Warn("contact load failed, keeping previous snapshot")
		return err
	}

	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		jid := c.RemoteJID
		if jid == "" {
			jid = c.ID
		}
		put(names, jid, c.PushName, false)
	}

	if d.includeChats {
		chats, err := d.source.FindChats(ctx)
		if err != nil {
			entry.WithError(err).Warn("chat load failed, keeping previous snapshot")
			return err
		}
		for _, c := range chats {
			name := c.PushName
			if (name == nil || strings.TrimSpace(*name) == "") && c.Name != "" {
				name = &c.Name
			}
			put(names, c.RemoteJID, name, true)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen.Load() != gen {
		entry.Debug("directory invalidated during load, discarding result")
		return nil
	}
	d.snap.Store(&snapshot{names: names, loadedAt: d.now()})
	entry.WithField("entries", len(names)).Debug("directory loaded")
	return nil
}

func put(names map[string]string, jid string, name *string, keepExisting bool) {
	if name == nil {
		return
	}
	n := strings.TrimSpace(*name)
	if n == "" {
		return
	}
	key := Key(jid)
	if key == "" {
		return
	}
	if _, ok := names[key]; ok && keepExisting {
		return
	}
	names[key] = n
}

// Resolve loads the directory if needed, then looks id up. A failed load is
// logged and the previous snapshot, if any, is used.
func (d *Directory) Resolve(ctx context.Context, id string) (string, bool) {
	if err := d.EnsureLoaded(ctx); err != nil {
		log.Op("directory.resolve").WithError(err).Warn("directory unavailable, using previous snapshot")
	}
	return d.Lookup(id)
}

// Lookup reads the published snapshot without triggering a load.
func (d *Directory) Lookup(id string) (string, bool) {
	s := d.snap.Load()
	if s == nil {
		return "", false
	}
	key := Key(id)
	if key == "" {
		return "", false
	}
	name, ok := s.names[key]
	return name, ok
}

// Invalidate drops the snapshot. A load already in flight does not publish.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen.Add(1)
	d.snap.Store(nil)
}

func (d *Directory) Stats() Stats {
	st := Stats{Loads: d.loads.Load()}
	s := d.snap.Load()
	if s == nil {
		return st
	}
	at := s.loadedAt
	st.Loaded = true
	st.Entries = len(s.names)
	st.LoadedAt = &at
	st.Age = d.now().Sub(s.loadedAt)
	return st
}

// Key returns the canonical identifier of a phone number or personal JID.
// Groups and inputs without digits have no key.
func Key(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.Contains(id, "@") {
		return evolution.UserPart(id)
	}
	number, err := validation.NormalizePhone(id)
	if err != nil {
		return ""
	}
	return number
}
