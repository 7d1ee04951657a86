package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"posterdesk/internal/domain"
	"posterdesk/internal/editor"
	"posterdesk/internal/storage"
)

// ErrSessionNotFound is returned for an unknown or closed session id.
var ErrSessionNotFound = errors.New("editor session not found")

// UndoHistory is the persistence behind undo/redo. storage.UndoStore
// implements it.
type UndoHistory interface {
	LoadTree(key string) (*storage.UndoTree, error)
	PushNode(key, nodeID, parentID, label, snapshotJSON string) (*storage.UndoNode, error)
	GoTo(key, nodeID string) error
	Clear(key string) error
}

// ─────────────────────────────────────────────────────────────
// Editor sessions
// ─────────────────────────────────────────────────────────────

// Session is one open editor. The editor core has no locks; every access
// goes through the session mutex.
type Session struct {
	ID string

	mu         sync.Mutex
	ed         *editor.Editor
	templateID string
	meta       domain.TemplateMeta
	dirty      bool
	historyKey string
	lastNode   string
	replaying  bool
	pending    []editor.Change
}

// SessionView is what the frontend renders.
type SessionView struct {
	ID          string               `json:"id"`
	TemplateID  string               `json:"templateId"`
	Title       string               `json:"title"`
	Dirty       bool                 `json:"dirty"`
	State       domain.EditorState   `json:"state"`
	Transform   editor.ViewTransform `json:"transform"`
	Interaction string               `json:"interaction"`
}

func (s *Session) view() SessionView {
	return SessionView{
		ID:          s.ID,
		TemplateID:  s.templateID,
		Title:       s.meta.Title,
		Dirty:       s.dirty,
		State:       s.ed.State(),
		Transform:   s.ed.Transform(),
		Interaction: domain.SessionKind(s.ed.Session()),
	}
}

// EditorService owns the open editor sessions, their undo history and the
// autosave schedule.
type EditorService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	active   string

	presets   *Presets
	templates *TemplateService
	history   UndoHistory
	emitter   EventEmitter

	cronMu sync.Mutex
	cron   *cron.Cron
}

// NewEditorService creates an EditorService. history may be nil, which
// disables undo/redo.
func NewEditorService(presets *Presets, templates *TemplateService, history UndoHistory, emitter EventEmitter) *EditorService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &EditorService{
		sessions:  make(map[string]*Session),
		presets:   presets,
		templates: templates,
		history:   history,
		emitter:   emitter,
	}
}

func (s *EditorService) newSession(page domain.PageSize) *Session {
	sess := &Session{ID: uuid.New().String()}
	sess.ed = editor.NewEditor(page, editor.WithOnChange(func(c editor.Change) {
		sess.pending = append(sess.pending, c)
	}))
	return sess
}

func (s *EditorService) register(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.active = sess.ID
	s.mu.Unlock()
}

// Open starts an empty editor on the preset named pageKey (the default
// preset when pageKey is empty or unknown).
func (s *EditorService) Open(ctx context.Context, pageKey string) (SessionView, error) {
	sess := s.newSession(s.presets.Resolve(pageKey))
	sess.historyKey = "session:" + sess.ID
	s.pushHistory(sess, "open")
	s.register(sess)
	return sess.view(), nil
}

// OpenTemplate starts an editor on a saved template.
func (s *EditorService) OpenTemplate(ctx context.Context, templateID string) (SessionView, error) {
	if s.templates == nil {
		return SessionView{}, fmt.Errorf("open template: no template store")
	}
	t, snap, err := s.templates.Load(templateID)
	if err != nil {
		return SessionView{}, err
	}
	sess := s.newSession(snap.Page)
	sess.ed.Restore(snap)
	sess.pending = nil
	sess.templateID = t.ID
	sess.meta = domain.TemplateMeta{ID: t.ID, Title: t.Title, Description: t.Description, Category: t.Category}
	sess.historyKey = t.ID
	s.resumeHistory(sess)
	s.register(sess)
	return sess.view(), nil
}

// Close discards a session. History of a session never saved as a
// template is dropped with it.
func (s *EditorService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		if s.active == id {
			s.active = ""
		}
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("close %s: %w", id, ErrSessionNotFound)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if s.history != nil && strings.HasPrefix(sess.historyKey, "session:") {
		if err := s.history.Clear(sess.historyKey); err != nil {
			log.Printf("[EDITOR] clear history of %s: %v", id, err)
		}
	}
	return nil
}

// ActiveID returns the most recently opened session that is still open.
func (s *EditorService) ActiveID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

// SetActive makes id the active session.
func (s *EditorService) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("activate %s: %w", id, ErrSessionNotFound)
	}
	s.active = id
	return nil
}

func (s *EditorService) session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// Sessions returns a view of every open session, ordered by id.
func (s *EditorService) Sessions() []SessionView {
	s.mu.RLock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	out := make([]SessionView, 0, len(list))
	for _, sess := range list {
		sess.mu.Lock()
		out = append(out, sess.view())
		sess.mu.Unlock()
	}
	return out
}

// Do runs fn against the session's editor under its lock. Committed
// changes mark the session dirty and land in undo history.
func (s *EditorService) Do(ctx context.Context, id string, fn func(*editor.Editor)) (SessionView, error) {
	_, view, err := s.apply(ctx, id, func(ed *editor.Editor) bool {
		fn(ed)
		return true
	})
	return view, err
}

// Dispatch feeds one pointer or wheel event to the session. It reports
// whether the event was consumed.
func (s *EditorService) Dispatch(ctx context.Context, id string, ev editor.Event) (bool, SessionView, error) {
	return s.apply(ctx, id, func(ed *editor.Editor) bool {
		return ed.Dispatch(ev)
	})
}

func (s *EditorService) apply(ctx context.Context, id string, fn func(*editor.Editor) bool) (bool, SessionView, error) {
	sess, err := s.session(id)
	if err != nil {
		return false, SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.pending = sess.pending[:0]
	result := fn(sess.ed)
	changes := sess.pending
	sess.pending = nil

	s.settle(sess, changes)
	view := sess.view()
	if len(changes) > 0 {
		s.emitter.Emit(ctx, EventEditorChanged, view)
	}
	return result, view, nil
}

// settle records the outcome of a batch of changes. The caller holds sess.mu.
func (s *EditorService) settle(sess *Session, changes []editor.Change) {
	var last *editor.Change
	for i := range changes {
		if changes[i].Commit {
			last = &changes[i]
		}
	}
	if last == nil || sess.replaying {
		return
	}
	sess.dirty = true
	s.pushHistory(sess, string(last.Op))
}

// View returns the current view of a session.
func (s *EditorService) View(id string) (SessionView, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Snapshot returns the session's page and boxes.
func (s *EditorService) Snapshot(id string) (domain.Snapshot, string, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.Snapshot{}, "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.ed.Snapshot(), sess.meta.Title, nil
}

// Save persists the session as a template. meta fields left empty keep
// the session's current values. An unbound session becomes bound to the
// new template and its history moves with it.
func (s *EditorService) Save(ctx context.Context, id string, meta domain.TemplateMeta) (*domain.Template, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("save session: no template store")
	}
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	t, err := s.saveLocked(ctx, sess, meta)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(ctx, EventEditorChanged, sess.view())
	return t, nil
}

func (s *EditorService) saveLocked(ctx context.Context, sess *Session, meta domain.TemplateMeta) (*domain.Template, error) {
	merged := sess.meta
	merged.ID = sess.templateID
	if meta.Title != "" {
		merged.Title = meta.Title
	}
	if meta.Description != "" {
		merged.Description = meta.Description
	}
	if meta.Category != "" {
		merged.Category = meta.Category
	}

	t, err := s.templates.Save(ctx, merged, sess.ed.Snapshot())
	if err != nil {
		return nil, err
	}
	sess.meta = domain.TemplateMeta{ID: t.ID, Title: t.Title, Description: t.Description, Category: t.Category}
	sess.dirty = false

	if sess.templateID == "" {
		sess.templateID = t.ID
		old := sess.historyKey
		sess.historyKey = t.ID
		sess.lastNode = ""
		if s.history != nil {
			if err := s.history.Clear(old); err != nil {
				log.Printf("[EDITOR] clear history %s: %v", old, err)
			}
		}
		s.pushHistory(sess, "save")
	}
	return t, nil
}

// ─────────────────────────────────────────────────────────────
// Undo / redo
// ─────────────────────────────────────────────────────────────

func snapshotJSON(ed *editor.Editor) string {
	data, err := json.Marshal(ed.Snapshot())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// pushHistory appends the session's current snapshot as a child of the
// last node. The caller holds sess.mu (or owns sess exclusively).
func (s *EditorService) pushHistory(sess *Session, label string) {
	if s.history == nil {
		return
	}
	nodeID := uuid.New().String()
	if _, err := s.history.PushNode(sess.historyKey, nodeID, sess.lastNode, label, snapshotJSON(sess.ed)); err != nil {
		log.Printf("[EDITOR] push history %s: %v", sess.historyKey, err)
		return
	}
	sess.lastNode = nodeID
}

// resumeHistory continues an existing tree, or starts one when the saved
// template differs from the tree's current node.
func (s *EditorService) resumeHistory(sess *Session) {
	if s.history == nil {
		return
	}
	tree, err := s.history.LoadTree(sess.historyKey)
	if err != nil || tree == nil {
		s.pushHistory(sess, "open")
		return
	}
	sess.lastNode = tree.CurrentID
	if cur, ok := tree.Node(tree.CurrentID); !ok || cur.SnapshotJSON != snapshotJSON(sess.ed) {
		s.pushHistory(sess, "open")
	}
}

// Undo restores the snapshot before the last committed change. It reports
// false when there is nothing to undo.
func (s *EditorService) Undo(ctx context.Context, id string) (bool, SessionView, error) {
	return s.step(ctx, id, func(tree *storage.UndoTree, cur storage.UndoNode) (storage.UndoNode, bool) {
		if cur.ParentID == nil {
			return storage.UndoNode{}, false
		}
		return tree.Node(*cur.ParentID)
	})
}

// Redo re-applies the most recently undone change.
func (s *EditorService) Redo(ctx context.Context, id string) (bool, SessionView, error) {
	return s.step(ctx, id, func(tree *storage.UndoTree, cur storage.UndoNode) (storage.UndoNode, bool) {
		return tree.NewestChild(cur.ID)
	})
}

func (s *EditorService) step(ctx context.Context, id string, pick func(*storage.UndoTree, storage.UndoNode) (storage.UndoNode, bool)) (bool, SessionView, error) {
	if s.history == nil {
		return false, SessionView{}, fmt.Errorf("undo history unavailable")
	}
	sess, err := s.session(id)
	if err != nil {
		return false, SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	tree, err := s.history.LoadTree(sess.historyKey)
	if err != nil {
		return false, sess.view(), fmt.Errorf("load history: %w", err)
	}
	if tree == nil {
		return false, sess.view(), nil
	}
	curID := sess.lastNode
	if curID == "" {
		curID = tree.CurrentID
	}
	cur, ok := tree.Node(curID)
	if !ok {
		return false, sess.view(), nil
	}
	target, ok := pick(tree, cur)
	if !ok {
		return false, sess.view(), nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(target.SnapshotJSON), &snap); err != nil {
		return false, sess.view(), fmt.Errorf("decode history node %s: %w", target.ID, err)
	}
	sess.replaying = true
	sess.ed.Restore(snap)
	sess.replaying = false
	sess.pending = nil

	if err := s.history.GoTo(sess.historyKey, target.ID); err != nil {
		return false, sess.view(), fmt.Errorf("move history: %w", err)
	}
	sess.lastNode = target.ID
	sess.dirty = true

	view := sess.view()
	s.emitter.Emit(ctx, EventEditorChanged, view)
	return true, view, nil
}

// ─────────────────────────────────────────────────────────────
// Autosave
// ─────────────────────────────────────────────────────────────

// StartAutosave saves dirty template-bound sessions on schedule (a cron
// spec or descriptor such as "@every 30s"). An empty schedule disables
// autosave. Calling it again replaces the previous schedule.
func (s *EditorService) StartAutosave(schedule string) error {
	s.StopAutosave()
	if schedule == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.AutosaveAll(context.Background()) }); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	c.Start()

	s.cronMu.Lock()
	s.cron = c
	s.cronMu.Unlock()
	log.Printf("[AUTOSAVE] scheduled %s", schedule)
	return nil
}

// StopAutosave stops the schedule and waits for a running save to finish.
func (s *EditorService) StopAutosave() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// AutosaveAll saves every dirty session bound to a template and returns
// how many were saved.
func (s *EditorService) AutosaveAll(ctx context.Context) int {
	if s.templates == nil {
		return 0
	}
	s.mu.RLock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.RUnlock()

	saved := 0
	for _, sess := range list {
		sess.mu.Lock()
		if sess.dirty && sess.templateID != "" {
			if _, err := s.saveLocked(ctx, sess, domain.TemplateMeta{}); err != nil {
				log.Printf("[AUTOSAVE] session %s: %v", sess.ID, err)
			} else {
				saved++
				s.emitter.Emit(ctx, EventEditorChanged, sess.view())
			}
		}
		sess.mu.Unlock()
	}
	if saved > 0 {
		log.Printf("[AUTOSAVE] saved %d session(s)", saved)
	}
	return saved
}
