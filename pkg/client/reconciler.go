// Package client keeps a participant's local copy of a trade session. User
// actions are shown immediately as pending operations and reconciled with
// the server's answers and the session's change feed.
package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/feed"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	"github.com/google/uuid"
)

// API is the server contract for one participant. Implementations carry the
// caller identity themselves.
type API interface {
	GetSession(ctx context.Context, sessionID string) (*models.SessionView, error)
	AddRequest(ctx context.Context, sessionID, itemID string) (*models.TradeRequest, error)
	RemoveRequest(ctx context.Context, sessionID, itemID string) error
	SendMessage(ctx context.Context, sessionID string, msgType models.MessageType, content string) (*models.TradeMessage, error)
	Confirm(ctx context.Context, sessionID string) (*models.ConfirmResult, error)
	Cancel(ctx context.Context, sessionID string) (*models.Session, error)
}

// TempIDPrefix marks ids synthesised for pending operations.
const TempIDPrefix = "tmp-"

const maxSeenEvents = 1024

type PendingKind string

const (
	PendingAddRequest    PendingKind = "ADD_REQUEST"
	PendingRemoveRequest PendingKind = "REMOVE_REQUEST"
	PendingMessage       PendingKind = "MESSAGE"
	PendingConfirm       PendingKind = "CONFIRM"
	PendingCancel        PendingKind = "CANCEL"
)

// Pending is an optimistic operation awaiting the server's answer.
type Pending struct {
	TempId      string
	Kind        PendingKind
	ItemId      string
	MessageType models.MessageType
	Content     string
	CreatedAt   time.Time
}

// State is what the user sees: the last server truth with the pending
// operations laid over it.
type State struct {
	View    models.SessionView
	Pending []Pending
}

// IsPending reports whether id belongs to an optimistic entry.
func (s State) IsPending(id string) bool {
	for _, p := range s.Pending {
		if p.TempId == id {
			return true
		}
	}
	return false
}

// RecoverableError reports a rolled back mutation. The session state is
// intact and the user may retry or carry on.
type RecoverableError struct {
	Op     string
	TempId string
	Err    error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the operation may succeed.
func (e *RecoverableError) Retryable() bool {
	return errors.Is(e.Err, trade.ErrTransientStore)
}

// Reconciler owns one participant's local session state.
type Reconciler struct {
	mu sync.Mutex

	api       API
	sessionID string
	userID    string
	now       func() time.Time

	truth   models.SessionView
	pending []Pending
	seen    map[string]struct{}
	order   []string

	// OnChange, when set, is called with the visible state after every
	// change. It runs without the lock held.
	OnChange func(State)
}

// NewReconciler creates a Reconciler for userID's view of sessionID. Call
// Sync to load the initial state.
func NewReconciler(api API, sessionID, userID string) *Reconciler {
	return &Reconciler{
		api:       api,
		sessionID: sessionID,
		userID:    userID,
		now:       time.Now,
		truth:     models.SessionView{Id: sessionID},
		seen:      map[string]struct{}{},
	}
}

func (r *Reconciler) SessionID() string {
	return r.sessionID
}

// State returns the visible state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Authoritative returns the last server truth without pending operations.
func (r *Reconciler) Authoritative() models.SessionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneView(r.truth)
}

// Sync replaces the local truth with a fresh read of the session.
func (r *Reconciler) Sync(ctx context.Context) error {
	view, err := r.api.GetSession(ctx, r.sessionID)
	if err != nil {
		return fmt.Errorf("failed to sync session: %w", err)
	}

	r.mu.Lock()
	r.truth = cloneView(*view)
	r.mu.Unlock()
	r.changed()
	return nil
}

// AddRequest asks for one of the partner's items.
func (r *Reconciler) AddRequest(ctx context.Context, itemID string) (*models.TradeRequest, error) {
	tmp := r.begin(Pending{Kind: PendingAddRequest, ItemId: itemID})

	req, err := r.api.AddRequest(ctx, r.sessionID, itemID)
	if err != nil {
		return nil, r.rollback(tmp, "add request", err)
	}

	r.settle(tmp, func(v *models.SessionView) {
		upsertRequest(v, r.userID, *req)
	})
	return req, nil
}

// RemoveRequest withdraws the request for itemID.
func (r *Reconciler) RemoveRequest(ctx context.Context, itemID string) error {
	tmp := r.begin(Pending{Kind: PendingRemoveRequest, ItemId: itemID})

	if err := r.api.RemoveRequest(ctx, r.sessionID, itemID); err != nil {
		return r.rollback(tmp, "remove request", err)
	}

	r.settle(tmp, func(v *models.SessionView) {
		v.MyRequests = slices.DeleteFunc(v.MyRequests, func(req models.TradeRequest) bool {
			return req.TargetItemId == itemID
		})
	})
	return nil
}

// SendMessage posts a stamp or text message.
func (r *Reconciler) SendMessage(ctx context.Context, msgType models.MessageType, content string) (*models.TradeMessage, error) {
	tmp := r.begin(Pending{Kind: PendingMessage, MessageType: msgType, Content: content})

	msg, err := r.api.SendMessage(ctx, r.sessionID, msgType, content)
	if err != nil {
		return nil, r.rollback(tmp, "send message", err)
	}

	r.settle(tmp, func(v *models.SessionView) {
		upsertMessage(v, *msg)
	})
	return msg, nil
}

// Confirm confirms the caller's side.
func (r *Reconciler) Confirm(ctx context.Context) (*models.ConfirmResult, error) {
	tmp := r.begin(Pending{Kind: PendingConfirm})

	res, err := r.api.Confirm(ctx, r.sessionID)
	if err != nil {
		return nil, r.rollback(tmp, "confirm", err)
	}

	r.settle(tmp, func(v *models.SessionView) {
		applySession(v, r.userID, res.Session)
	})
	return res, nil
}

// Cancel ends the session.
func (r *Reconciler) Cancel(ctx context.Context) (*models.Session, error) {
	tmp := r.begin(Pending{Kind: PendingCancel})

	session, err := r.api.Cancel(ctx, r.sessionID)
	if err != nil {
		return nil, r.rollback(tmp, "cancel", err)
	}

	r.settle(tmp, func(v *models.SessionView) {
		if applySession(v, r.userID, session) && v.Status == models.CANCELLED && session.CancelledBy == "" {
			v.CancelledByMe = true
		}
	})
	return session, nil
}

// ApplyEvent folds a feed event into the truth. Events already seen and
// session states older than the truth are ignored. It reports whether the
// state changed.
func (r *Reconciler) ApplyEvent(evt feed.Event) bool {
	if evt.SessionId != r.sessionID {
		return false
	}

	r.mu.Lock()
	if _, ok := r.seen[evt.Id]; ok {
		r.mu.Unlock()
		return false
	}
	r.remember(evt.Id)

	changed := false
	switch evt.Kind {
	case feed.SessionStateChanged:
		changed = applySession(&r.truth, r.userID, evt.Session)
	case feed.RequestAdded:
		changed = upsertRequest(&r.truth, r.userID, *evt.Request)
	case feed.RequestRemoved:
		changed = removeRequest(&r.truth, evt.Request.Id)
	case feed.MessagePosted:
		changed = upsertMessage(&r.truth, *evt.Message)
	}
	r.mu.Unlock()

	if changed {
		r.changed()
	}
	return changed
}

func (r *Reconciler) remember(id string) {
	r.seen[id] = struct{}{}
	r.order = append(r.order, id)
	if len(r.order) > maxSeenEvents {
		delete(r.seen, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *Reconciler) begin(p Pending) string {
	p.TempId = TempIDPrefix + uuid.NewString()
	p.CreatedAt = r.now().UTC()

	r.mu.Lock()
	r.pending = append(r.pending, p)
	r.mu.Unlock()
	r.changed()
	return p.TempId
}

func (r *Reconciler) settle(tempID string, apply func(v *models.SessionView)) {
	r.mu.Lock()
	r.dropLocked(tempID)
	apply(&r.truth)
	r.mu.Unlock()
	r.changed()
}

func (r *Reconciler) rollback(tempID, op string, err error) error {
	r.mu.Lock()
	r.dropLocked(tempID)
	r.mu.Unlock()
	r.changed()
	return &RecoverableError{Op: op, TempId: tempID, Err: err}
}

func (r *Reconciler) dropLocked(tempID string) {
	r.pending = slices.DeleteFunc(r.pending, func(p Pending) bool {
		return p.TempId == tempID
	})
}

func (r *Reconciler) changed() {
	if r.OnChange != nil {
		r.OnChange(r.State())
	}
}

func (r *Reconciler) stateLocked() State {
	v := cloneView(r.truth)
	for _, p := range r.pending {
		switch p.Kind {
		case PendingAddRequest:
			if !hasRequestFor(v.MyRequests, p.ItemId) {
				v.MyRequests = append(v.MyRequests, models.TradeRequest{
					Id:           p.TempId,
					SessionId:    r.sessionID,
					RequestKey:   models.RequestKey(r.userID, p.ItemId),
					RequesterId:  r.userID,
					TargetItemId: p.ItemId,
					CreatedAt:    p.CreatedAt,
				})
			}
		case PendingRemoveRequest:
			v.MyRequests = slices.DeleteFunc(v.MyRequests, func(req models.TradeRequest) bool {
				return req.TargetItemId == p.ItemId
			})
		case PendingMessage:
			v.Messages = append(v.Messages, models.TradeMessage{
				Id:        p.TempId,
				SessionId: r.sessionID,
				SenderId:  r.userID,
				Type:      p.MessageType,
				Content:   p.Content,
				CreatedAt: p.CreatedAt,
			})
		case PendingConfirm:
			if !v.Status.IsTerminal() {
				v.MyConfirmed = true
			}
		case PendingCancel:
			if !v.Status.IsTerminal() {
				v.Status = models.CANCELLED
				v.CancelReason = models.CancelReasonUser
				v.CancelledByMe = true
			}
		}
	}
	return State{View: v, Pending: slices.Clone(r.pending)}
}

func cloneView(v models.SessionView) models.SessionView {
	v.MyRequests = append([]models.TradeRequest{}, v.MyRequests...)
	v.PartnerRequests = append([]models.TradeRequest{}, v.PartnerRequests...)
	v.Messages = append([]models.TradeMessage{}, v.Messages...)
	if v.Partner != nil {
		p := *v.Partner
		v.Partner = &p
	}
	return v
}

// applySession folds session-level fields into v unless s is older. Sessions
// decoded from the REST API carry no participant ids, so the side already
// known to the view is used for them.
func applySession(v *models.SessionView, userID string, s *models.Session) bool {
	if s == nil || s.Version < v.Version {
		return false
	}

	side := v.MySide
	if known, ok := s.SideOf(userID); ok {
		side = known
	}
	v.MySide = side
	v.Status = s.Status
	v.Origin = s.Origin
	v.Version = s.Version
	if s.ParticipantB != "" {
		v.Paired = true
	}
	if side != "" {
		v.MyConfirmed = s.ConfirmedOn(side)
		if side == models.SideA {
			v.PartnerConfirmed = s.ConfirmedB
		} else {
			v.PartnerConfirmed = s.ConfirmedA
		}
	}
	v.CancelReason = s.CancelReason
	if s.CancelledBy != "" {
		v.CancelledByMe = s.CancelledBy == userID
	}
	v.UpdatedAt = s.UpdatedAt
	v.CompletedAt = s.CompletedAt
	return true
}

func hasRequestFor(reqs []models.TradeRequest, itemID string) bool {
	return slices.ContainsFunc(reqs, func(req models.TradeRequest) bool {
		return req.TargetItemId == itemID
	})
}

func upsertRequest(v *models.SessionView, userID string, req models.TradeRequest) bool {
	list := &v.PartnerRequests
	if req.RequesterId == userID {
		list = &v.MyRequests
	}
	if slices.ContainsFunc(*list, func(r models.TradeRequest) bool { return r.Id == req.Id }) {
		return false
	}
	*list = append(*list, req)
	return true
}

func removeRequest(v *models.SessionView, requestID string) bool {
	before := len(v.MyRequests) + len(v.PartnerRequests)
	match := func(r models.TradeRequest) bool { return r.Id == requestID }
	v.MyRequests = slices.DeleteFunc(v.MyRequests, match)
	v.PartnerRequests = slices.DeleteFunc(v.PartnerRequests, match)
	return len(v.MyRequests)+len(v.PartnerRequests) != before
}

// upsertMessage keeps messages in id order, which is creation order.
func upsertMessage(v *models.SessionView, msg models.TradeMessage) bool {
	if slices.ContainsFunc(v.Messages, func(m models.TradeMessage) bool { return m.Id == msg.Id }) {
		return false
	}
	v.Messages = append(v.Messages, msg)
	sort.SliceStable(v.Messages, func(i, j int) bool {
		return v.Messages[i].Id < v.Messages[j].Id
	})
	return true
}
