// Package friendship is the state machine over relationship edges: request,
// accept, reject, remove, the role-scoped listings, and the status projection
// used by discovery.
package friendship

import (
	"context"
	"errors"
	"time"

	"jujujam/backend/internal/models"
	"jujujam/backend/internal/store"
)

var (
	ErrSelfRequest           = errors.New("cannot send a friend request to yourself")
	ErrRecipientNotFound     = errors.New("recipient not found")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrRequestAlreadyPending = errors.New("friend request already pending")
	ErrBlocked               = errors.New("cannot send a friend request to this user")
	ErrNotFound              = errors.New("friendship not found")
	ErrForbidden             = errors.New("not allowed to act on this request")
	ErrNotPending            = errors.New("friend request already processed")
)

// Status is the viewer-relative projection of an edge.
type Status string

const (
	StatusNone    Status = "none"
	StatusFriends Status = "friends"
	// StatusRequested: the viewer sent the pending request.
	StatusRequested Status = "requested"
	// StatusPending: the viewer received it and owes a response.
	StatusPending Status = "pending"
)

// PendingRequest pairs a pending edge with the counterpart's profile.
type PendingRequest struct {
	Edge models.Friendship
	User models.User
}

// DiscoveredUser is a candidate account annotated with the viewer's
// relationship status towards it.
type DiscoveredUser struct {
	User   models.User
	Status Status
}

// Service operates on the friendship graph. Pair uniqueness is ultimately
// enforced by the store's unique pair index; the pre-checks here exist to
// return precise domain errors, and an insert conflict is re-classified by a
// fresh lookup.
type Service struct {
	accounts store.Accounts
	edges    store.Friendships
}

func NewService(accounts store.Accounts, edges store.Friendships) *Service {
	return &Service{accounts: accounts, edges: edges}
}

// Request creates a pending edge from requester to recipient.
func (s *Service) Request(ctx context.Context, requesterID, recipientID uint) (*models.Friendship, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}

	if _, err := s.accounts.ByID(ctx, recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	existing, err := s.edges.ByPair(ctx, requesterID, recipientID)
	if err == nil {
		return nil, classifyExisting(existing)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	edge := &models.Friendship{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.StatusPending,
		RequestedAt: time.Now(),
	}
	if err := s.edges.Create(ctx, edge); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race against a concurrent request for the same
			// pair; report what actually exists now.
			if existing, lerr := s.edges.ByPair(ctx, requesterID, recipientID); lerr == nil {
				return nil, classifyExisting(existing)
			}
			return nil, ErrRequestAlreadyPending
		}
		return nil, err
	}
	return edge, nil
}

func classifyExisting(edge *models.Friendship) error {
	switch edge.Status {
	case models.StatusAccepted:
		return ErrAlreadyFriends
	case models.StatusBlocked:
		return ErrBlocked
	default:
		return ErrRequestAlreadyPending
	}
}

// Accept transitions a pending edge to accepted. Only the recipient may act.
func (s *Service) Accept(ctx context.Context, edgeID, actorID uint) (*models.Friendship, error) {
	edge, err := s.pendingFor(ctx, edgeID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	edge.Status = models.StatusAccepted
	edge.RespondedAt = &now
	if err := s.edges.Update(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Reject deletes a pending edge. Deleting instead of keeping a terminal
// rejected row means either side can try again later: rejection is "not
// now", not "never".
func (s *Service) Reject(ctx context.Context, edgeID, actorID uint) error {
	edge, err := s.pendingFor(ctx, edgeID, actorID)
	if err != nil {
		return err
	}
	return s.edges.Delete(ctx, edge.ID)
}

func (s *Service) pendingFor(ctx context.Context, edgeID, actorID uint) (*models.Friendship, error) {
	edge, err := s.edges.ByID(ctx, edgeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if edge.RecipientID != actorID {
		return nil, ErrForbidden
	}
	if edge.Status != models.StatusPending {
		return nil, ErrNotPending
	}
	return edge, nil
}

// Remove deletes the accepted edge between two users, whichever direction it
// was stored in.
func (s *Service) Remove(ctx context.Context, userID, otherID uint) error {
	edge, err := s.edges.ByPair(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if edge.Status != models.StatusAccepted {
		return ErrNotFound
	}
	return s.edges.Delete(ctx, edge.ID)
}

// ListFriends returns the other party of every accepted edge touching the
// user.
func (s *Service) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	edges, err := s.edges.Accepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.OtherID(userID))
	}
	return s.accounts.ByIDs(ctx, ids)
}

// ListIncoming returns pending requests the user has received.
func (s *Service) ListIncoming(ctx context.Context, userID uint) ([]PendingRequest, error) {
	edges, err := s.edges.PendingTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCounterparts(ctx, userID, edges)
}

// ListOutgoing returns pending requests the user has sent.
func (s *Service) ListOutgoing(ctx context.Context, userID uint) ([]PendingRequest, error) {
	edges, err := s.edges.PendingFrom(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withCounterparts(ctx, userID, edges)
}

func (s *Service) withCounterparts(ctx context.Context, userID uint, edges []models.Friendship) ([]PendingRequest, error) {
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.OtherID(userID))
	}
	users, err := s.accounts.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]PendingRequest, 0, len(edges))
	for _, e := range edges {
		if u, ok := byID[e.OtherID(userID)]; ok {
			out = append(out, PendingRequest{Edge: e, User: u})
		}
	}
	return out, nil
}

// ProjectStatus reports the viewer's relationship status towards each
// candidate. Candidates without an edge (and blocked pairs) project as none.
func (s *Service) ProjectStatus(ctx context.Context, viewerID uint, candidateIDs []uint) (map[uint]Status, error) {
	edges, err := s.edges.Touching(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	byOther := make(map[uint]models.Friendship, len(edges))
	for _, e := range edges {
		byOther[e.OtherID(viewerID)] = e
	}

	out := make(map[uint]Status, len(candidateIDs))
	for _, id := range candidateIDs {
		out[id] = StatusNone
		edge, ok := byOther[id]
		if !ok {
			continue
		}
		switch edge.Status {
		case models.StatusAccepted:
			out[id] = StatusFriends
		case models.StatusPending:
			if edge.RequesterID == viewerID {
				out[id] = StatusRequested
			} else {
				out[id] = StatusPending
			}
		}
	}
	return out, nil
}

// Discover lists candidate accounts (excluding the viewer), optionally
// filtered by a case-insensitive substring over username, display name and
// email, each annotated with the viewer's status towards it.
func (s *Service) Discover(ctx context.Context, viewerID uint, search string, page, limit int) ([]DiscoveredUser, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	users, err := s.accounts.Search(ctx, viewerID, search, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	statuses, err := s.ProjectStatus(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]DiscoveredUser, 0, len(users))
	for _, u := range users {
		out = append(out, DiscoveredUser{User: u, Status: statuses[u.ID]})
	}
	return out, nil
}
