package friendship

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jujujam/backend/internal/models"
	"jujujam/backend/internal/store"
)

type fixture struct {
	svc      *Service
	accounts *store.MemoryAccounts
	edges    *store.MemoryFriendships
	alice    uint
	bob      uint
	carol    uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := store.NewMemoryAccounts()
	edges := store.NewMemoryFriendships()

	mkUser := func(name string) uint {
		u := &models.User{
			Username:    name,
			Email:       name + "@x.com",
			DisplayName: name,
			Avatar:      models.DefaultAvatar,
		}
		if err := accounts.Create(context.Background(), u); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return u.ID
	}

	return &fixture{
		svc:      NewService(accounts, edges),
		accounts: accounts,
		edges:    edges,
		alice:    mkUser("alice"),
		bob:      mkUser("bob"),
		carol:    mkUser("carol"),
	}
}

func friendIDs(t *testing.T, svc *Service, userID uint) map[uint]bool {
	t.Helper()
	users, err := svc.ListFriends(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListFriends(%d): %v", userID, err)
	}
	out := make(map[uint]bool, len(users))
	for _, u := range users {
		out[u.ID] = true
	}
	return out
}

func TestRequestAcceptBecomeFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edge, err := f.svc.Request(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if edge.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", edge.Status)
	}
	if edge.RespondedAt != nil {
		t.Error("RespondedAt must be nil until the recipient acts")
	}

	accepted, err := f.svc.Accept(ctx, edge.ID, f.bob)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != models.StatusAccepted {
		t.Errorf("Status = %q, want accepted", accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Error("RespondedAt must be set on acceptance")
	}

	if !friendIDs(t, f.svc, f.alice)[f.bob] {
		t.Error("alice's friends must contain bob")
	}
	if !friendIDs(t, f.svc, f.bob)[f.alice] {
		t.Error("bob's friends must contain alice")
	}

	for viewer, other := range map[uint]uint{f.alice: f.bob, f.bob: f.alice} {
		statuses, err := f.svc.ProjectStatus(ctx, viewer, []uint{other})
		if err != nil {
			t.Fatalf("ProjectStatus: %v", err)
		}
		if statuses[other] != StatusFriends {
			t.Errorf("ProjectStatus(%d,[%d]) = %q, want friends", viewer, other, statuses[other])
		}
	}
}

func TestRequestFailureModes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Request(ctx, f.alice, f.alice); !errors.Is(err, ErrSelfRequest) {
		t.Errorf("self request: error = %v, want ErrSelfRequest", err)
	}
	if _, err := f.svc.Request(ctx, f.alice, 9999); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("missing recipient: error = %v, want ErrRecipientNotFound", err)
	}

	edge, err := f.svc.Request(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// Same direction and reverse direction both collide with the pending edge.
	if _, err := f.svc.Request(ctx, f.alice, f.bob); !errors.Is(err, ErrRequestAlreadyPending) {
		t.Errorf("duplicate request: error = %v, want ErrRequestAlreadyPending", err)
	}
	if _, err := f.svc.Request(ctx, f.bob, f.alice); !errors.Is(err, ErrRequestAlreadyPending) {
		t.Errorf("reverse request: error = %v, want ErrRequestAlreadyPending", err)
	}

	if _, err := f.svc.Accept(ctx, edge.ID, f.bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := f.svc.Request(ctx, f.bob, f.alice); !errors.Is(err, ErrAlreadyFriends) {
		t.Errorf("request to friend: error = %v, want ErrAlreadyFriends", err)
	}
}

func TestBlockedPairRefusesRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Blocked edges are only ever inserted administratively.
	blocked := &models.Friendship{RequesterID: f.alice, RecipientID: f.bob, Status: models.StatusBlocked}
	if err := f.edges.Create(ctx, blocked); err != nil {
		t.Fatalf("insert blocked edge: %v", err)
	}

	if _, err := f.svc.Request(ctx, f.bob, f.alice); !errors.Is(err, ErrBlocked) {
		t.Errorf("error = %v, want ErrBlocked", err)
	}

	// A blocked pair projects as none, never as a bogus pending state.
	statuses, err := f.svc.ProjectStatus(ctx, f.alice, []uint{f.bob})
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if statuses[f.bob] != StatusNone {
		t.Errorf("blocked pair projects %q, want none", statuses[f.bob])
	}
}

func TestAcceptRejectGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edge, err := f.svc.Request(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	tests := []struct {
		name    string
		act     func() error
		wantErr error
	}{
		{"accept unknown edge", func() error { _, err := f.svc.Accept(ctx, 9999, f.bob); return err }, ErrNotFound},
		{"reject unknown edge", func() error { return f.svc.Reject(ctx, 9999, f.bob) }, ErrNotFound},
		{"accept by requester", func() error { _, err := f.svc.Accept(ctx, edge.ID, f.alice); return err }, ErrForbidden},
		{"accept by third party", func() error { _, err := f.svc.Accept(ctx, edge.ID, f.carol); return err }, ErrForbidden},
		{"reject by requester", func() error { return f.svc.Reject(ctx, edge.ID, f.alice) }, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.act(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := f.svc.Accept(ctx, edge.ID, f.bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := f.svc.Accept(ctx, edge.ID, f.bob); !errors.Is(err, ErrNotPending) {
		t.Errorf("second accept: error = %v, want ErrNotPending", err)
	}
	if err := f.svc.Reject(ctx, edge.ID, f.bob); !errors.Is(err, ErrNotPending) {
		t.Errorf("reject accepted edge: error = %v, want ErrNotPending", err)
	}
}

func TestRejectDeletesAndAllowsRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edge, err := f.svc.Request(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := f.svc.Reject(ctx, edge.ID, f.bob); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	// Rejection is "not now", not "never": both directions may retry.
	edge2, err := f.svc.Request(ctx, f.bob, f.alice)
	if err != nil {
		t.Fatalf("request after rejection (reverse): %v", err)
	}
	if err := f.svc.Reject(ctx, edge2.ID, f.alice); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.svc.Request(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("request after rejection (original direction): %v", err)
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Remove(ctx, f.alice, f.bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove without edge: error = %v, want ErrNotFound", err)
	}

	edge, err := f.svc.Request(ctx, f.alice, f.bob)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := f.svc.Remove(ctx, f.alice, f.bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove pending edge: error = %v, want ErrNotFound", err)
	}

	if _, err := f.svc.Accept(ctx, edge.ID, f.bob); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	// Unordered: the recipient may remove the edge too.
	if err := f.svc.Remove(ctx, f.bob, f.alice); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if friendIDs(t, f.svc, f.alice)[f.bob] || friendIDs(t, f.svc, f.bob)[f.alice] {
		t.Error("both friend lists must exclude each other after removal")
	}

	// And the pair can become friends again afterwards.
	if _, err := f.svc.Request(ctx, f.bob, f.alice); err != nil {
		t.Fatalf("request after removal: %v", err)
	}
}

func TestListIncomingOutgoing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Request(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.svc.Request(ctx, f.carol, f.bob); err != nil {
		t.Fatalf("Request: %v", err)
	}

	incoming, err := f.svc.ListIncoming(ctx, f.bob)
	if err != nil {
		t.Fatalf("ListIncoming: %v", err)
	}
	if len(incoming) != 2 {
		t.Fatalf("bob has %d incoming requests, want 2", len(incoming))
	}
	for _, r := range incoming {
		if r.Edge.RecipientID != f.bob {
			t.Errorf("incoming edge recipient = %d, want bob", r.Edge.RecipientID)
		}
		if r.User.ID != r.Edge.RequesterID {
			t.Errorf("incoming counterpart = %d, want requester %d", r.User.ID, r.Edge.RequesterID)
		}
	}

	outgoing, err := f.svc.ListOutgoing(ctx, f.alice)
	if err != nil {
		t.Fatalf("ListOutgoing: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].User.ID != f.bob {
		t.Fatalf("alice's outgoing = %+v, want one request to bob", outgoing)
	}

	if reqs, _ := f.svc.ListIncoming(ctx, f.alice); len(reqs) != 0 {
		t.Errorf("alice has %d incoming requests, want 0", len(reqs))
	}
}

func TestProjectStatusMatrix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// alice→bob pending, alice↔carol friends.
	if _, err := f.svc.Request(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("Request: %v", err)
	}
	edge, err := f.svc.Request(ctx, f.carol, f.alice)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.svc.Accept(ctx, edge.ID, f.alice); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	statuses, err := f.svc.ProjectStatus(ctx, f.alice, []uint{f.bob, f.carol, 9999})
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	want := map[uint]Status{f.bob: StatusRequested, f.carol: StatusFriends, 9999: StatusNone}
	for id, w := range want {
		if statuses[id] != w {
			t.Errorf("alice towards %d = %q, want %q", id, statuses[id], w)
		}
	}

	// From bob's side the same pending edge needs a response.
	statuses, err = f.svc.ProjectStatus(ctx, f.bob, []uint{f.alice})
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if statuses[f.alice] != StatusPending {
		t.Errorf("bob towards alice = %q, want pending", statuses[f.alice])
	}
}

func TestDiscover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Request(ctx, f.alice, f.bob); err != nil {
		t.Fatalf("Request: %v", err)
	}

	found, err := f.svc.Discover(ctx, f.alice, "", 1, 20)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Discover returned %d users, want 2", len(found))
	}
	for _, d := range found {
		if d.User.ID == f.alice {
			t.Fatal("Discover must exclude the viewer")
		}
		// Status must agree with what the listings independently report.
		want := StatusNone
		if d.User.ID == f.bob {
			want = StatusRequested
		}
		if d.Status != want {
			t.Errorf("status for %d = %q, want %q", d.User.ID, d.Status, want)
		}
	}

	filtered, err := f.svc.Discover(ctx, f.alice, "CAR", 1, 20)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(filtered) != 1 || filtered[0].User.ID != f.carol {
		t.Fatalf("Discover(\"CAR\") = %+v, want just carol", filtered)
	}
}

func TestConcurrentRequestsCreateOneEdge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half request in each direction.
			from, to := f.alice, f.bob
			if i%2 == 1 {
				from, to = f.bob, f.alice
			}
			_, errs[i] = f.svc.Request(ctx, from, to)
		}(i)
	}
	wg.Wait()

	var created int
	for i, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrRequestAlreadyPending):
		default:
			t.Errorf("worker %d: unexpected error %v", i, err)
		}
	}
	if created != 1 {
		t.Errorf("%d requests succeeded, want exactly 1", created)
	}

	edges, err := f.edges.Touching(ctx, f.alice)
	if err != nil {
		t.Fatalf("Touching: %v", err)
	}
	if len(edges) != 1 {
		t.Errorf("%d edges stored for the pair, want exactly 1", len(edges))
	}
}
