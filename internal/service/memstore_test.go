package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"freelance-marketplace-api/internal/common"
	"freelance-marketplace-api/internal/entity"
	"freelance-marketplace-api/internal/repo"
	"freelance-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// memStore is an in-memory store. WithinTx holds mu for the whole
// transaction and restores a snapshot when fn fails, which gives the same
// all-or-nothing and serialization guarantees the row locks give in postgres.
type memStore struct {
	mu    sync.Mutex
	gigs  map[uuid.UUID]entity.Gig
	bids  map[uuid.UUID]entity.Bid
	clock time.Time

	lockErr   error
	rejectErr error
	pingErr   error
}

func newMemStore() *memStore {
	return &memStore{
		gigs:  make(map[uuid.UUID]entity.Gig),
		bids:  make(map[uuid.UUID]entity.Bid),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: memDiagnostics{s},
		Gig:         memGigs{s},
		Bid:         memBids{s},
		Transactor:  s,
	}
}

func (s *memStore) tick() string {
	s.clock = s.clock.Add(time.Second)
	return s.clock.Format(time.RFC3339)
}

func (s *memStore) addGig(owner uuid.UUID, title string, status string) entity.Gig {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := entity.Gig{
		Id: uuid.New(), Title: title, Description: title + " description",
		Budget: 500, Status: status, OwnerId: owner, CreatedAt: s.tick(),
	}
	s.gigs[g.Id] = g

	return g
}

func (s *memStore) addBid(gig entity.Gig, freelancer uuid.UUID, status string) entity.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := entity.Bid{
		Id: uuid.New(), GigId: gig.Id, FreelancerId: freelancer,
		Message: "pick me", Price: 100, Status: status, CreatedAt: s.tick(),
	}
	s.bids[b.Id] = b

	return b
}

func (s *memStore) gig(id uuid.UUID) entity.Gig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gigs[id]
}

func (s *memStore) bid(id uuid.UUID) entity.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bids[id]
}

func (s *memStore) bidsOf(gigId uuid.UUID) []entity.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Bid
	for _, b := range s.bids {
		if b.GigId == gigId {
			out = append(out, b)
		}
	}

	return out
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx repo.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	gigs := make(map[uuid.UUID]entity.Gig, len(s.gigs))
	for k, v := range s.gigs {
		gigs[k] = v
	}
	bids := make(map[uuid.UUID]entity.Bid, len(s.bids))
	for k, v := range s.bids {
		bids[k] = v
	}

	if err := fn(memTx{s}); err != nil {
		s.gigs, s.bids = gigs, bids
		return err
	}

	return nil
}

func parse(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	return parsed, nil
}

// memTx runs with memStore.mu held by WithinTx.
type memTx struct {
	s *memStore
}

func (t memTx) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	key, err := parse(id)
	if err != nil {
		return nil, err
	}
	b, ok := t.s.bids[key]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &b, nil
}

func (t memTx) lockGig(id string) (*entity.Gig, error) {
	if t.s.lockErr != nil {
		return nil, t.s.lockErr
	}
	key, err := parse(id)
	if err != nil {
		return nil, err
	}
	g, ok := t.s.gigs[key]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &g, nil
}

func (t memTx) LockGigForUpdate(_ context.Context, id string) (*entity.Gig, error) {
	return t.lockGig(id)
}

func (t memTx) LockGigForShare(_ context.Context, id string) (*entity.Gig, error) {
	return t.lockGig(id)
}

func (t memTx) InsertBid(_ context.Context, input *entity.CreateBidInput) (*entity.Bid, error) {
	gigId, err := parse(input.GigId)
	if err != nil {
		return nil, err
	}
	freelancerId, err := parse(input.FreelancerId)
	if err != nil {
		return nil, err
	}
	for _, b := range t.s.bids {
		if b.GigId == gigId && b.FreelancerId == freelancerId {
			return nil, repo_errors.ErrUniqueViolation
		}
	}

	b := entity.Bid{
		Id: uuid.New(), GigId: gigId, FreelancerId: freelancerId,
		Message: input.Message, Price: input.Price, Status: common.BidPending, CreatedAt: t.s.tick(),
	}
	t.s.bids[b.Id] = b

	return &b, nil
}

func (t memTx) UpdateGigStatus(_ context.Context, gigId string, from string, to string) (*entity.Gig, error) {
	key, err := parse(gigId)
	if err != nil {
		return nil, err
	}
	g, ok := t.s.gigs[key]
	if !ok || g.Status != from {
		return nil, repo_errors.ErrStaleStatus
	}
	g.Status = to
	t.s.gigs[key] = g

	return &g, nil
}

func (t memTx) UpdateBidStatus(_ context.Context, bidId string, from string, to string) (*entity.Bid, error) {
	key, err := parse(bidId)
	if err != nil {
		return nil, err
	}
	b, ok := t.s.bids[key]
	if !ok || b.Status != from {
		return nil, repo_errors.ErrStaleStatus
	}
	b.Status = to
	t.s.bids[key] = b

	return &b, nil
}

func (t memTx) RejectPendingBids(_ context.Context, gigId string, exceptBidId string) (int64, error) {
	if t.s.rejectErr != nil {
		return 0, t.s.rejectErr
	}
	gig, err := parse(gigId)
	if err != nil {
		return 0, err
	}
	except, err := parse(exceptBidId)
	if err != nil {
		return 0, err
	}

	var n int64
	for id, b := range t.s.bids {
		if b.GigId == gig && id != except && b.Status == common.BidPending {
			b.Status = common.BidRejected
			t.s.bids[id] = b
			n++
		}
	}

	return n, nil
}

type memDiagnostics struct {
	s *memStore
}

func (d memDiagnostics) Ping(context.Context) error {
	return d.s.pingErr
}

type memGigs struct {
	s *memStore
}

func (r memGigs) CreateGig(_ context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	owner, err := uuid.Parse(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g := entity.Gig{
		Id: uuid.New(), Title: input.Title, Description: input.Description,
		Budget: input.Budget, Status: common.GigOpen, OwnerId: owner, CreatedAt: r.s.tick(),
	}
	r.s.gigs[g.Id] = g

	return g.Id, nil
}

func (r memGigs) GetGigById(_ context.Context, id string) (*entity.Gig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return memTx{r.s}.lockGig(id)
}

func (r memGigs) filter(keep func(entity.Gig) bool, pg *entity.PaginationInput) []entity.Gig {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []entity.Gig
	for _, g := range r.s.gigs {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	return page(out, pg)
}

func (r memGigs) GetOpenGigs(_ context.Context, search string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	return r.filter(func(g entity.Gig) bool {
		return g.Status == common.GigOpen && containsFold(g.Title, search)
	}, pg), nil
}

func (r memGigs) GetGigsByOwnerId(_ context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	return r.filter(func(g entity.Gig) bool { return g.OwnerId.String() == ownerId }, pg), nil
}

type memBids struct {
	s *memStore
}

func (r memBids) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return memTx{r.s}.GetBidById(context.Background(), id)
}

func (r memBids) filter(keep func(entity.Bid, entity.Gig) bool, join bool, pg *entity.PaginationInput) []entity.Bid {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []entity.Bid
	for _, b := range r.s.bids {
		g := r.s.gigs[b.GigId]
		if !keep(b, g) {
			continue
		}
		if join {
			b.GigTitle, b.GigBudget, b.GigStatus = g.Title, g.Budget, g.Status
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	return page(out, pg)
}

func (r memBids) GetGigBids(_ context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	return r.filter(func(b entity.Bid, _ entity.Gig) bool { return b.GigId.String() == gigId }, false, pg), nil
}

func (r memBids) GetFreelancerBids(_ context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	return r.filter(func(b entity.Bid, _ entity.Gig) bool { return b.FreelancerId.String() == freelancerId }, true, pg), nil
}

func (r memBids) GetBidsReceivedByOwner(_ context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	return r.filter(func(_ entity.Bid, g entity.Gig) bool { return g.OwnerId.String() == ownerId }, true, pg), nil
}

func page[T any](items []T, pg *entity.PaginationInput) []T {
	if pg == nil {
		return items
	}
	if pg.Offset >= len(items) {
		return nil
	}
	items = items[pg.Offset:]
	if len(items) > pg.Limit {
		items = items[:pg.Limit]
	}

	return items
}

func containsFold(s string, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
