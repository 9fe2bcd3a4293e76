package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

// In-memory repository fakes mirroring the postgres contracts, including the
// unique (user, poll) arbitration on vote insert. Call counters let tests
// assert how many batched queries a listing performs.

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
	order []uuid.UUID
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (r *fakePollRepo) Create(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *poll
	r.polls[poll.ID] = &cp
	r.order = append(r.order, poll.ID)
	return nil
}

func (r *fakePollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.NewNotFound("Poll", "id", id)
	}
	cp := *poll
	return &cp, nil
}

func (r *fakePollRepo) List(ctx context.Context, limit, offset int) ([]*domain.Poll, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pagePolls(r.orderedLocked(), limit, offset)
}

func (r *fakePollRepo) ListByCreator(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*domain.Poll
	for _, p := range r.orderedLocked() {
		if p.CreatedBy == userID {
			owned = append(owned, p)
		}
	}
	return pagePolls(owned, limit, offset)
}

func (r *fakePollRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Deliberately not in request order, like the real set fetch.
	var polls []*domain.Poll
	for _, p := range r.polls {
		for _, id := range ids {
			if p.ID == id {
				cp := *p
				polls = append(polls, &cp)
				break
			}
		}
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].ID.String() < polls[j].ID.String() })
	return polls, nil
}

func (r *fakePollRepo) CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.polls {
		if p.CreatedBy == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakePollRepo) orderedLocked() []*domain.Poll {
	polls := make([]*domain.Poll, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.polls[id]
		polls = append(polls, &cp)
	}
	return polls
}

func pagePolls(polls []*domain.Poll, limit, offset int) ([]*domain.Poll, int64, error) {
	total := int64(len(polls))
	if offset >= len(polls) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(polls) {
		end = len(polls)
	}
	return polls[offset:end], total, nil
}

type voteKey struct {
	userID uuid.UUID
	pollID uuid.UUID
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes []*domain.Vote
	byKey map[voteKey]struct{}

	countByChoiceCalls int
	findUserVotesCalls int
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{byKey: make(map[voteKey]struct{})}
}

func (r *fakeVoteRepo) Insert(ctx context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{userID: vote.UserID, pollID: vote.PollID}
	if _, exists := r.byKey[key]; exists {
		return domain.ErrAlreadyVoted
	}
	r.byKey[key] = struct{}{}
	cp := *vote
	r.votes = append(r.votes, &cp)
	return nil
}

func (r *fakeVoteRepo) CountByChoice(ctx context.Context, pollIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countByChoiceCalls++
	wanted := idSet(pollIDs)
	counts := make(map[uuid.UUID]int64)
	for _, v := range r.votes {
		if _, ok := wanted[v.PollID]; ok {
			counts[v.ChoiceID]++
		}
	}
	return counts, nil
}

func (r *fakeVoteRepo) FindUserVotes(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findUserVotesCalls++
	wanted := idSet(pollIDs)
	votes := make(map[uuid.UUID]uuid.UUID)
	for _, v := range r.votes {
		if v.UserID != userID {
			continue
		}
		if _, ok := wanted[v.PollID]; ok {
			votes[v.PollID] = v.ChoiceID
		}
	}
	return votes, nil
}

func (r *fakeVoteRepo) ListVotedPollIDs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Most recent vote first.
	var ids []uuid.UUID
	for i := len(r.votes) - 1; i >= 0; i-- {
		if r.votes[i].UserID == userID {
			ids = append(ids, r.votes[i].PollID)
		}
	}
	total := int64(len(ids))
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], total, nil
}

func (r *fakeVoteRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, v := range r.votes {
		if v.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	getByIDsCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDsCalls++
	var users []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			users = append(users, &cp)
		}
	}
	return users, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
