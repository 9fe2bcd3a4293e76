package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

func TestGetMe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	userID, username, token := createUserAndToken(t, app.DB)

	resp := doRequest(t, app, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[domain.UserSummary](t, resp)

	assert.Equal(t, userID, me.ID)
	assert.Equal(t, username, me.Username)

	resp = doRequest(t, app, http.MethodGet, "/api/user/me", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserProfileCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorName, creatorToken := createUserAndToken(t, app.DB)
	_, voterName, voterToken := createUserAndToken(t, app.DB)

	first := createTestPoll(t, app, creatorToken, "One?", 1, 0)
	createTestPoll(t, app, creatorToken, "Two?", 1, 0)

	resp := doRequest(t, app, http.MethodPost, votePath(first), voterToken,
		map[string]any{"choice_id": first.Choices[0].ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/users/"+creatorName, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	creatorProfile := decodeBody[domain.UserProfile](t, resp)
	assert.Equal(t, int64(2), creatorProfile.PollCount)
	assert.Equal(t, int64(0), creatorProfile.VoteCount)

	resp = doRequest(t, app, http.MethodGet, "/api/users/"+voterName, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	voterProfile := decodeBody[domain.UserProfile](t, resp)
	assert.Equal(t, int64(0), voterProfile.PollCount)
	assert.Equal(t, int64(1), voterProfile.VoteCount)
}

func TestUserProfileNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := doRequest(t, app, http.MethodGet, "/api/users/nobody", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPollsCreatedByAndVotedByListings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorName, creatorToken := createUserAndToken(t, app.DB)
	_, voterName, voterToken := createUserAndToken(t, app.DB)

	first := createTestPoll(t, app, creatorToken, "First?", 1, 0)
	second := createTestPoll(t, app, creatorToken, "Second?", 1, 0)

	for _, poll := range []domain.PollSummary{first, second} {
		resp := doRequest(t, app, http.MethodPost, votePath(poll), voterToken,
			map[string]any{"choice_id": poll.Choices[0].ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/users/%s/polls", creatorName), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	createdBy := decodeBody[domain.PagedPolls](t, resp)
	require.Len(t, createdBy.Content, 2)
	assert.Equal(t, "First?", createdBy.Content[0].Question)

	// Voted-by listing comes back in vote recency order, and the voter's
	// selections ride along when the voter is the caller.
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/users/%s/votes", voterName), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	votedBy := decodeBody[domain.PagedPolls](t, resp)
	require.Len(t, votedBy.Content, 2)
	assert.Equal(t, second.ID, votedBy.Content[0].ID)
	assert.Equal(t, first.ID, votedBy.Content[1].ID)
	for _, s := range votedBy.Content {
		require.NotNil(t, s.SelectedChoice)
	}

	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/users/%s/votes", creatorName), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	noVotes := decodeBody[domain.PagedPolls](t, resp)
	assert.Empty(t, noVotes.Content)
	assert.True(t, noVotes.Last)
}
