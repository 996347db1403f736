package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withViewer(viewerID string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("X-Viewer-ID", viewerID)
	}
}

func TestCommunityTopicFlow(t *testing.T) {
	requireServer(t)
	viewer := uuid.NewString()

	createResp := makeRequest("POST", "/community/posts", map[string]interface{}{
		"title":       uniqueName("Sunscreen advice"),
		"description": "Which SPF do you use daily?",
	}, withViewer(viewer))
	require.True(t, createResp.IsSuccess(), "failed to create topic: %s", createResp.Message)
	postID := createResp.GetString("id")
	require.NotEmpty(t, postID)

	likeResp := makeRequest("POST", fmt.Sprintf("/community/posts/%s/like", postID), nil, withViewer(viewer))
	require.True(t, likeResp.IsSuccess(), "failed to like: %s", likeResp.Message)
	assert.Equal(t, true, likeResp.Data["liked"])

	// Second like from the same viewer toggles it off.
	unlikeResp := makeRequest("POST", fmt.Sprintf("/community/posts/%s/like", postID), nil, withViewer(viewer))
	require.True(t, unlikeResp.IsSuccess())
	assert.Equal(t, false, unlikeResp.Data["liked"])

	commentResp := makeRequest("POST", fmt.Sprintf("/community/posts/%s/comments", postID), map[string]string{
		"text": "I use SPF 50 every morning.",
	}, withViewer(viewer))
	require.True(t, commentResp.IsSuccess(), "failed to comment: %s", commentResp.Message)

	listResp := makeRequest("GET", fmt.Sprintf("/community/posts/%s/comments", postID), nil, withViewer(viewer))
	require.True(t, listResp.IsSuccess())
}

func TestCommunityPollFlow(t *testing.T) {
	requireServer(t)
	viewer := uuid.NewString()

	createResp := makeRequest("POST", "/community/posts", map[string]interface{}{
		"title":        uniqueName("Moisturizer poll"),
		"description":  "Pick your favorite.",
		"is_poll":      true,
		"poll_type":    "single",
		"poll_options": []string{"Cream", "Gel", "Lotion"},
	}, withViewer(viewer))
	require.True(t, createResp.IsSuccess(), "failed to create poll: %s", createResp.Message)
	postID := createResp.GetString("id")

	voteResp := makeRequest("POST", fmt.Sprintf("/community/posts/%s/vote", postID), map[string]interface{}{
		"selected_options": []int{1},
	}, withViewer(viewer))
	require.True(t, voteResp.IsSuccess(), "failed to vote: %s", voteResp.Message)

	// A second vote from the same viewer is rejected.
	again := makeRequest("POST", fmt.Sprintf("/community/posts/%s/vote", postID), map[string]interface{}{
		"selected_options": []int{2},
	}, withViewer(viewer))
	assert.False(t, again.IsSuccess())
}
