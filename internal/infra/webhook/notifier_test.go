package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/domain"
)

const testEndpoint = "https://cdn-purge.example.com/hooks/content"

func newTestNotifier() *Notifier {
	cfg := ClientConfig{
		Endpoint: testEndpoint,
		Timeout:  5 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 2,
			WaitTime:    10 * time.Millisecond,
			MaxWaitTime: 50 * time.Millisecond,
		},
		CB: CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}

	n := NewNotifier([]ClientConfig{cfg}, zap.NewNop())

	// Activate httpmock for this notifier's HTTP transport
	httpmock.ActivateNonDefault(n.endpoints[0].client.GetClient())

	return n
}

func testEvent() domain.ChangeEvent {
	country := "CI"
	return domain.ChangeEvent{
		Action:     domain.ActionUpdated,
		ContentKey: "welcome-banner",
		Country:    &country,
		Language:   "fr",
		OccurredAt: time.Now().UTC(),
	}
}

func TestNotify_DeliversEventAsJSON(t *testing.T) {
	n := newTestNotifier()
	defer httpmock.DeactivateAndReset()

	var received domain.ChangeEvent
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, "bad body"), nil
			}
			return httpmock.NewStringResponse(http.StatusAccepted, ""), nil
		})

	n.Notify(context.Background(), testEvent())

	require.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Equal(t, domain.ActionUpdated, received.Action)
	assert.Equal(t, "welcome-banner", received.ContentKey)
	require.NotNil(t, received.Country)
	assert.Equal(t, "CI", *received.Country)
}

func TestNotify_RetriesOn5xx(t *testing.T) {
	n := newTestNotifier()
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "boom"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})

	n.Notify(context.Background(), testEvent())

	assert.Equal(t, 2, calls, "First failure should be retried")
}

func TestNotify_FailureDoesNotPanicOrBlock(t *testing.T) {
	n := newTestNotifier()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testEndpoint,
		httpmock.NewStringResponder(http.StatusBadGateway, "down"))

	// Best-effort: exhausted retries must be swallowed
	n.Notify(context.Background(), testEvent())
}

func TestNotify_NoEndpointsIsNoop(t *testing.T) {
	n := NewNotifier(nil, zap.NewNop())
	n.Notify(context.Background(), testEvent())
}
