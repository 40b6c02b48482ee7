package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockDistanceProvider struct {
	times []port.TravelTime
	err   error

	origin string
}

func (m *MockDistanceProvider) TravelTimes(_ context.Context, origin string) ([]port.TravelTime, error) {
	m.origin = origin
	return m.times, m.err
}

func TestDistanceRespond(t *testing.T) {
	provider := &MockDistanceProvider{times: []port.TravelTime{
		{Destination: "Office", Minutes: 25},
		{Destination: "School", Minutes: 8},
	}}
	in := &MockInteractor{}
	h := NewDistanceHandler(provider, "distance")

	resp := h.Respond(context.Background(), in, domain.Options{"address": "12 Queen St"})

	assert.Equal(t, domain.ResponseNone, resp.Kind)
	assert.Equal(t, "12 Queen St", provider.origin)
	require.Len(t, in.followups, 1)
	assert.Equal(t,
		"Travel times from 12 Queen St:\n**Office**: 25 min\n**School**: 8 min\n",
		in.followups[0].Description)
	assert.Equal(t, domain.ColorBlue, in.followups[0].Color)
}

func TestDistanceRespondMissingAddress(t *testing.T) {
	in := &MockInteractor{}
	h := NewDistanceHandler(&MockDistanceProvider{}, "distance")

	resp := h.Respond(context.Background(), in, domain.Options{})

	assert.Equal(t, domain.ResponseFailure, resp.Kind)
	assert.Equal(t, "address is required", resp.UserText())
	assert.Zero(t, in.deferred)
}

func TestDistanceRespondProviderError(t *testing.T) {
	provider := &MockDistanceProvider{err: errors.New("REQUEST_DENIED")}
	in := &MockInteractor{}
	h := NewDistanceHandler(provider, "distance")

	resp := h.Respond(context.Background(), in, domain.Options{"address": "12 Queen St"})

	assert.Equal(t, domain.ResponseComplexFailure, resp.Kind)
	assert.Equal(t, "Google API returned error, it has been logged.", resp.UserText())
	assert.Contains(t, resp.LogText(), "REQUEST_DENIED")
	assert.Empty(t, in.followups)
}
