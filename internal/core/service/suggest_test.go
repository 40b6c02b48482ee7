package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockItemStore struct {
	userItems   []domain.ShoppingListItem
	globalItems []domain.ShoppingListItem
	userErr     error
	globalErr   error

	userLimit   int
	globalLimit int

	orphanList  []domain.OrphanedRender
	orphanErr   error
	orphanCalls atomic.Int32
}

func (m *MockItemStore) Insert(_ context.Context, _ domain.NewShoppingListItem, _, _, _ uint64, _ *uint64) error {
	return nil
}

func (m *MockItemStore) GetByMessageID(_ context.Context, _ uint64) (*domain.ShoppingListItem, error) {
	return nil, nil
}

func (m *MockItemStore) SetStatus(_ context.Context, _, _ uint64, _ domain.ItemStatus) error {
	return nil
}

func (m *MockItemStore) RecentItemsForUser(_ context.Context, _ uint64, limit int) ([]domain.ShoppingListItem, error) {
	m.userLimit = limit
	return m.userItems, m.userErr
}

func (m *MockItemStore) RecentItems(_ context.Context, limit int) ([]domain.ShoppingListItem, error) {
	m.globalLimit = limit
	return m.globalItems, m.globalErr
}

func (m *MockItemStore) RecordOrphan(_ context.Context, _, _ uint64, _ string) error {
	return nil
}

func (m *MockItemStore) Orphans(_ context.Context) ([]domain.OrphanedRender, error) {
	m.orphanCalls.Add(1)
	return m.orphanList, m.orphanErr
}

func itemNamed(name string) domain.ShoppingListItem {
	return domain.ShoppingListItem{Item: name, Status: domain.StatusActive}
}

func itemAtStore(name, store string) domain.ShoppingListItem {
	return domain.ShoppingListItem{Item: name, Store: &store, Status: domain.StatusActive}
}

func TestRankPrefixBeforeContainsBeforeRest(t *testing.T) {
	names := []string{"milk 2L", "chocolate", "rich chocolate", "cheese 1kg", "bread"}

	Rank(names, "ch")

	assert.Equal(t, []string{"cheese 1kg", "chocolate", "rich chocolate", "bread", "milk 2L"}, names)
}

func TestRankScenario(t *testing.T) {
	names := []string{"cheese 1kg", "chocolate", "milk 2L"}

	Rank(names, "ch")

	assert.Equal(t, []string{"cheese 1kg", "chocolate"}, names[:2])
	assert.Equal(t, "milk 2L", names[2])
}

func TestRankDeterministic(t *testing.T) {
	forward := []string{"apple", "chocolate", "cherry jam", "milk 2L", "bread", "chia seeds"}
	backward := []string{"chia seeds", "bread", "milk 2L", "cherry jam", "chocolate", "apple"}

	Rank(forward, "ch")
	Rank(backward, "ch")

	assert.Equal(t, forward, backward)
}

func TestRankEmptyPrefixIsLexicographic(t *testing.T) {
	names := []string{"carrots", "apple", "bread"}

	Rank(names, "")

	assert.Equal(t, []string{"apple", "bread", "carrots"}, names)
}

func TestSuggestItemsMergesUserGlobalAndSeeds(t *testing.T) {
	ms := &MockItemStore{
		userItems:   []domain.ShoppingListItem{itemNamed("charcoal")},
		globalItems: []domain.ShoppingListItem{itemNamed("chai latte"), itemNamed("charcoal")},
	}
	s := NewSuggester(ms)

	suggestions, err := s.Suggest(context.Background(), domain.FieldItem, 1, "cha")

	require.NoError(t, err)
	assert.Equal(t, recentFetchLimit, ms.userLimit)
	assert.Equal(t, recentFetchLimit, ms.globalLimit)
	require.GreaterOrEqual(t, len(suggestions), 2)
	assert.Equal(t, "chai latte", suggestions[0].Name)
	assert.Equal(t, "charcoal", suggestions[1].Name)
}

func TestSuggestNeverExceedsCap(t *testing.T) {
	ms := &MockItemStore{}
	for i := 0; i < 60; i++ {
		ms.globalItems = append(ms.globalItems, itemNamed(fmt.Sprintf("item %03d", i)))
	}
	s := NewSuggester(ms)

	suggestions, err := s.Suggest(context.Background(), domain.FieldItem, 1, "")

	require.NoError(t, err)
	assert.Len(t, suggestions, MaxSuggestions)
}

func TestSuggestSeedsServeNewUsers(t *testing.T) {
	s := NewSuggester(&MockItemStore{})

	items, err := s.Suggest(context.Background(), domain.FieldItem, 1, "milk")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, "milk 2L", items[0].Name)

	stores, err := s.Suggest(context.Background(), domain.FieldStore, 1, "")
	require.NoError(t, err)
	assert.Len(t, stores, len(domain.SeedStoreNames))
}

func TestSuggestStoreFieldSkipsItemsWithoutStore(t *testing.T) {
	ms := &MockItemStore{
		userItems: []domain.ShoppingListItem{
			itemAtStore("milk 2L", "Zamora Dairy"),
			itemNamed("bread"),
		},
	}
	s := NewSuggester(ms)

	suggestions, err := s.Suggest(context.Background(), domain.FieldStore, 1, "Zam")

	require.NoError(t, err)
	assert.Equal(t, "Zamora Dairy", suggestions[0].Name)
	for _, sg := range suggestions {
		assert.NotEqual(t, "bread", sg.Name)
	}
}

func TestSuggestDeterministicForFixedInputs(t *testing.T) {
	ms := &MockItemStore{
		userItems:   []domain.ShoppingListItem{itemNamed("chutney"), itemNamed("chips")},
		globalItems: []domain.ShoppingListItem{itemNamed("chorizo")},
	}
	s := NewSuggester(ms)

	first, err := s.Suggest(context.Background(), domain.FieldItem, 1, "ch")
	require.NoError(t, err)

	second, err := s.Suggest(context.Background(), domain.FieldItem, 1, "ch")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSuggestInvalidField(t *testing.T) {
	s := NewSuggester(&MockItemStore{})

	_, err := s.Suggest(context.Background(), domain.Field("quantity"), 1, "")

	require.Error(t, err)
}

func TestSuggestPropagatesStoreErrors(t *testing.T) {
	s := NewSuggester(&MockItemStore{userErr: errors.New("connection refused")})

	_, err := s.Suggest(context.Background(), domain.FieldItem, 1, "")

	require.Error(t, err)
}
