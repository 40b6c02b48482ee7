package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/rs/zerolog/log"
)

// recentFetchLimit bounds how much history feeds the candidate set, per
// scope (user and global).
const recentFetchLimit = 50

// MaxSuggestions is the platform's hard ceiling on autocomplete choices.
const MaxSuggestions = 25

// Suggester builds ranked autocomplete candidate lists from store history
// merged with static seed data.
type Suggester struct {
	store port.ItemStore
}

func NewSuggester(store port.ItemStore) *Suggester {
	return &Suggester{store: store}
}

// Suggest returns at most MaxSuggestions candidates for the given field,
// ranked against the search prefix. Results are deterministic for fixed
// inputs: the comparator is a total order over the candidate set.
func (s *Suggester) Suggest(ctx context.Context, field domain.Field, userID uint64, prefix string) ([]domain.Suggestion, error) {
	mine, err := s.store.RecentItemsForUser(ctx, userID, recentFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent items for user %d: %w", userID, err)
	}

	global, err := s.store.RecentItems(ctx, recentFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent items: %w", err)
	}

	candidates := make(map[string]struct{})
	for _, item := range append(mine, global...) {
		switch field {
		case domain.FieldItem:
			candidates[item.Item] = struct{}{}
		case domain.FieldStore:
			if item.Store != nil {
				candidates[*item.Store] = struct{}{}
			}
		}
	}

	switch field {
	case domain.FieldItem:
		for _, seed := range domain.SeedItems {
			candidates[seed] = struct{}{}
		}
	case domain.FieldStore:
		for _, seed := range domain.SeedStoreNames {
			candidates[seed] = struct{}{}
		}
	default:
		return nil, fmt.Errorf("invalid autocomplete field %q", field)
	}

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}

	Rank(names, prefix)

	if len(names) > MaxSuggestions {
		names = names[:MaxSuggestions]
	}

	log.Debug().
		Str("field", string(field)).
		Str("prefix", prefix).
		Int("candidates", len(candidates)).
		Int("returned", len(names)).
		Msg("ranked suggestions")

	suggestions := make([]domain.Suggestion, len(names))
	for i, name := range names {
		suggestions[i] = domain.Suggestion{Name: name, Value: name}
	}

	return suggestions, nil
}

// Rank sorts candidates in place relative to the search prefix: candidates
// starting with the prefix first, then candidates merely containing it,
// lexicographic ascending within each tier.
func Rank(names []string, prefix string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]

		aStart := strings.HasPrefix(a, prefix)
		bStart := strings.HasPrefix(b, prefix)
		if aStart != bStart {
			return aStart
		}

		aContains := strings.Contains(a, prefix)
		bContains := strings.Contains(b, prefix)
		if aContains != bContains {
			return aContains
		}

		return a < b
	})
}
