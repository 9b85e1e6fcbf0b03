package friend

import (
	"context"

	"wayfarer/internal/app/user"
)

// Suggestions computes friend-of-friends candidates for the user:
// travelers two hops away who are neither the user nor already a direct
// friend. The result is a finite, unordered, deduplicated list.
func (s *Service) Suggestions(ctx context.Context, email string) ([]user.Profile, error) {
	direct, err := s.store.Friends(ctx, email)
	if err != nil {
		return nil, err
	}

	if len(direct) == 0 {
		return []user.Profile{}, nil
	}

	directEmails := make([]string, 0, len(direct))
	for _, p := range direct {
		directEmails = append(directEmails, p.UserID)
	}

	edges, err := s.store.EdgesTouching(ctx, directEmails)
	if err != nil {
		return nil, err
	}

	return suggestionCandidates(email, directEmails, edges), nil
}

// suggestionCandidates walks the edges touching the direct-friend set and
// collects each second-degree endpoint that is neither me nor a direct
// friend. Duplicates collapse by user ID; candidate attributes are stable so
// last write wins is fine.
func suggestionCandidates(me string, directEmails []string, edges []Friendship) []user.Profile {
	directSet := make(map[string]struct{}, len(directEmails))
	for _, email := range directEmails {
		directSet[email] = struct{}{}
	}

	candidates := make(map[string]user.Profile)

	consider := func(bridge, candidate user.Profile) {
		if _, isDirect := directSet[bridge.UserID]; !isDirect {
			return
		}
		if candidate.UserID == me {
			return
		}
		if _, isDirect := directSet[candidate.UserID]; isDirect {
			return
		}
		candidates[candidate.UserID] = candidate
	}

	for _, edge := range edges {
		consider(edge.Requesting, edge.Receiving)
		consider(edge.Receiving, edge.Requesting)
	}

	out := make([]user.Profile, 0, len(candidates))
	for _, p := range candidates {
		out = append(out, p)
	}
	return out
}
