package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Per-source fetch caps. Sampling is bounded on purpose: the pool is the
// union of each source's most recent N records, so items older than the
// Nth-most-recent of a busy source are never drawn. That bias is accepted
// and documented rather than hidden behind unbounded reads.
const (
	spinSampleSize      = 50
	flashbackSampleSize = 200
)

// MemoryService draws memories from the heterogeneous sources of a cove:
// quotes, pins, stories, and, only while unlocked, the entries of the
// most recent time capsule.
type MemoryService struct {
	Dynamo   *DynamoService
	Coves    *CoveService
	Capsules *CapsuleService

	// Rand is the sampling source; defaults to the global one
	Rand *rand.Rand
}

func (s *MemoryService) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// Spin picks one memory uniformly at random from the pool of each
// source's most recent records. Uniform over the pool, not over the
// cove's full history.
func (s *MemoryService) Spin(ctx context.Context, identity models.Identity, coveID string) (*models.MemoryItem, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	pool, err := s.buildPool(ctx, coveID, spinSampleSize)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	chosen := pool[s.intn(len(pool))]
	return &chosen, nil
}

// Flashback returns every pooled memory created on today's month and day
// in a strictly earlier year, newest first. Subject to the same per-source
// fetch cap as Spin, with a larger bound.
func (s *MemoryService) Flashback(ctx context.Context, identity models.Identity, coveID string, today time.Time) ([]models.MemoryItem, error) {
	if _, err := s.Coves.RequireMember(ctx, coveID, identity.ID); err != nil {
		return nil, err
	}

	pool, err := s.buildPool(ctx, coveID, flashbackSampleSize)
	if err != nil {
		return nil, err
	}

	matches := make([]models.MemoryItem, 0)
	for _, item := range pool {
		createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
		if err != nil {
			continue
		}
		if createdAt.Month() == today.Month() &&
			createdAt.Day() == today.Day() &&
			createdAt.Year() < today.Year() {
			item.Year = createdAt.Year()
			matches = append(matches, item)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt > matches[j].CreatedAt
	})
	return matches, nil
}

// buildPool concatenates the most recent perSource records of every
// source. Locked capsule entries are excluded by the unlock predicate.
func (s *MemoryService) buildPool(ctx context.Context, coveID string, perSource int32) ([]models.MemoryItem, error) {
	var pool []models.MemoryItem

	quoteItems, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixQuote), perSource)
	if err != nil {
		return nil, err
	}
	var quotes []models.Quote
	if err := attributevalue.UnmarshalListOfMaps(quoteItems, &quotes); err != nil {
		return nil, fmt.Errorf("failed to parse quotes: %w", err)
	}
	for _, q := range quotes {
		pool = append(pool, models.MemoryItem{
			Source:     models.MemorySourceQuote,
			ID:         q.ID,
			Content:    q.Content,
			AuthorName: q.AuthorName,
			CreatedAt:  q.CreatedAt,
		})
	}

	pinItems, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixPin), perSource)
	if err != nil {
		return nil, err
	}
	var pins []models.Pin
	if err := attributevalue.UnmarshalListOfMaps(pinItems, &pins); err != nil {
		return nil, fmt.Errorf("failed to parse pins: %w", err)
	}
	for _, p := range pins {
		pool = append(pool, models.MemoryItem{
			Source:     models.MemorySourcePin,
			ID:         p.ID,
			Content:    p.Description,
			Title:      p.Title,
			AuthorName: p.AuthorName,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			CreatedAt:  p.CreatedAt,
		})
	}

	storyItems, err := querySourceRecent(ctx, s.Dynamo, models.SourceKey(coveID, models.SKPrefixStory), perSource)
	if err != nil {
		return nil, err
	}
	var stories []models.Story
	if err := attributevalue.UnmarshalListOfMaps(storyItems, &stories); err != nil {
		return nil, fmt.Errorf("failed to parse stories: %w", err)
	}
	for _, st := range stories {
		pool = append(pool, models.MemoryItem{
			Source:     models.MemorySourceStory,
			ID:         st.ID,
			Content:    st.Content,
			AuthorName: st.DisplayName(),
			CreatedAt:  st.CreatedAt,
		})
	}

	capsule, err := s.Capsules.latestCapsule(ctx, coveID)
	if err == ErrNotFound {
		return pool, nil
	}
	if err != nil {
		return nil, err
	}
	if !capsule.IsUnlocked(s.Capsules.now()) {
		return pool, nil
	}

	entries, err := s.Capsules.listEntries(ctx, coveID, capsule.ID, perSource)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		pool = append(pool, models.MemoryItem{
			Source:     models.MemorySourceCapsule,
			ID:         e.ID,
			Content:    e.Text,
			AuthorName: e.AuthorName,
			CreatedAt:  e.CreatedAt,
		})
	}

	return pool, nil
}
