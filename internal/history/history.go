// Package history groups a user's touchpoint and dialog history into
// programme-week buckets, collapsing duplicate kickoff sends.
package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/progcal"
)

const (
	kickoffMarker   = "kickoff"
	weekStartMarker = "week-start"

	// KickoffKey is the bucket key for kickoff content.
	KickoffKey = "kickoff"

	msPerDay = 86400000
)

// Class is the coarse classification of a history item.
type Class string

const (
	ClassKickoff   Class = "kickoff"
	ClassProgramme Class = "programme"
	ClassOther     Class = "other"
)

// Classify buckets an item into kickoff, programme, or other content.
// Kickoff wins over everything: the marker phrase in either the touchpoint
// type or the body makes an item kickoff content.
func Classify(item domain.HistoryItem) Class {
	tpType := strings.ToLower(item.TouchpointType)
	body := strings.ToLower(item.Body)
	if strings.Contains(tpType, kickoffMarker) || strings.Contains(body, kickoffMarker) {
		return ClassKickoff
	}
	if item.WeekNo != nil ||
		strings.Contains(tpType, weekStartMarker) ||
		item.Kind == domain.KindPodcast ||
		item.Kind == domain.KindPrompt {
		return ClassProgramme
	}
	return ClassOther
}

// Group buckets items into one kickoff bucket plus one bucket per programme
// week, deduplicating kickoff items that differ only in timestamp noise.
// Items without a week number land in a week-0 "Programme" bucket. Within a
// bucket items run oldest-first; buckets run kickoff-first, then descending
// week, then most-recent-item timestamp.
func Group(items []domain.HistoryItem) []domain.HistoryBucket {
	// Scan newest-first so kickoff dedup keeps the most recent send.
	ordered := make([]domain.HistoryItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMS > ordered[j].TimestampMS
	})

	buckets := make(map[string]*domain.HistoryBucket)
	seenKickoff := make(map[string]bool)

	for _, item := range ordered {
		var key, label string
		week := 0

		switch Classify(item) {
		case ClassKickoff:
			dk := dedupKey(item)
			if seenKickoff[dk] {
				continue
			}
			seenKickoff[dk] = true
			key, label = KickoffKey, "Kickoff"
		default:
			if item.WeekNo != nil {
				week = *item.WeekNo
			}
			key = fmt.Sprintf("week-%d", week)
			label = weekLabel(week)
		}

		b, ok := buckets[key]
		if !ok {
			b = &domain.HistoryBucket{Key: key, Label: label, Week: week}
			buckets[key] = b
		}
		b.Items = append(b.Items, item)
	}

	out := make([]domain.HistoryBucket, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.Items, func(i, j int) bool {
			return b.Items[i].TimestampMS < b.Items[j].TimestampMS
		})
		out = append(out, *b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Key == KickoffKey) != (b.Key == KickoffKey) {
			return a.Key == KickoffKey
		}
		if a.Week != b.Week {
			return a.Week > b.Week
		}
		return latestTimestamp(a) > latestTimestamp(b)
	})
	return out
}

// dedupKey collapses retried kickoff deliveries: same calendar day, same
// audio URL, same text modulo whitespace and case.
func dedupKey(item domain.HistoryItem) string {
	day := item.TimestampMS / msPerDay
	if item.TimestampMS < 0 && item.TimestampMS%msPerDay != 0 {
		day--
	}
	return fmt.Sprintf("%d|%s|%s", day, item.AudioURL, normalizeText(item.Body))
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func weekLabel(week int) string {
	if week == 0 {
		return "Programme"
	}
	if pillar, ok := progcal.BlockForWeek(week); ok {
		return fmt.Sprintf("Week %d: %s", week, pillar)
	}
	return fmt.Sprintf("Week %d", week)
}

func latestTimestamp(b domain.HistoryBucket) int64 {
	if len(b.Items) == 0 {
		return 0
	}
	return b.Items[len(b.Items)-1].TimestampMS
}
