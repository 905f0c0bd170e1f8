package query

import (
	"fmt"
)

// Canonical query identities. Mutation invalidation sets below must cover
// every query whose result the mutation could change.
func FeedKey(page int, minRelevance float64) Key {
	return NewKey("contentFeed", fmt.Sprintf("%d", page), fmt.Sprintf("%g", minRelevance))
}

func SearchKey(q string, page int) Key {
	return NewKey("searchContent", q, fmt.Sprintf("%d", page))
}

func SavedKey(page int) Key {
	return NewKey("savedContent", fmt.Sprintf("%d", page))
}

func ContentKey(id string) Key { return NewKey("content", id) }
func ProfileKey() Key          { return NewKey("userProfile") }
func StatsKey() Key            { return NewKey("userStats") }
func YouTubeStatusKey() Key    { return NewKey("youtubeStatus") }
func ProcessingKey() Key       { return NewKey("processingStatus") }

// Invalidation sets per mutation. Like and view change interaction overlays
// carried by feed, search, and detail results; save additionally changes the
// saved listing; dismiss removes items from the feed but deliberately leaves
// the saved list alone; profile-shaped writes change the profile, stats, and
// the personalized feed.
func LikeInvalidates(id string) []Key {
	return []Key{NewKey("contentFeed"), NewKey("searchContent"), ContentKey(id)}
}

func SaveInvalidates(id string) []Key {
	return []Key{NewKey("contentFeed"), NewKey("searchContent"), NewKey("savedContent"), ContentKey(id)}
}

func DismissInvalidates(id string) []Key {
	return []Key{NewKey("contentFeed"), NewKey("searchContent"), ContentKey(id)}
}

func ViewInvalidates(id string) []Key {
	return []Key{NewKey("contentFeed"), ContentKey(id)}
}

func ProfileInvalidates() []Key {
	return []Key{ProfileKey(), StatsKey(), NewKey("contentFeed")}
}

func ConnectionInvalidates() []Key {
	return []Key{YouTubeStatusKey(), ProfileKey()}
}
