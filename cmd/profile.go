package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the account profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	user, err := query.FetchAs(ctx, r.cache, query.ProfileKey(), r.staleAfter(),
		func(ctx context.Context) (*models.User, error) {
			return r.client.Profile(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Profile")
	r.writePlain("Name:      %s\n", user.Name)
	r.writePlain("Email:     %s\n", user.Email)
	r.writePlain("Interests: %d categories\n", len(user.Interests))
	r.writePlain("Sources:   %d channels\n", len(user.Sources))
	r.writePlain("Feed:      %s, max %d/day, threshold %.0f%%\n",
		user.Preferences.FeedFrequency, user.Preferences.MaxContentPerDay,
		user.Preferences.RelevanceThreshold*100)
	return nil
}

// ProfileStats prints account activity statistics.
func (r *Runner) ProfileStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := query.FetchAs(ctx, r.cache, query.StatsKey(), r.staleAfter(),
		func(ctx context.Context) (*models.UserStats, error) {
			return r.client.Stats(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Stats")
	r.writePlain("Interests:       %d\n", stats.TotalInterests)
	r.writePlain("YouTube sources: %d\n", stats.TotalYoutubeSources)
	r.writePlain("Member since:    %s\n", stats.MemberSince)
	r.writePlain("Last active:     %s\n", stats.LastActive)
	return nil
}

// PrefsSet updates feed preferences, sending the merged result so unset
// flags keep their current values.
func (r *Runner) PrefsSet(ctx context.Context, cmd *cli.Command) error {
	user, err := r.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current preferences: %w", err)
	}

	prefs := user.Preferences
	if cmd.IsSet("frequency") {
		freq := cmd.String("frequency")
		switch freq {
		case "daily", "weekly", "realtime":
			prefs.FeedFrequency = freq
		default:
			return fmt.Errorf("%w: frequency must be daily, weekly or realtime", shared.ErrInvalidFlag)
		}
	}
	if cmd.IsSet("max-per-day") {
		prefs.MaxContentPerDay = int(cmd.Int("max-per-day"))
	}
	if cmd.IsSet("threshold") {
		prefs.RelevanceThreshold = cmd.Float("threshold")
	}
	if cmd.IsSet("language") {
		prefs.ContentLanguage = cmd.String("language")
	}
	if cmd.IsSet("email-notifications") {
		prefs.EmailNotifications = cmd.Bool("email-notifications")
	}

	err = r.cache.Mutate(ctx, query.ProfileInvalidates(), func(ctx context.Context) error {
		updated, err := r.client.UpdatePreferences(ctx, prefs)
		if err != nil {
			return err
		}
		r.session.UpdateUser(updated)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	r.writePlainln("✓ Preferences updated")
	return nil
}

// InterestsShow prints the hierarchical interest tree.
func (r *Runner) InterestsShow(ctx context.Context, cmd *cli.Command) error {
	user, err := query.FetchAs(ctx, r.cache, query.ProfileKey(), r.staleAfter(),
		func(ctx context.Context) (*models.User, error) {
			return r.client.Profile(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch interests: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user.Interests, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Interests")
	if len(user.Interests) == 0 {
		r.writePlain("(none)\n")
		return nil
	}

	names := make([]string, 0, len(user.Interests))
	for name := range user.Interests {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		category := user.Interests[name]
		r.writePlain("%s (priority %d): %s\n", name, category.Priority, strings.Join(category.Keywords, ", "))
		for sub, subcat := range category.Subcategories {
			r.writePlain("  %s (priority %d): %s\n", sub, subcat.Priority, strings.Join(subcat.Keywords, ", "))
		}
	}
	return nil
}

// InterestsSet replaces one interest category or subcategory, keeping the
// rest of the tree. A "Parent/Sub" path targets a subcategory.
func (r *Runner) InterestsSet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("category")
	if path == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}
	category, sub, _ := strings.Cut(path, "/")

	keywords := cmd.StringSlice("keyword")
	if len(keywords) == 0 && !cmd.Bool("remove") {
		return fmt.Errorf("%w: at least one --keyword", shared.ErrMissingArgument)
	}

	user, err := r.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current interests: %w", err)
	}

	interests := user.Interests
	if interests == nil {
		interests = models.Interests{}
	}
	priority := int(cmd.Int("priority"))

	switch {
	case cmd.Bool("remove") && sub != "":
		parent := interests[category]
		delete(parent.Subcategories, sub)
		interests[category] = parent
	case cmd.Bool("remove"):
		delete(interests, category)
	case sub != "":
		parent, ok := interests[category]
		if !ok {
			parent = models.InterestCategory{Priority: priority}
		}
		if parent.Subcategories == nil {
			parent.Subcategories = map[string]models.InterestSubcategory{}
		}
		parent.Subcategories[sub] = models.InterestSubcategory{
			Priority: priority,
			Keywords: keywords,
		}
		interests[category] = parent
	default:
		existing := interests[category]
		interests[category] = models.InterestCategory{
			Priority:      priority,
			Keywords:      keywords,
			Subcategories: existing.Subcategories,
		}
	}

	err = r.cache.Mutate(ctx, query.ProfileInvalidates(), func(ctx context.Context) error {
		updated, err := r.client.UpdateInterests(ctx, interests)
		if err != nil {
			return err
		}
		r.session.UpdateUser(updated)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update interests: %w", err)
	}

	if cmd.Bool("remove") {
		r.writePlainln("✓ Removed interest %q", path)
	} else {
		r.writePlainln("✓ Set interest %q (%d keywords)", path, len(keywords))
	}
	return nil
}

// SourcesList prints the followed YouTube channels.
func (r *Runner) SourcesList(ctx context.Context, cmd *cli.Command) error {
	user, err := query.FetchAs(ctx, r.cache, query.ProfileKey(), r.staleAfter(),
		func(ctx context.Context) (*models.User, error) {
			return r.client.Profile(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch sources: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user.Sources, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Sources (%d)", len(user.Sources)))
	for _, source := range user.Sources {
		r.writePlain("%-30s %s\n", source.ChannelTitle, source.ChannelID)
	}
	return nil
}

// SourcesAdd follows a YouTube channel.
func (r *Runner) SourcesAdd(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id", shared.ErrMissingArgument)
	}

	source := models.YouTubeSource{
		ChannelID:    channelID,
		ChannelTitle: cmd.String("title"),
		ChannelURL:   cmd.String("url"),
	}

	var sources []models.YouTubeSource
	err := r.cache.Mutate(ctx, query.ProfileInvalidates(), func(ctx context.Context) error {
		var err error
		sources, err = r.client.AddYouTubeSource(ctx, source)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	r.writePlainln("✓ Following %s (%d sources total)", channelID, len(sources))
	return nil
}

// SourcesRemove unfollows a YouTube channel.
func (r *Runner) SourcesRemove(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("channel-id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id", shared.ErrMissingArgument)
	}

	var sources []models.YouTubeSource
	err := r.cache.Mutate(ctx, query.ProfileInvalidates(), func(ctx context.Context) error {
		var err error
		sources, err = r.client.RemoveYouTubeSource(ctx, channelID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	r.writePlainln("✓ Unfollowed %s (%d sources remain)", channelID, len(sources))
	return nil
}
