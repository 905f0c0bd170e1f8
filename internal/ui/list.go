package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

var (
	_ list.Item = contentItem{}
)

// contentItem wraps [models.Content] to implement [list.Item].
//
// Rendering is guarded: a malformed record never takes down the whole list,
// it renders as a placeholder row instead.
type contentItem struct {
	content models.Content
}

func (i contentItem) FilterValue() string {
	return safeRender(func() string { return i.content.Title })
}

func (i contentItem) Title() string {
	return safeRender(func() string {
		title := i.content.Title
		if title == "" {
			title = models.UntitledTitle
		}

		var markers string
		if i.content.IsSaved() {
			markers += " ★"
		}
		if i.content.IsLiked() {
			markers += " ♥"
		}
		return shared.Truncate(title, 70) + markers
	})
}

func (i contentItem) Description() string {
	return safeRender(func() string {
		desc := i.content.SourceChannel.Name
		if desc == "" {
			desc = i.content.Source
		}
		if i.content.Duration > 0 {
			desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.content.Duration))
		}
		if score := i.content.Relevance(); score > 0 {
			desc = fmt.Sprintf("%s • %.0f%% relevant", desc, score*100)
		}
		return desc
	})
}

// safeRender runs one row's render function, converting a panic into a
// placeholder so a single bad record cannot blank the dashboard.
func safeRender(fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = "(unrenderable item)"
		}
	}()
	return fn()
}
