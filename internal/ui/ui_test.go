package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/session"
	"github.com/sandwipshanto/relevant/internal/shared"
)

func TestContentItem(t *testing.T) {
	t.Run("TitleAndMarkers", func(t *testing.T) {
		item := contentItem{content: models.Content{
			Title: "Understanding Go Channels",
			UserContent: &models.UserContent{
				Saved: true,
				Liked: true,
			},
		}}

		title := item.Title()
		if !strings.Contains(title, "Understanding Go Channels") {
			t.Errorf("title = %q", title)
		}
		if !strings.Contains(title, "★") || !strings.Contains(title, "♥") {
			t.Errorf("markers missing: %q", title)
		}
	})

	t.Run("EmptyTitleFallsBack", func(t *testing.T) {
		item := contentItem{content: models.Content{}}
		if got := item.Title(); !strings.Contains(got, models.UntitledTitle) {
			t.Errorf("title = %q", got)
		}
	})

	t.Run("Description", func(t *testing.T) {
		item := contentItem{content: models.Content{
			Source:        "youtube",
			SourceChannel: models.SourceChannel{Name: "Go Time"},
			Duration:      840,
			UserContent:   &models.UserContent{RelevanceScore: 0.92},
		}}

		desc := item.Description()
		for _, want := range []string{"Go Time", "14:00", "92% relevant"} {
			if !strings.Contains(desc, want) {
				t.Errorf("description %q missing %q", desc, want)
			}
		}
	})

	t.Run("ChannellessFallsBackToSource", func(t *testing.T) {
		item := contentItem{content: models.Content{Source: "rss"}}
		if got := item.Description(); !strings.Contains(got, "rss") {
			t.Errorf("description = %q", got)
		}
	})
}

func TestSafeRender(t *testing.T) {
	t.Run("PanicBecomesPlaceholder", func(t *testing.T) {
		got := safeRender(func() string {
			panic("corrupt record")
		})
		if got != "(unrenderable item)" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("NormalRenderPassesThrough", func(t *testing.T) {
		if got := safeRender(func() string { return "fine" }); got != "fine" {
			t.Errorf("got %q", got)
		}
	})
}

func TestViewStateString(t *testing.T) {
	cases := map[ViewState]string{
		LoginView:   "login",
		FeedView:    "feed",
		SavedView:   "saved",
		DetailView:  "detail",
		ProfileView: "profile",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}

// testModel builds a Model backed by a fake login endpoint and an isolated
// credential file.
func testModel(t *testing.T) (*Model, *session.Session) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "testuser@relevant.com" || body.Password != "testpass123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-tui-test",
			"user":    map[string]any{"_id": "u1", "email": body.Email, "name": "TUI Tester"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := session.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	client := api.New(api.Options{BaseURL: server.URL, Tokens: store.TokenSource()})
	sess := session.New(session.Options{
		Store:  store,
		Client: client,
		Logger: shared.NewLogger(io.Discard),
	})

	return NewModel(context.Background(), sess, client, 5, 0), sess
}

func TestAuthGuard(t *testing.T) {
	t.Run("GuardedViewResumesAfterLogin", func(t *testing.T) {
		m, sess := testModel(t)

		m.Update(sessionLoadedMsg{state: session.Unauthenticated})
		if m.view != LoginView {
			t.Fatalf("unauthenticated session landed on %v, want login", m.view)
		}

		// Heading for saved content while signed out bounces to login and
		// remembers the destination.
		m.enter(SavedView)
		if m.view != LoginView {
			t.Fatalf("guard let a signed-out user into %v", m.view)
		}

		user, err := sess.Login(context.Background(), "testuser@relevant.com", "testpass123")
		if err != nil {
			t.Fatal(err)
		}

		m.Update(loggedInMsg{user: user})
		if m.view != SavedView {
			t.Errorf("after login landed on %v, want the interrupted saved view", m.view)
		}
	})

	t.Run("PlainLoginLandsOnFeed", func(t *testing.T) {
		m, sess := testModel(t)

		m.Update(sessionLoadedMsg{state: session.Unauthenticated})

		user, err := sess.Login(context.Background(), "testuser@relevant.com", "testpass123")
		if err != nil {
			t.Fatal(err)
		}

		m.Update(loggedInMsg{user: user})
		if m.view != FeedView {
			t.Errorf("after login landed on %v, want feed", m.view)
		}
	})
}

func TestKeyMapHelp(t *testing.T) {
	keys := newKeyMap()

	if short := keys.ShortHelp(); len(short) == 0 {
		t.Error("short help is empty")
	}
	full := keys.FullHelp()
	if len(full) == 0 {
		t.Fatal("full help is empty")
	}
	total := 0
	for _, group := range full {
		total += len(group)
	}
	if total < 10 {
		t.Errorf("full help lists %d bindings", total)
	}
}
