// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing curated content:
//  1. [LoginView] : Sign in with email and password
//  2. [FeedView] : Browse the personalized feed with infinite scroll
//  3. [SavedView] : Browse the saved-content listing
//  4. [DetailView] : Inspect one item's summary, highlights, and tags
//  5. [ProfileView] : Show the account's interests and connections
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Feed and saved listings are backed by pagers that accumulate pages and refuse
// duplicate requests; reaching the end of the list loads the next page.
// Authenticated views are guarded: an unauthenticated visit remembers the
// destination and resumes there after a successful sign-in.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s/l/x, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
