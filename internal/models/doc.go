// Package models defines domain entities and persistence interfaces for the Relevant client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs mirroring the backend API
//   - [User] : Account identity, interests, followed sources, and preferences
//   - [Content] : A curated media item (video or article) with AI annotations
//   - [UserContent] : Per-user interaction overlay (viewed/liked/saved/dismissed)
//   - [Pagination] : Cursor state for feed and saved-content listings
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [CachedContent] : Locally cached content records for offline browsing
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// DecodeContent is the canonicalizing decoder for content payloads: backend
// revisions have shipped several field spellings, so every canonical field is
// resolved through a fixed candidate list with a terminal fallback.
package models
