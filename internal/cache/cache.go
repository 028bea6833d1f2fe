// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache implements the pre-computed response store used in demo
// mode. Each paper's responses live in one flat JSON file mapping cache
// keys to response text; the whole directory is loaded into memory at
// startup and lookups never touch the AI backend.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store holds cached responses for a set of papers.
type Store struct {
	dir    string
	papers map[string]map[string]string
}

// Load reads every <paperID>.json file in dir. A missing directory is not
// an error; it yields an empty store so demo mode degrades to cache
// misses instead of failing.
func Load(dir string) (*Store, error) {
	s := &Store{dir: dir, papers: make(map[string]map[string]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading cache directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading cache file %s: %w", name, err)
		}

		var responses map[string]string
		if err := json.Unmarshal(data, &responses); err != nil {
			return nil, fmt.Errorf("parsing cache file %s: %w", name, err)
		}

		paperID := strings.TrimSuffix(name, ".json")
		s.papers[paperID] = responses
	}

	return s, nil
}

// Save writes one paper's responses to <dir>/<paperID>.json and updates
// the in-memory store.
func (s *Store) Save(paperID string, responses map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache for %s: %w", paperID, err)
	}

	path := filepath.Join(s.dir, paperID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file %s: %w", path, err)
	}

	s.papers[paperID] = responses
	return nil
}

// Papers returns the IDs of all cached papers, sorted.
func (s *Store) Papers() []string {
	ids := make([]string, 0, len(s.papers))
	for id := range s.papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Keys returns the cache keys for one paper, sorted. Nil if the paper is
// not cached.
func (s *Store) Keys(paperID string) []string {
	responses, ok := s.papers[paperID]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Response looks up a cached answer for the query. Key derivation follows
// a fixed precedence so the same inputs always hit the same entry:
//
//	math/code/concept with a section: explain_<section>_<type>, then explain_<section>
//	quiz:          quiz_<section> (when a section is given), then quiz_general
//	chat:          normalized substring match over chat_* keys, then chat_general
//	anything else: the query type verbatim
func (s *Store) Response(paperID, queryType, section, query string) (string, bool) {
	responses, ok := s.papers[paperID]
	if !ok {
		return "", false
	}

	if queryType == "chat" {
		if key, ok := MatchChatKey(sortedKeys(responses), query); ok {
			return responses[key], true
		}
		if resp, ok := responses["chat_general"]; ok {
			return resp, true
		}
		return "", false
	}

	for _, key := range KeyCandidates(queryType, section) {
		if resp, ok := responses[key]; ok {
			return resp, true
		}
	}
	return "", false
}

// KeyCandidates returns the cache keys to try for a non-chat query, in
// precedence order.
func KeyCandidates(queryType, section string) []string {
	switch {
	case section != "" && (queryType == "math" || queryType == "code" || queryType == "concept"):
		return []string{"explain_" + section + "_" + queryType, "explain_" + section}
	case queryType == "quiz":
		if section == "" {
			return []string{"quiz_general"}
		}
		return []string{"quiz_" + section, "quiz_general"}
	default:
		return []string{queryType}
	}
}

// stopwords are dropped when reducing a question to its content words.
// Without this, "What's the main contribution?" and the key derived from
// "What is the main contribution of this work?" never substring-match.
var stopwords = map[string]bool{
	"what": true, "whats": true, "is": true, "are": true, "the": true,
	"of": true, "this": true, "that": true, "a": true, "an": true,
	"it": true, "its": true, "do": true, "does": true, "how": true,
	"can": true, "you": true, "me": true, "about": true, "in": true,
	"to": true, "for": true, "on": true, "work": true, "paper": true,
}

// questionCore reduces a question or chat key to its lowercase content
// words joined by single spaces.
func questionCore(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(b.String()) {
		if !stopwords[w] {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

// MatchChatKey finds the chat_* key whose content words overlap the query:
// either the query's core contains the key's core or vice versa. Keys are
// scanned in sorted order so ties resolve deterministically. chat_general
// is excluded; it is the caller's fallback, not a match.
func MatchChatKey(keys []string, query string) (string, bool) {
	core := questionCore(query)
	if core == "" {
		return "", false
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, "chat_") || key == "chat_general" {
			continue
		}
		keyCore := questionCore(strings.TrimPrefix(key, "chat_"))
		if keyCore == "" {
			continue
		}
		if strings.Contains(core, keyCore) || strings.Contains(keyCore, core) {
			return key, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
