// Package chardb resolves unit names to unit ids using the character
// database, a JSON object keyed by unit id.
package chardb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Faultbox/ffbetool/pkg/encoding"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidDatabase   = errors.New("invalid character database")
	ErrNoSource          = errors.New("no character database available")
)

// maxBodySize caps a downloaded database.
const maxBodySize = 64 << 20

// Character is one database entry.
type Character struct {
	ID     int
	Type   string
	Name   string
	Rarity string
}

// DB is an in-memory character database.
type DB struct {
	chars []Character // sorted by id
	byID  map[int]int
}

// Parse reads a database document.
func Parse(data []byte) (*DB, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidDatabase)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object keyed by unit id", ErrInvalidDatabase)
	}

	var chars []Character
	root.ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil || !value.IsObject() {
			return true // not a unit entry
		}
		chars = append(chars, Character{
			ID:     id,
			Type:   value.Get("type").String(),
			Name:   value.Get("name").String(),
			Rarity: value.Get("rarity").String(),
		})
		return true
	})

	return New(chars), nil
}

// New builds a database from entries. Later duplicates of an id win.
func New(chars []Character) *DB {
	db := &DB{byID: make(map[int]int, len(chars))}
	for _, c := range chars {
		if i, ok := db.byID[c.ID]; ok {
			db.chars[i] = c
			continue
		}
		db.byID[c.ID] = len(db.chars)
		db.chars = append(db.chars, c)
	}

	sort.Slice(db.chars, func(i, j int) bool { return db.chars[i].ID < db.chars[j].ID })
	for i, c := range db.chars {
		db.byID[c.ID] = i
	}
	return db
}

// Len returns the number of characters.
func (db *DB) Len() int {
	return len(db.chars)
}

// Get returns the character with the given id.
func (db *DB) Get(id int) (Character, bool) {
	i, ok := db.byID[id]
	if !ok {
		return Character{}, false
	}
	return db.chars[i], true
}

// MatchKind classifies a lookup.
type MatchKind int

const (
	NotFound MatchKind = iota
	Found
	Multiple
)

func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case Multiple:
		return "multiple"
	default:
		return "not found"
	}
}

// LookupResult is the outcome of a name lookup. ID is set for Found,
// Candidates for Multiple.
type LookupResult struct {
	Kind       MatchKind
	ID         int
	Candidates []Character
}

// Lookup finds a character by name, ignoring case and diacritics. A single
// exact match wins. Otherwise every character whose name contains the query
// is offered as a candidate.
func (db *DB) Lookup(name string) LookupResult {
	query := encoding.FoldName(name)
	if query == "" {
		return LookupResult{Kind: NotFound}
	}

	var exact, similar []Character
	for _, c := range db.chars {
		folded := encoding.FoldName(c.Name)
		switch {
		case folded == query:
			exact = append(exact, c)
		case strings.Contains(folded, query):
			similar = append(similar, c)
		}
	}

	switch {
	case len(exact) == 1:
		return LookupResult{Kind: Found, ID: exact[0].ID}
	case len(exact) > 1:
		return LookupResult{Kind: Multiple, Candidates: exact}
	case len(similar) > 0:
		return LookupResult{Kind: Multiple, Candidates: similar}
	default:
		return LookupResult{Kind: NotFound}
	}
}

// AmbiguousNameError lists the characters a name could refer to.
type AmbiguousNameError struct {
	Name       string
	Candidates []Character
}

func (e *AmbiguousNameError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %q is ambiguous, candidates:", ErrCharacterNotFound, e.Name)
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "\n\t%d -> %s", c.ID, c.Name)
	}
	return b.String()
}

func (e *AmbiguousNameError) Unwrap() error {
	return ErrCharacterNotFound
}

// Resolve maps a name to a unit id.
func (db *DB) Resolve(name string) (int, error) {
	res := db.Lookup(name)
	switch res.Kind {
	case Found:
		return res.ID, nil
	case Multiple:
		return 0, &AmbiguousNameError{Name: name, Candidates: res.Candidates}
	default:
		return 0, fmt.Errorf("%w: %q", ErrCharacterNotFound, name)
	}
}

// LoadFile reads a database from disk.
func LoadFile(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading character database: %w", err)
	}
	return Parse(data)
}

// Fetch downloads a database.
func Fetch(ctx context.Context, client *http.Client, url string) (*DB, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching character database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching character database: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading character database: %w", err)
	}
	return Parse(data)
}

// Source says where a database comes from.
type Source struct {
	Path      string
	RemoteURL string
	Timeout   time.Duration
	Client    *http.Client
}

// Load reads the database from Path, falling back to RemoteURL when the
// file does not exist.
func Load(ctx context.Context, src Source, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if src.Path != "" {
		db, err := LoadFile(src.Path)
		if err == nil {
			log.Debug("character database loaded", zap.String("path", src.Path), zap.Int("characters", db.Len()))
			return db, nil
		}
		if !errors.Is(err, os.ErrNotExist) || src.RemoteURL == "" {
			return nil, err
		}
		log.Info("character database not found locally, downloading", zap.String("url", src.RemoteURL))
	}

	if src.RemoteURL == "" {
		return nil, ErrNoSource
	}

	client := src.Client
	if client == nil {
		client = http.DefaultClient
	}
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	db, err := Fetch(ctx, client, src.RemoteURL)
	if err != nil {
		return nil, err
	}
	log.Debug("character database downloaded", zap.Int("characters", db.Len()))
	return db, nil
}
