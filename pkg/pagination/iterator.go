package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrPagination is matched by every error an Iterator reports.
	ErrPagination = errors.New("pagination failed")

	// ErrStalled means a page claimed more data but handed back the same
	// parameters it was fetched with.
	ErrStalled = errors.New("next page parameters did not advance")
)

// Params identifies one page. Page-number listings use Page; cursor
// listings use Cursor (empty for the first page).
type Params struct {
	Page   int
	Cursor string
}

// Page is the decoded result of one fetch.
type Page[T any] struct {
	Items []T

	// HasMore is the continuation marker; false is terminal.
	HasMore bool

	// Next are the parameters for the following fetch when HasMore is true.
	Next Params
}

// NextPageNumber builds a Page for page-index listings.
func NextPageNumber[T any](items []T, current Params, hasMore bool) Page[T] {
	return Page[T]{
		Items:   items,
		HasMore: hasMore,
		Next:    Params{Page: current.Page + 1},
	}
}

// NextCursor builds a Page for cursor listings: an empty cursor ends the listing.
func NextCursor[T any](items []T, cursor string) Page[T] {
	return Page[T]{
		Items:   items,
		HasMore: cursor != "",
		Next:    Params{Cursor: cursor},
	}
}

// FetchFunc performs one page fetch.
type FetchFunc[T any] func(ctx context.Context, p Params) (Page[T], error)

// Error reports a failed page fetch. It matches ErrPagination and the
// underlying cause via errors.Is.
type Error struct {
	// Fetch is the 1-based number of the fetch that failed.
	Fetch  int
	Params Params
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pagination: fetch %d (page %d, cursor %q): %v", e.Fetch, e.Params.Page, e.Params.Cursor, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrPagination, e.Err}
}

// Option configures an Iterator.
type Option func(*settings)

type settings struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for per-page debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Iterator yields the items of a paginated listing one at a time. It is not
// safe for concurrent use.
type Iterator[T any] struct {
	fetch  FetchFunc[T]
	next   Params
	buf    []T
	idx    int
	item   T
	last   bool
	stall  error
	err    error
	pages  int
	logger zerolog.Logger
}

// New creates an iterator that starts fetching at start. Nothing is fetched
// until the first call to Next.
func New[T any](fetch FetchFunc[T], start Params, opts ...Option) *Iterator[T] {
	s := settings{logger: log.With().Str("component", "pagination").Logger()}
	for _, o := range opts {
		o(&s)
	}
	return &Iterator[T]{
		fetch:  fetch,
		next:   start,
		logger: s.logger,
	}
}

// Next advances to the next item, fetching a page when the buffer is empty
// and the listing has more data. It returns false at the end of the listing
// or on error; check Err afterwards.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	for it.idx >= len(it.buf) {
		if it.err != nil {
			return false
		}
		if it.last {
			if it.stall != nil {
				it.err, it.stall = it.stall, nil
			}
			return false
		}
		it.fetchPage(ctx)
	}

	it.item = it.buf[it.idx]
	it.idx++
	return true
}

func (it *Iterator[T]) fetchPage(ctx context.Context) {
	params := it.next
	it.pages++

	page, err := it.fetch(ctx, params)
	if err != nil {
		it.err = &Error{Fetch: it.pages, Params: params, Err: err}
		it.buf, it.idx = nil, 0
		it.logger.Debug().
			Int("page", params.Page).
			Str("cursor", params.Cursor).
			Err(err).
			Msg("Page fetch failed")
		return
	}

	it.buf, it.idx = page.Items, 0

	switch {
	case !page.HasMore:
		it.last = true
	case page.Next == params:
		it.last = true
		it.stall = &Error{Fetch: it.pages, Params: params, Err: ErrStalled}
	default:
		it.next = page.Next
	}

	it.logger.Debug().
		Int("page", params.Page).
		Str("cursor", params.Cursor).
		Int("items", len(page.Items)).
		Bool("has_more", page.HasMore).
		Msg("Fetched page")
}

// Item returns the item Next advanced to.
func (it *Iterator[T]) Item() T {
	return it.item
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Pages returns how many fetches have been made.
func (it *Iterator[T]) Pages() int {
	return it.pages
}

// All returns a range-over-func sequence. A failure is yielded once, as the
// final element, with the zero item.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next(ctx) {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the iterator. On error it returns the items read so far
// together with the error.
func (it *Iterator[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for it.Next(ctx) {
		out = append(out, it.Item())
	}
	return out, it.Err()
}
