package vocab

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jmylchreest/vocabharvest/internal/page"
)

// fakeSource serves a fixed list of cards.
type fakeSource struct {
	cards   [][]string
	listErr error
	readErr error
}

func (f *fakeSource) ListCards(ctx context.Context) ([]page.Card, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	cards := make([]page.Card, len(f.cards))
	for i := range cards {
		cards[i] = page.Card{Index: i}
	}
	return cards, nil
}

func (f *fakeSource) CardFields(ctx context.Context, c page.Card) ([]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.cards[c.Index], nil
}

func TestExtract_EndToEndExample(t *testing.T) {
	src := &fakeSource{cards: [][]string{
		{"Hola", "Hello"},
		{"Practice now", "ignored"},
	}}

	table, stats, err := Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := "\"Spanish\",\"English\"\n\"Hola\",\"Hello\""
	if got := EncodeCSV(table); got != want {
		t.Errorf("EncodeCSV() =\n%s\nwant\n%s", got, want)
	}
	if stats.Cards != 2 || stats.Accepted != 1 || stats.Noise != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestExtract_Rules(t *testing.T) {
	src := &fakeSource{cards: [][]string{
		{"  Hola ", " Hello\n"},
		{"solo"},
		{},
		{"", "empty source"},
		{"12 words", "Unit 3"},
		{"gato", "cat", "example sentence"},
		{"una frase demasiado larga para ser una palabra", "too long"},
		{"gato", "cat"},
	}}

	table, stats, err := Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []Pair{{"Hola", "Hello"}, {"gato", "cat"}, {"gato", "cat"}}
	if !reflect.DeepEqual(table.Pairs, want) {
		t.Errorf("pairs = %q, want %q", table.Pairs, want)
	}

	wantStats := Stats{Cards: 8, Malformed: 2, Accepted: 3, Empty: 1, Noise: 1, TooLong: 1}
	if stats != wantStats {
		t.Errorf("stats = %+v, want %+v", stats, wantStats)
	}
	if stats.Rejected() != 3 {
		t.Errorf("Rejected() = %d, want 3", stats.Rejected())
	}
}

func TestExtract_NoCards(t *testing.T) {
	table, stats, err := Extract(context.Background(), &fakeSource{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if table.Len() != 0 || stats.Cards != 0 {
		t.Errorf("expected empty result, got %d pairs, %+v", table.Len(), stats)
	}
	if got := EncodeCSV(table); got != `"Spanish","English"` {
		t.Errorf("expected header-only CSV, got %q", got)
	}
}

func TestExtract_Errors(t *testing.T) {
	ctx := context.Background()

	if _, _, err := Extract(ctx, &fakeSource{listErr: page.ErrNoDocument}); !errors.Is(err, page.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}

	src := &fakeSource{cards: [][]string{{"a", "b"}}, readErr: page.ErrUnknownCard}
	if _, _, err := Extract(ctx, src); !errors.Is(err, page.ErrUnknownCard) {
		t.Errorf("expected ErrUnknownCard, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := Extract(canceled, &fakeSource{cards: [][]string{{"a", "b"}}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExtract_Snapshot(t *testing.T) {
	html, err := os.ReadFile(filepath.Join("..", "page", "testdata", "vocab.html"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	snap, err := page.ParseSnapshot(string(html), page.DefaultSelectors())
	if err != nil {
		t.Fatal(err)
	}

	table, stats, err := Extract(context.Background(), snap)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []Pair{
		{"Hola", "Hello"},
		{`Él dijo "hola"`, `He said "hi"`},
		{"la mesa", "the table"},
	}
	if !reflect.DeepEqual(table.Pairs, want) {
		t.Errorf("pairs = %q, want %q", table.Pairs, want)
	}
	if stats.Malformed != 1 || stats.Noise != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}

	doc := EncodeCSV(table)
	rows, err := DecodeCSV(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := Check(rows); err != nil {
		t.Errorf("extracted document should pass Check: %v", err)
	}
}
