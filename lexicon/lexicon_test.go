package lexicon

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	sent "github.com/revelaction/semgraph/sentence"
)

const lemmaCorpus = `Chat;chat;50
chat;chatte;10
chats;chat;40
mange;manger;80
mange;Manger;90
mange;mangé;0
mange;broken
souris;souris;30
`

const posCorpus = `chat;x;Nom:Mas+SG;100
chat;x;Nom:Mas+SG;20
chat;x;Ver:IPre+SG+P3;5
mange;x;Ver:IPre+SG+P3;70
mange;x;Ver:SPre+SG+P1;30
mange;x;Nom;-3
`

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestLexicon(t *testing.T) *Lexicon {
	t.Helper()

	li, err := BuildIndex(strings.NewReader(lemmaCorpus), nil)
	if err != nil {
		t.Fatalf("lemma index: %v", err)
	}
	pi, err := BuildIndex(strings.NewReader(posCorpus), nil)
	if err != nil {
		t.Fatalf("pos index: %v", err)
	}

	l := New(li, strings.NewReader(lemmaCorpus), pi, strings.NewReader(posCorpus))
	l.Log = quietLog()
	return l
}

func TestBuildIndexGroups(t *testing.T) {
	corpus := "a;1\nA;2\nb;3\na;4\n"
	ix, err := BuildIndex(strings.NewReader(corpus), nil)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	want := Index{"a": {0, 12}, "b": {8}}
	if !reflect.DeepEqual(ix, want) {
		t.Errorf("got %v, want %v", ix, want)
	}
}

func TestBuildIndexProgress(t *testing.T) {
	var last int64
	_, err := BuildIndex(strings.NewReader(lemmaCorpus), func(read int64) { last = read })
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if last != int64(len(lemmaCorpus)) {
		t.Errorf("progress ended at %d, want %d", last, len(lemmaCorpus))
	}
}

func TestLemmas(t *testing.T) {
	l := newTestLexicon(t)

	tests := []struct {
		word string
		want []sent.LemmaCandidate
	}{
		{"Chat", []sent.LemmaCandidate{{Lemma: "chat", Score: 50}, {Lemma: "chatte", Score: 10}}},
		{"-chat-", []sent.LemmaCandidate{{Lemma: "chat", Score: 50}, {Lemma: "chatte", Score: 10}}},
		{"mange", []sent.LemmaCandidate{{Lemma: "manger", Score: 90}}},
		{"chats", []sent.LemmaCandidate{{Lemma: "chat", Score: 40}}},
		{"Inconnu", []sent.LemmaCandidate{{Lemma: "inconnu", Score: 0}}},
	}

	for _, tt := range tests {
		got := l.Lemmas(tt.word)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Lemmas(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestLemmasFilteredRowsFallBack(t *testing.T) {
	corpus := "Vide;vider;0\nvide;broken\nvide;vider;x\nplein;plein;7\n"
	li, err := BuildIndex(strings.NewReader(corpus), nil)
	if err != nil {
		t.Fatalf("lemma index: %v", err)
	}
	pi, err := BuildIndex(strings.NewReader(posCorpus), nil)
	if err != nil {
		t.Fatalf("pos index: %v", err)
	}
	l := New(li, strings.NewReader(corpus), pi, strings.NewReader(posCorpus))
	l.Log = quietLog()

	got := l.Lemmas("Vide")
	want := []sent.LemmaCandidate{{Lemma: "vide", Score: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmas(Vide) = %v, want %v", got, want)
	}

	got = l.Lemmas("plein")
	want = []sent.LemmaCandidate{{Lemma: "plein", Score: 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmas(plein) = %v, want %v", got, want)
	}
}

func TestTags(t *testing.T) {
	l := newTestLexicon(t)

	got := l.Tags("chat")
	want := []sent.TagCandidate{{Tag: "Nom:Mas+SG", Score: 100}, {Tag: "Ver:IPre+SG+P3", Score: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags(chat) = %v, want %v", got, want)
	}

	got = l.Tags("mange")
	want = []sent.TagCandidate{{Tag: "Ver:IPre+SG+P3", Score: 70}, {Tag: "Ver:SPre+SG+P1", Score: 30}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags(mange) = %v, want %v", got, want)
	}

	if got := l.Tags("inconnu"); len(got) != 0 {
		t.Errorf("Tags(inconnu) = %v, want empty", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	l := newTestLexicon(t)

	tokens := []sent.Token{{Text: "Le"}, {Text: "chat"}, {Text: "mange"}}
	l.ExtractLemmas(tokens)
	l.ExtractPos(tokens)
	first := append([]sent.Token(nil), tokens...)

	l.ExtractLemmas(tokens)
	l.ExtractPos(tokens)
	if !reflect.DeepEqual(first, tokens) {
		t.Errorf("second extraction changed candidates:\n%v\n%v", first, tokens)
	}
}

func TestOpenMissingFilesIsSoft(t *testing.T) {
	dir := t.TempDir()
	l := Open(Files{
		LemmaCorpus: filepath.Join(dir, "missing-lemmas.txt"),
		PosCorpus:   filepath.Join(dir, "missing-pos.txt"),
	}, quietLog())
	defer l.Close()

	got := l.Lemmas("Chat")
	want := []sent.LemmaCandidate{{Lemma: "chat", Score: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmas = %v, want %v", got, want)
	}
	if tags := l.Tags("chat"); len(tags) != 0 {
		t.Errorf("Tags = %v, want empty", tags)
	}
}

func TestOpenWithSavedIndex(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "lemmas.txt")
	if err := os.WriteFile(corpus, []byte(lemmaCorpus), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := BuildIndexFile(corpus, nil)
	if err != nil {
		t.Fatalf("BuildIndexFile: %v", err)
	}
	indexPath := filepath.Join(dir, "lemmas.idx")
	if err := ix.Save(indexPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadIndex(indexPath)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if !reflect.DeepEqual(ix, loaded) {
		t.Fatalf("loaded index differs: %v != %v", loaded, ix)
	}

	l := Open(Files{LemmaCorpus: corpus, LemmaIndex: indexPath}, quietLog())
	defer l.Close()

	got := l.Lemmas("souris")
	want := []sent.LemmaCandidate{{Lemma: "souris", Score: 30}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmas(souris) = %v, want %v", got, want)
	}
}

func TestOpenCorruptIndexRebuilds(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "pos.txt")
	if err := os.WriteFile(corpus, []byte(posCorpus), 0o644); err != nil {
		t.Fatal(err)
	}
	indexPath := filepath.Join(dir, "pos.idx")
	if err := os.WriteFile(indexPath, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Open(Files{PosCorpus: corpus, PosIndex: indexPath}, quietLog())
	defer l.Close()

	if got := l.Tags("chat"); len(got) != 2 {
		t.Errorf("Tags(chat) = %v, want 2 candidates", got)
	}
}
