package filesystem

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/revelaction/semgraph/storage"
)

const ext = ".csv"

// RelationStore keeps one semicolon separated table per relation type in a
// directory. Every increment rewrites the whole table.
type RelationStore struct {
	root string
}

var _ storage.RelationStore = (*RelationStore)(nil)

func NewRelationStore(root string) *RelationStore {
	return &RelationStore{root: root}
}

func (s *RelationStore) Init(types []string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", s.root)
	}

	for _, t := range types {
		_, err := os.Stat(s.path(t))
		if err == nil {
			continue
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "stat table %s", t)
		}
		if err := s.write(t, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *RelationStore) Increment(relation, source, target string) error {
	if source == target {
		return nil
	}

	rows, err := s.Scan(relation)
	if err != nil {
		return err
	}

	found := false
	for i := range rows {
		if rows[i].Source == source && rows[i].Target == target {
			rows[i].Recurrence++
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, storage.Relation{Source: source, Target: target, Recurrence: 1})
	}

	return s.write(relation, rows)
}

func (s *RelationStore) Scan(relation string) ([]storage.Relation, error) {
	f, err := os.Open(s.path(relation))
	if err != nil {
		if os.IsNotExist(err) {
			return []storage.Relation{}, nil
		}
		return nil, errors.Wrapf(err, "open table %s", relation)
	}
	defer f.Close()

	rows, err := readTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read table %s", relation)
	}
	return rows, nil
}

func (s *RelationStore) Types() ([]string, error) {
	files, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	types := []string{}
	for _, file := range files {
		if filepath.Ext(file.Name()) != ext {
			continue
		}
		types = append(types, strings.TrimSuffix(file.Name(), ext))
	}
	sort.Strings(types)
	return types, nil
}

func (s *RelationStore) path(relation string) string {
	return filepath.Join(s.root, relation+ext)
}

// write replaces the table of relation through a temporary file.
func (s *RelationStore) write(relation string, rows []storage.Relation) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", s.root)
	}

	tmp, err := os.CreateTemp(s.root, relation+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write table %s", relation)
	}

	if err := writeTable(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write table %s", relation)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write table %s", relation)
	}

	return os.Rename(tmp.Name(), s.path(relation))
}

func readTable(r io.Reader) ([]storage.Relation, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	rows := []storage.Relation{}
	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 3 {
			continue
		}

		n, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, errors.Wrapf(err, "recurrence of %s;%s", rec[0], rec[1])
		}
		rows = append(rows, storage.Relation{Source: rec[0], Target: rec[1], Recurrence: n})
	}
	return rows, nil
}

func writeTable(w io.Writer, rows []storage.Relation) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(storage.Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Source, r.Target, strconv.Itoa(r.Recurrence)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
