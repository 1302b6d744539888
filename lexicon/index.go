package lexicon

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Index maps a lowercased surface form to the byte offsets of the first
// line of every contiguous group of corpus lines having that surface form
// as first field.
type Index map[string][]int64

// BuildIndex scans a ';' delimited corpus. progress, if not nil, is called
// after each line with the number of bytes read so far.
func BuildIndex(r io.Reader, progress func(read int64)) (Index, error) {
	ix := Index{}
	br := bufio.NewReaderSize(r, 64*1024)

	var offset int64
	prev := ""
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			key := strings.ToLower(firstField(line))
			if key != "" && key != prev {
				ix[key] = append(ix[key], offset)
			}
			prev = key
			offset += int64(len(line))
			if progress != nil {
				progress(offset)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading corpus")
		}
	}

	return ix, nil
}

// BuildIndexFile builds the index of the corpus at path.
func BuildIndexFile(path string, progress func(read int64)) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening corpus %s", path)
	}
	defer f.Close()

	return BuildIndex(f, progress)
}

// LoadIndex reads an index written by Save.
func LoadIndex(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index %s", path)
	}
	defer f.Close()

	ix := Index{}
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&ix); err != nil {
		return nil, errors.Wrapf(err, "decoding index %s", path)
	}

	return ix, nil
}

// Save writes the index to path, replacing any previous file.
func (ix Index) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "creating index %s", path)
	}

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(ix); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding index %s", path)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing index %s", path)
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func firstField(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}
