package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/heysubinoy/kv/pkg/kv"
)

// decodeEntries parses newline-separated key:value lines. Each line is split
// on its first ':' so values may contain colons. Blank lines are skipped.
// Lines have no length limit, so anything encodeEntries writes reads back.
func decodeEntries(r io.Reader) ([]kv.Entry, error) {
	br := bufio.NewReader(r)

	var entries []kv.Entry
	for lineNo := 1; ; lineNo++ {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if line != "" {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: missing ':' separator", lineNo)
			}
			if key == "" {
				return nil, fmt.Errorf("line %d: empty key", lineNo)
			}
			entries = append(entries, kv.Entry{Key: key, Value: value})
		}

		if err == io.EOF {
			return entries, nil
		}
	}
}

// encodeEntries writes one key:value line per entry.
func encodeEntries(w io.Writer, entries []kv.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if err := validate("save", e.Key, e.Value); err != nil {
			return err
		}
		if _, err := bw.WriteString(e.Key + ":" + e.Value + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
