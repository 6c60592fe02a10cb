package identity

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var lookupJSON = jsoniter.Config{SortMapKeys: true, IndentionStep: 2}.Froze()

// Lookup maps player names to undashed UUIDs.
type Lookup map[string]string

// LoadLookup reads a lookup file. A missing file is an empty lookup.
func LoadLookup(path string) (Lookup, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Lookup{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading lookup: %w", err)
	}

	lookup := Lookup{}
	if err := lookupJSON.Unmarshal(data, &lookup); err != nil {
		return nil, fmt.Errorf("loading lookup %s: %w", path, err)
	}
	return lookup, nil
}

func SaveLookup(path string, lookup Lookup) error {
	if lookup == nil {
		lookup = Lookup{}
	}
	data, err := lookupJSON.Marshal(lookup)
	if err != nil {
		return fmt.Errorf("encoding lookup: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteNameList writes the sorted player names, one per line.
func WriteNameList(path string, lookup Lookup) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, name := range lookup.Names() {
		fmt.Fprintln(w, name)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l Lookup) Clone() Lookup {
	c := make(Lookup, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

func (l Lookup) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UUIDs returns the distinct UUIDs in sorted order.
func (l Lookup) UUIDs() []string {
	seen := make(map[string]bool, len(l))
	ids := make([]string, 0, len(l))
	for _, id := range l {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
