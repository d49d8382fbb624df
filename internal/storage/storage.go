// Package storage loads program sources for the driver.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin is the source name that reads standard input.
const Stdin = "-"

// Source is one program text and the name it was loaded from.
type Source struct {
	Name string
	Text string
}

// Load reads the whole file name, or standard input for Stdin.
func Load(name string) (Source, error) {
	if name == Stdin {
		return Read(name, os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return Source{}, err
	}
	defer f.Close()
	return Read(name, f)
}

// Read reads r to the end as the source called name.
func Read(name string, r io.Reader) (Source, error) {
	var b strings.Builder
	if _, err := io.Copy(&b, bufio.NewReader(r)); err != nil {
		return Source{}, fmt.Errorf("error reading %s: %w", name, err)
	}
	return Source{Name: name, Text: b.String()}, nil
}
