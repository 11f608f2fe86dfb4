package document

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseXref reads the cross-reference table located by the trailing
// startxref keyword and returns the offset of every in-use object.
func ParseXref(data []byte) (map[int]int, error) {
	idx := bytes.LastIndex(data, []byte("startxref"))
	if idx < 0 {
		return nil, errors.New("startxref not found")
	}
	tail := strings.Fields(string(data[idx+len("startxref"):]))
	if len(tail) == 0 {
		return nil, errors.New("startxref offset missing")
	}
	start, err := strconv.Atoi(tail[0])
	if err != nil || start < 0 || start >= len(data) {
		return nil, fmt.Errorf("invalid startxref offset %q", tail[0])
	}

	lines := strings.Split(string(data[start:]), "\n")
	if len(lines) < 2 || lines[0] != "xref" {
		return nil, fmt.Errorf("no xref table at offset %d", start)
	}
	var first, count int
	if _, err := fmt.Sscanf(lines[1], "%d %d", &first, &count); err != nil {
		return nil, fmt.Errorf("invalid xref subsection %q: %w", lines[1], err)
	}
	if len(lines) < 2+count {
		return nil, fmt.Errorf("xref declares %d entries, found %d", count, len(lines)-2)
	}

	offsets := make(map[int]int, count)
	for i, entry := range lines[2 : 2+count] {
		if len(entry) != 19 {
			return nil, fmt.Errorf("xref entry %d has length %d, want 19", first+i, len(entry))
		}
		fields := strings.Fields(entry)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed xref entry %q", entry)
		}
		if fields[2] != "n" {
			continue
		}
		off, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed xref offset %q: %w", fields[0], err)
		}
		offsets[first+i] = off
	}
	return offsets, nil
}

// VerifyPDF checks that every xref offset points at the start of the
// object it names.
func VerifyPDF(data []byte) error {
	offsets, err := ParseXref(data)
	if err != nil {
		return err
	}
	for num, off := range offsets {
		if off >= len(data) {
			return fmt.Errorf("object %d offset %d beyond end of file", num, off)
		}
		want := fmt.Sprintf("%d 0 obj", num)
		if !bytes.HasPrefix(data[off:], []byte(want)) {
			return fmt.Errorf("object %d: offset %d does not start with %q", num, off, want)
		}
	}
	return nil
}
