package wire

import "strings"

// Decoder reassembles newline-delimited frames from arbitrarily chunked
// network reads. A line split across two chunks comes out whole once the
// second chunk arrives.
type Decoder struct {
	buf string
}

// Feed appends a chunk and returns every complete, non-blank line it closed.
// The trailing partial line (possibly empty) stays buffered for the next call.
func (d *Decoder) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}

	d.buf += string(chunk)
	parts := strings.Split(d.buf, "\n")
	d.buf = parts[len(parts)-1]

	var lines []string
	for _, ln := range parts[:len(parts)-1] {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}

// Flush drops whatever is still buffered and reports whether a non-blank
// fragment was discarded. Called at stream end: an unterminated tail can
// never be a valid frame.
func (d *Decoder) Flush() (string, bool) {
	tail := d.buf
	d.buf = ""
	if strings.TrimSpace(tail) == "" {
		return "", false
	}
	return tail, true
}
