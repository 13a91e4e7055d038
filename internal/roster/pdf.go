package roster

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// ErrEmptyDocument is returned for PDFs without extractable text.
var ErrEmptyDocument = errors.New("roster: document has no text")

// ExtractLines returns the text of a PDF one visual row per line, pages in
// order. Documents whose rows cannot be recovered fall back to the plain
// text stream split on newlines.
func ExtractLines(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "pdf reader")
	}

	lines, err := rowLines(r)
	if err != nil || len(lines) == 0 {
		lines, err = plainLines(r)
		if err != nil {
			return nil, err
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}
	return lines, nil
}

// ParsePDF is ExtractLines followed by Parse.
func ParsePDF(data []byte) (*Roster, error) {
	lines, err := ExtractLines(data)
	if err != nil {
		return nil, err
	}
	return Parse(lines), nil
}

func rowLines(r *pdf.Reader) ([]string, error) {
	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, errors.Wrapf(err, "pdf page %d", i)
		}
		for _, row := range rows {
			var b strings.Builder
			var prevEnd float64
			for k, t := range row.Content {
				// a horizontal gap wider than a quarter em separates words
				if k > 0 && t.X-prevEnd > t.FontSize/4 {
					b.WriteByte(' ')
				}
				b.WriteString(t.S)
				prevEnd = t.X + t.W
			}
			if line := collapse(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}

func plainLines(r *pdf.Reader) ([]string, error) {
	plain, err := r.GetPlainText()
	if err != nil {
		return nil, errors.Wrap(err, "pdf plaintext")
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return nil, errors.Wrap(err, "pdf read")
	}
	var lines []string
	for _, l := range strings.Split(string(b), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}
