package loader

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// readPDF returns the text layer of a PDF. Scanned or image-only files have
// none and are reported as empty; there is no OCR stage.
func readPDF(path string) (text string, pages int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	// The parser panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, eris.Wrapf(ErrCorruptedFile, "%v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", 0, ErrEncrypted
		}
		return "", 0, eris.Wrapf(ErrCorruptedFile, "%v", err)
	}
	pages = r.NumPage()
	plain, err := r.GetPlainText()
	if err != nil {
		return "", 0, eris.Wrapf(ErrEmptyDocument, "no text layer (%v), the file may be scanned", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", 0, eris.Wrapf(ErrCorruptedFile, "%v", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", 0, eris.Wrap(ErrEmptyDocument, "no text layer, the file may be scanned")
	}
	return normalize(out), pages, nil
}
