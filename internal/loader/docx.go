package loader

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

func readDOCX(path string) (string, int, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		// Password protected documents are OLE containers, not zip archives.
		return "", 0, eris.Wrapf(ErrCorruptedFile, "%v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, "word/document.xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", 0, eris.Wrapf(ErrCorruptedFile, "%v", err)
		}
		defer rc.Close()
		text, err := docxParagraphs(rc)
		if err != nil {
			return "", 0, eris.Wrapf(ErrCorruptedFile, "%v", err)
		}
		return text, 0, nil
	}
	return "", 0, eris.Wrap(ErrCorruptedFile, "missing word/document.xml")
}

// docxParagraphs joins non-empty paragraphs with blank lines so the chunker
// sees paragraph boundaries.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var paras []string
	var cur strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return "", err
				}
				cur.WriteString(s)
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				if p := strings.TrimSpace(cur.String()); p != "" {
					paras = append(paras, p)
				}
				cur.Reset()
			}
		}
	}
	return strings.Join(paras, "\n\n"), nil
}
