package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// extractDOCX returns the text of each top-level body paragraph, one per line.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	for _, f := range archive.File {
		if f.Name != docxBodyPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
		}
		defer rc.Close()
		return bodyParagraphs(rc)
	}
	return "", errors.New("docx container has no " + docxBodyPart)
}

func bodyParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBodyPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, el.Name.Local)
			switch {
			case el.Name.Local == "p" && parent == "body" && !inPara:
				inPara = true
				paraDepth = len(stack)
				current.Reset()
			case inPara && el.Name.Local == "tab":
				current.WriteByte('\t')
			case inPara && (el.Name.Local == "br" || el.Name.Local == "cr"):
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if inPara && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if inPara && len(stack) > 0 && stack[len(stack)-1] == "t" {
				current.Write(el)
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
