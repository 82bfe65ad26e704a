// Package document turns stored files into plain text. Content problems
// never fail extraction: they yield a placeholder string instead.
package document

import (
	"fmt"
	"strings"
)

const (
	placeholderNoPDFText = "No text could be extracted from PDF"
	placeholderPDFError  = "Error extracting PDF text: %v"
	placeholderTextError = "Error reading text file: %v"
	placeholderDOCXError = "Error reading DOCX file: %v"
	placeholderXLSXError = "Error reading XLSX file: %v"
	placeholderFormat    = "Unsupported file format: .%s"
)

// Extract returns the text of data interpreted by extension (any case,
// optional dot). The text is always usable; a non-nil error means it is a
// placeholder and says why.
func Extract(ext string, data []byte) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	switch ext {
	case "pdf":
		text, err := extractPDF(data)
		if err != nil {
			return fmt.Sprintf(placeholderPDFError, err), err
		}
		if text == "" {
			return placeholderNoPDFText, errNoPDFText
		}
		return text, nil
	case "txt", "md", "rtf":
		text, err := decodeText(data)
		if err != nil {
			return fmt.Sprintf(placeholderTextError, err), err
		}
		return text, nil
	case "docx", "doc":
		text, err := extractDOCX(data)
		if err != nil {
			return fmt.Sprintf(placeholderDOCXError, err), err
		}
		return text, nil
	case "xlsx", "xls":
		text, err := extractXLSX(data)
		if err != nil {
			return fmt.Sprintf(placeholderXLSXError, err), err
		}
		return text, nil
	default:
		return fmt.Sprintf(placeholderFormat, ext), fmt.Errorf("unsupported file format %q", ext)
	}
}
