package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// ExtractDocxText returns the text of a .docx file with one paragraph per
// line. Paragraphs inside tables are included.
func ExtractDocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx is not a valid zip container: %w", err)
	}

	var body io.ReadCloser
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, docxBodyPart) {
			body, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
			}
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("docx has no %s", docxBodyPart)
	}
	defer body.Close()

	return readDocxParagraphs(body)
}

func readDocxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var out strings.Builder
	var para strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if line := strings.TrimSpace(para.String()); line != "" {
					out.WriteString(line)
					out.WriteString("\n")
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}
