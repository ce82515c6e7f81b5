// Package extract converts uploaded files into plain text for use as
// document context.
package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/model"
)

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".json":     true,
	".log":      true,
	".rst":      true,
	".yaml":     true,
	".yml":      true,
	".xml":      true,
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// Supported reports whether filename has an extension Extract can read.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".pdf" || ext == ".html" || ext == ".htm" || textExtensions[ext]
}

// Extract returns the plain text of content, dispatching on the file
// extension of filename.
func Extract(filename string, content []byte) (*model.ExtractedDocument, error) {
	var text string
	var err error

	switch ext := strings.ToLower(filepath.Ext(filename)); {
	case ext == ".pdf":
		text, err = extractPDF(content)
	case ext == ".html" || ext == ".htm":
		text, err = extractHTML(content)
	case textExtensions[ext]:
		text, err = extractText(content)
	default:
		return nil, fmt.Errorf("%w: %q", app_errors.ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}

	text = normalize(text)
	return &model.ExtractedDocument{
		Filename:   filepath.Base(filename),
		Content:    text,
		Characters: utf8.RuneCountInString(text),
	}, nil
}

func extractText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", app_errors.ErrUnsupported)
	}
	return string(content), nil
}

func extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: could not parse html: %v", app_errors.ErrValidation, err)
	}
	doc.Find("script, style, noscript, template").Remove()

	var sb strings.Builder
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, td, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Nested matches are emitted by their outermost matching ancestor.
		if s.ParentsFiltered("p, li, pre, td, blockquote").Length() > 0 {
			return
		}
		if line := strings.TrimSpace(s.Text()); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n\n")
		}
	})
	if sb.Len() == 0 {
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return sb.String(), nil
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read pdf: %v", app_errors.ErrValidation, err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(make(map[string]*pdf.Font))
		if err != nil {
			slog.Warn("Failed to extract text from pdf page", "page", i, "error", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: no text could be extracted from the pdf", app_errors.ErrValidation)
	}
	return sb.String(), nil
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
