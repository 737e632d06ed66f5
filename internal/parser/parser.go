package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"study-assistant/internal/models"
)

// SupportedExtensions lists the file types ParseDocument understands.
var SupportedExtensions = []string{".pdf", ".docx", ".pptx", ".xlsx", ".xlsm", ".ods", ".txt", ".md"}

// Supported reports whether the extension of name can be parsed.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ParseDocument extracts the raw text of the file at filePath.
func ParseDocument(filePath string) (string, error) {
	var (
		text string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		text, err = parsePDF(filePath)
	case ".docx":
		text, err = parseDOCX(filePath)
	case ".pptx":
		text, err = parsePPTX(filePath)
	case ".xlsx":
		text, err = parseXLSX(filePath)
	case ".xlsm":
		text, err = parseSpreadsheet(filePath)
	case ".ods":
		text, err = parseODS(filePath)
	case ".txt", ".md":
		text, err = parseText(filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filepath.Base(filePath), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.ErrEmptyContent
	}
	log.Debug().Str("file", filepath.Base(filePath)).Int("chars", len(text)).Msg("Parsed document")
	return text, nil
}

// parsePDF concatenates the plain text of every page in order.
func parsePDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func parseDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var paragraphs []string
	for _, p := range strings.Split(extractTextFromXML(content, "<w:t", "</w:t>"), "\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// parsePPTX reads slides in slide order, one line per slide.
func parsePPTX(filePath string) (string, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var slides []*zip.File
	for _, file := range f.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slideNumber(slides[i].Name) < slideNumber(slides[j].Name) })

	var text strings.Builder
	for _, file := range slides {
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if slideText := strings.TrimSpace(extractTextFromXML(string(data), "<a:t", "</a:t>")); slideText != "" {
			text.WriteString(slideText + "\n")
		}
	}
	return text.String(), nil
}

func slideNumber(name string) int {
	var n int
	fmt.Sscanf(strings.TrimPrefix(name, "ppt/slides/slide"), "%d", &n)
	return n
}

func parseXLSX(filePath string) (string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			text.WriteString(strings.Join(cells, "\t") + "\n")
		}
	}
	return text.String(), nil
}

func parseSpreadsheet(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t") + "\n")
		}
	}
	return text.String(), nil
}

var (
	odsTableRe = regexp.MustCompile(`<table:table [^>]*table:name="([^"]*)"`)
	xmlTagRe   = regexp.MustCompile(`<[^>]*>`)
)

// parseODS reads an OpenDocument spreadsheet, which excelize cannot open, straight from its
// content.xml: one line per row, cells separated by tabs.
func parseODS(filePath string) (string, error) {
	content, err := readZipEntry(filePath, "content.xml")
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, table := range strings.Split(content, "</table:table>") {
		m := odsTableRe.FindStringSubmatch(table)
		if m == nil {
			continue
		}
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", unescapeXML(m[1])))
		for _, row := range strings.Split(table, "</table:table-row>") {
			var cells []string
			for _, cell := range strings.Split(row, "</table:table-cell>") {
				if i := strings.LastIndex(cell, "<table:table-cell"); i >= 0 {
					cells = append(cells, odsCellText(cell[i:]))
				}
			}
			for len(cells) > 0 && cells[len(cells)-1] == "" {
				cells = cells[:len(cells)-1]
			}
			if len(cells) > 0 {
				text.WriteString(strings.Join(cells, "\t") + "\n")
			}
		}
	}
	return text.String(), nil
}

func odsCellText(cell string) string {
	cell = strings.ReplaceAll(cell, "</text:p>", " ")
	cell = strings.ReplaceAll(cell, "<text:s/>", " ")
	return strings.TrimSpace(unescapeXML(xmlTagRe.ReplaceAllString(cell, "")))
}

func readZipEntry(filePath, name string) (string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("%s not found", name)
}

func parseText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractTextFromXML collects the text runs between open and closeTag. Paragraph ends in
// word documents become newlines.
func extractTextFromXML(xmlContent, open, closeTag string) string {
	var text strings.Builder
	for _, para := range strings.Split(xmlContent, "</w:p>") {
		parts := strings.Split(para, open)
		for i, part := range parts {
			// "<w:t" also prefixes <w:tbl>, <w:tab/> and friends
			if i == 0 || part == "" || (part[0] != '>' && part[0] != ' ') {
				continue
			}
			start := strings.Index(part, ">")
			end := strings.Index(part, closeTag)
			if start < 0 || end < 0 || start > end {
				continue
			}
			text.WriteString(unescapeXML(part[start+1:end]) + " ")
		}
		text.WriteString("\n")
	}
	return text.String()
}

var xmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")

func unescapeXML(s string) string {
	return xmlUnescaper.Replace(s)
}
