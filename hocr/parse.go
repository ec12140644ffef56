package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/matcert/model"
)

// Page is one hOCR page: its word tokens, the page bounding box, and the
// scan resolution when the document reports one.
type Page struct {
	Tokens []model.Token
	BBox   model.BBox
	DPI    int // from scan_res, 0 when absent
}

// Parse decodes an hOCR document into its pages. Empty words and words
// with malformed bounding boxes are discarded; a document with no ocr_page
// elements is an error.
func Parse(data []byte) ([]Page, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("hocr: parse failed: %w", err)
	}

	var pages []Page
	var findPages func(n *html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			pages = append(pages, parsePage(n, len(pages)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(pages) == 0 {
		return nil, fmt.Errorf("hocr: no ocr_page elements found")
	}
	return pages, nil
}

// parsePage extracts the page box, resolution, and word tokens from one
// ocr_page element.
func parsePage(n *html.Node, index int) Page {
	page := Page{}

	props := ParseTitle(attr(n, "title"))
	if bbox, ok := parseBBox(props); ok {
		page.BBox = bbox
	}
	if res, ok := props["scan_res"]; ok && len(res) > 0 {
		if dpi, err := strconv.Atoi(res[0]); err == nil {
			page.DPI = dpi
		}
	}

	var findWords func(n *html.Node)
	findWords = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if tok, ok := parseWord(n, index); ok {
				page.Tokens = append(page.Tokens, tok)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findWords(c)
		}
	}
	findWords(n)

	return page
}

// parseWord builds a token from an ocrx_word element.
func parseWord(n *html.Node, page int) (model.Token, bool) {
	props := ParseTitle(attr(n, "title"))

	bbox, ok := parseBBox(props)
	if !ok {
		return model.Token{}, false
	}

	confidence := 0.0
	if wconf, ok := props["x_wconf"]; ok && len(wconf) > 0 {
		if c, err := strconv.ParseFloat(wconf[0], 64); err == nil {
			confidence = c
		}
	}

	tok, err := model.NewToken(nodeText(n), bbox, confidence, page)
	if err != nil {
		return model.Token{}, false
	}
	return tok, true
}

// ParseTitle breaks an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95".
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// parseBBox converts the hOCR corner-pair form (x1 y1 x2 y2) to a BBox.
func parseBBox(props map[string][]string) (model.BBox, bool) {
	coords, ok := props["bbox"]
	if !ok || len(coords) < 4 {
		return model.BBox{}, false
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(coords[i], 64)
		if err != nil {
			return model.BBox{}, false
		}
		vals[i] = v
	}

	return model.NewBBox(vals[0], vals[1], vals[2]-vals[0], vals[3]-vals[1]), true
}

// nodeText concatenates the text content beneath a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// hasClass reports whether an element's class attribute contains the name.
func hasClass(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == name {
					return true
				}
			}
		}
	}
	return false
}

// attr returns an element attribute value, empty when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// decodeCharset converts legacy Latin-1 hOCR output to UTF-8; engines
// predating Tesseract 4 emitted it.
func decodeCharset(data []byte) (string, error) {
	content := string(data)
	if i := strings.Index(content, "charset="); i >= 0 {
		fields := strings.FieldsFunc(strings.ToLower(content[i+len("charset="):]), func(r rune) bool {
			return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
		})
		if len(fields) > 0 && (fields[0] == "iso-8859-1" || fields[0] == "latin1") {
			decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
			if err != nil {
				return "", fmt.Errorf("hocr: charset decode failed: %w", err)
			}
			return string(decoded), nil
		}
	}
	return content, nil
}
