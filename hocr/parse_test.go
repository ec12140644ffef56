package hocr

import (
	"strings"
	"testing"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN">
<html xmlns="http://www.w3.org/1999/xhtml">
 <head>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0'/>
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "cert.png"; bbox 0 0 2480 3508; ppageno 0; scan_res 300 300'>
   <div class='ocr_carea' id='block_1_1'>
    <p class='ocr_par' id='par_1_1'>
     <span class='ocr_line' id='line_1_1' title='bbox 100 200 400 240'>
      <span class='ocrx_word' id='word_1_1' title='bbox 100 200 140 240; x_wconf 96'>C</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 300 200 400 240; x_wconf 91'>0.05</span>
     </span>
     <span class='ocr_line' id='line_1_2' title='bbox 100 300 400 340'>
      <span class='ocrx_word' id='word_1_3' title='bbox 100 300 160 340; x_wconf 88'>Mn</span>
      <span class='ocrx_word' id='word_1_4' title='bbox 300 300 400 340; x_wconf 93'>1.12</span>
      <span class='ocrx_word' id='word_1_5' title='bbox 420 300 440 340; x_wconf 40'> </span>
      <span class='ocrx_word' id='word_1_6' title='x_wconf 40'>orphan</span>
     </span>
    </p>
   </div>
  </div>
  <div class='ocr_page' id='page_2' title='bbox 0 0 2480 3508; ppageno 1'>
   <span class='ocrx_word' id='word_2_1' title='bbox 50 60 90 100; x_wconf 80'>Fe</span>
  </div>
 </body>
</html>`

func TestParse(t *testing.T) {
	pages, err := Parse([]byte(sampleHOCR))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("Parse() returned %d pages, want 2", len(pages))
	}

	first := pages[0]
	if first.DPI != 300 {
		t.Errorf("page 0 DPI = %d, want 300", first.DPI)
	}
	if first.BBox.Width != 2480 || first.BBox.Height != 3508 {
		t.Errorf("page 0 bbox = %+v, want 2480x3508", first.BBox)
	}

	// The whitespace-only word and the word without a bbox are discarded.
	if len(first.Tokens) != 4 {
		t.Fatalf("page 0 has %d tokens, want 4: %+v", len(first.Tokens), first.Tokens)
	}

	c := first.Tokens[0]
	if c.Text != "C" {
		t.Errorf("token 0 text = %q, want C", c.Text)
	}
	if c.BBox.X != 100 || c.BBox.Y != 200 || c.BBox.Width != 40 || c.BBox.Height != 40 {
		t.Errorf("token 0 bbox = %+v, want {100 200 40 40}", c.BBox)
	}
	if c.Confidence != 96 {
		t.Errorf("token 0 confidence = %g, want 96", c.Confidence)
	}
	if c.Page != 0 {
		t.Errorf("token 0 page = %d, want 0", c.Page)
	}

	second := pages[1]
	if second.DPI != 0 {
		t.Errorf("page 1 DPI = %d, want 0 (no scan_res)", second.DPI)
	}
	if len(second.Tokens) != 1 || second.Tokens[0].Text != "Fe" {
		t.Fatalf("page 1 tokens = %+v, want one Fe token", second.Tokens)
	}
	if second.Tokens[0].Page != 1 {
		t.Errorf("page 1 token page index = %d, want 1", second.Tokens[0].Page)
	}
}

func TestParse_NoPages(t *testing.T) {
	if _, err := Parse([]byte("<html><body><p>plain</p></body></html>")); err == nil {
		t.Error("Parse should fail on a document without ocr_page elements")
	}
}

func TestParse_Latin1Charset(t *testing.T) {
	doc := `<html><head><meta http-equiv="Content-Type" content="text/html;charset=iso-8859-1"/></head>
<body><div class='ocr_page' title='bbox 0 0 100 100'>
<span class='ocrx_word' title='bbox 0 0 50 20; x_wconf 90'>Cr</span>
</div></body></html>`

	pages, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pages) != 1 || len(pages[0].Tokens) != 1 {
		t.Fatalf("pages = %+v, want one page with one token", pages)
	}
	if pages[0].Tokens[0].Text != "Cr" {
		t.Errorf("token text = %q, want Cr", pages[0].Tokens[0].Text)
	}
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle("bbox 100 200 300 400; x_wconf 95; baseline 0.01 -4")

	if got := props["bbox"]; len(got) != 4 || got[0] != "100" || got[3] != "400" {
		t.Errorf("bbox = %v, want [100 200 300 400]", got)
	}
	if got := props["x_wconf"]; len(got) != 1 || got[0] != "95" {
		t.Errorf("x_wconf = %v, want [95]", got)
	}
	if got := props["baseline"]; len(got) != 2 {
		t.Errorf("baseline = %v, want two fields", got)
	}
}

func TestParse_MalformedBBoxDiscarded(t *testing.T) {
	doc := `<html><body><div class='ocr_page' title='bbox 0 0 100 100'>
<span class='ocrx_word' title='bbox 10 20 abc 40; x_wconf 90'>bad</span>
<span class='ocrx_word' title='bbox 10 20 60 40; x_wconf 90'>good</span>
</div></body></html>`

	pages, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pages[0].Tokens) != 1 || pages[0].Tokens[0].Text != "good" {
		t.Errorf("tokens = %+v, want only the well-formed word", pages[0].Tokens)
	}
}

func TestParse_NestedMarkupInWord(t *testing.T) {
	doc := `<html><body><div class='ocr_page' title='bbox 0 0 100 100'>
<span class='ocrx_word' title='bbox 10 20 60 40; x_wconf 90'><strong>Ni</strong></span>
</div></body></html>`

	pages, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if pages[0].Tokens[0].Text != "Ni" {
		t.Errorf("token text = %q, want Ni (markup stripped)", pages[0].Tokens[0].Text)
	}
}

func TestParse_PageIndexAssignment(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 3; i++ {
		sb.WriteString(`<div class='ocr_page' title='bbox 0 0 100 100'>`)
		sb.WriteString(`<span class='ocrx_word' title='bbox 0 0 50 20; x_wconf 90'>Ti</span></div>`)
	}
	sb.WriteString("</body></html>")

	pages, err := Parse([]byte(sb.String()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		if len(p.Tokens) != 1 || p.Tokens[0].Page != i {
			t.Errorf("page %d token = %+v, want page index %d", i, p.Tokens, i)
		}
	}
}
