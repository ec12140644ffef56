// matcert is a command-line tool for extracting chemical composition tables
// from scanned material certificates.
//
// Input is a scanned PDF, a raster scan (PNG, JPEG, TIFF), or an hOCR file
// produced by a prior OCR pass. PDF pages are reduced to their embedded scan
// images before recognition. PDF and raster input require a binary built
// with the "ocr" build tag and Tesseract installed on the system; hOCR input
// works with any build. The extracted composition is written as CSV.
//
// Usage:
//
//	matcert -input certificate.hocr [options]
//
// Required flags:
//
//	-input string    Path to a scanned certificate (PDF, PNG, JPEG, TIFF) or hOCR file
//
// Output options:
//
//	-output string   Output CSV path (default stdout)
//	-report string   Also write a plain-text run report to this path
//
// Processing options:
//
//	-config string   YAML config file overriding processing defaults
//	-dpi int         Assumed scan resolution when the input does not report one
//	-lang string     OCR language(s), e.g. "eng" or "eng+deu" (default "eng")
//	-sort-priority   Report common certificate elements (Al, V, Fe, ...) first
//	-log string      Log level: debug, info, error (default "info")
//
// The -lang and -log defaults can also be set through the MATCERT_LANG and
// MATCERT_LOG environment variables, or a .env file in the working
// directory.
//
// Examples:
//
// Extract from an hOCR file to stdout:
//
//	matcert -input certificate.hocr
//
// Extract from a scanned PDF with a run report:
//
//	matcert -input certificate.pdf -output composition.csv -report run.txt
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	_ "image/jpeg"

	_ "golang.org/x/image/tiff"

	"github.com/tsawler/matcert"
	"github.com/tsawler/matcert/export"
	"github.com/tsawler/matcert/format"
	"github.com/tsawler/matcert/hocr"
	"github.com/tsawler/matcert/internal/logging"
	"github.com/tsawler/matcert/ocr"
	"github.com/tsawler/matcert/pdf"
	"github.com/tsawler/matcert/preprocess"
)

// yamlConfig mirrors the processing options a config file may override.
// Pointer fields distinguish "absent" from zero values.
type yamlConfig struct {
	MinTokenConfidence *float64 `yaml:"min_token_confidence"`
	DPI                *int     `yaml:"dpi"`
	SortByPriority     *bool    `yaml:"sort_by_priority"`
	MinValue           *float64 `yaml:"min_value"`
	MaxValue           *float64 `yaml:"max_value"`
	DefaultUnit        string   `yaml:"default_unit"`
}

// loadConfig reads a YAML file and applies its settings over the defaults.
func loadConfig(path string, opts *matcert.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if yc.MinTokenConfidence != nil {
		opts.MinTokenConfidence = *yc.MinTokenConfidence
	}
	if yc.DPI != nil {
		opts.DPI = *yc.DPI
	}
	if yc.SortByPriority != nil {
		opts.SortByPriority = *yc.SortByPriority
	}
	if yc.MinValue != nil {
		opts.Composition.MinValue = *yc.MinValue
	}
	if yc.MaxValue != nil {
		opts.Composition.MaxValue = *yc.MaxValue
	}
	if yc.DefaultUnit != "" {
		opts.Composition.DefaultUnit = yc.DefaultUnit
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	inputPath := flag.String("input", "", "Path to a scanned certificate (PDF, PNG, JPEG, TIFF) or hOCR file")
	outputPath := flag.String("output", "", "Output CSV path (default stdout)")
	reportPath := flag.String("report", "", "Also write a plain-text run report to this path")
	configPath := flag.String("config", "", "YAML config file overriding processing defaults")
	dpi := flag.Int("dpi", 0, "Assumed scan resolution when the input does not report one")
	lang := flag.String("lang", envOr("MATCERT_LANG", "eng"), "OCR language(s), e.g. \"eng\" or \"eng+deu\"")
	sortPriority := flag.Bool("sort-priority", false, "Report common certificate elements first")
	logLevel := flag.String("log", envOr("MATCERT_LOG", "info"), "Log level: debug, info, error")
	flag.Parse()

	logger := logging.NewLogger(*logLevel)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: must provide -input path")
		flag.Usage()
		os.Exit(1)
	}

	opts := matcert.DefaultOptions()
	if *configPath != "" {
		if err := loadConfig(*configPath, &opts); err != nil {
			logger.Fatal("loading config: ", err)
		}
	}
	if *dpi > 0 {
		opts.DPI = *dpi
	}
	if *sortPriority {
		opts.SortByPriority = true
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Fatal("reading input: ", err)
	}

	f := format.DetectFromMagic(data)
	if f == format.Unknown {
		f = format.Detect(*inputPath)
	}

	var pages []hocr.Page
	switch {
	case f == format.HOCR:
		logger.Debug("parsing %s as hOCR", *inputPath)
		pages, err = hocr.Parse(data)
		if err != nil {
			logger.Fatal("parsing hOCR: ", err)
		}
	case f == format.PDF:
		logger.Debug("extracting page images from %s", *inputPath)
		pages, err = recognizePDF(data, *lang, opts.DPI)
		if err != nil {
			logger.Fatal("PDF: ", err)
		}
	case f.IsImage():
		logger.Debug("recognizing %s as %v", *inputPath, f)
		pages, err = recognize(data, *lang, opts.DPI)
		if err != nil {
			logger.Fatal("OCR: ", err)
		}
	default:
		logger.Fatal(fmt.Sprintf("unsupported input format for %s", *inputPath))
	}

	proc, err := matcert.NewProcessor(opts)
	if err != nil {
		logger.Fatal(err)
	}
	result := proc.ProcessDocument(pages)

	logger.Info("extracted %d elements from %d composition tables (%d pages, %d pairs dropped)",
		len(result.Entries), result.Summary.TablesClassified,
		result.Summary.PagesProcessed, result.Summary.Dropped.Total())

	out := os.Stdout
	if *outputPath != "" {
		out, err = os.Create(*outputPath)
		if err != nil {
			logger.Fatal("creating output: ", err)
		}
		defer out.Close()
	}
	if err := export.WriteCSV(out, result.Entries); err != nil {
		logger.Fatal(err)
	}

	if *reportPath != "" {
		rf, err := os.Create(*reportPath)
		if err != nil {
			logger.Fatal("creating report: ", err)
		}
		defer rf.Close()
		if err := export.WriteReport(rf, result.Entries, result.Summary); err != nil {
			logger.Fatal(err)
		}
	}
}

// recognize cleans up a scanned page image and runs it through OCR. Without
// the "ocr" build tag this returns ocr.ErrOCRNotEnabled.
func recognize(data []byte, lang string, dpi int) ([]hocr.Page, error) {
	return ocrPages([][]byte{data}, lang, dpi)
}

// recognizePDF pulls the scanned page images out of a PDF and runs each
// through OCR. Images that cannot be rendered (small decorations in exotic
// color spaces, say) are skipped; a PDF with no usable page image at all is
// an error.
func recognizePDF(data []byte, lang string, dpi int) ([]hocr.Page, error) {
	doc, err := pdf.Open(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	images, err := doc.ExtractPageImages()
	if err != nil {
		return nil, fmt.Errorf("extracting page images: %w", err)
	}

	pageData := make([][]byte, 0, len(images))
	for _, img := range images {
		encoded, err := img.Encoded()
		if err != nil {
			continue
		}
		pageData = append(pageData, encoded)
	}
	if len(pageData) == 0 {
		return nil, fmt.Errorf("no usable page images found in PDF")
	}
	return ocrPages(pageData, lang, dpi)
}

// ocrPages preprocesses one encoded image per page and recognizes each in
// turn on a shared OCR client.
func ocrPages(images [][]byte, lang string, dpi int) ([]hocr.Page, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return nil, err
	}

	pages := make([]hocr.Page, 0, len(images))
	for i, data := range images {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding page %d image: %w", i, err)
		}

		cleaned := preprocess.Apply(img, preprocess.DefaultOptions())
		var buf bytes.Buffer
		if err := png.Encode(&buf, cleaned); err != nil {
			return nil, fmt.Errorf("encoding cleaned page %d image: %w", i, err)
		}

		tokens, err := client.RecognizePage(buf.Bytes(), i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, hocr.Page{Tokens: tokens, DPI: dpi})
	}
	return pages, nil
}
