package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/matcert/internal/filters"
)

// ErrNotPDF is returned by Open when the data lacks a %PDF header.
var ErrNotPDF = errors.New("not a PDF file")

// Object is any value parsed from a PDF body.
type Object interface{}

// The direct object types.
type (
	Name   string
	Int    int64
	Real   float64
	Bool   bool
	Null   struct{}
	String []byte
	Array  []Object
	Dict   map[Name]Object
)

// Ref is an indirect object reference.
type Ref struct {
	Num int
	Gen int
}

// Get returns the dictionary entry for key, or nil when absent.
func (d Dict) Get(key string) Object {
	return d[Name(key)]
}

// Stream is a stream object: its dictionary plus the raw, still encoded,
// payload bytes.
type Stream struct {
	Dict Dict
	Raw  []byte
}

// Document holds the indirect objects of a parsed PDF.
type Document struct {
	objects map[int]Object
}

// Open parses the indirect objects in data. It scans the body for
// "N G obj" headers instead of following the cross-reference table, which
// also recovers objects from files with damaged or truncated trailers.
func Open(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	doc := &Document{objects: make(map[int]Object)}
	lx := &lexer{data: data}
	for {
		num, ok := lx.nextObjectHeader()
		if !ok {
			break
		}
		obj, err := lx.parseObject()
		if err != nil {
			continue // resync on the next object header
		}
		if dict, ok := obj.(Dict); ok && lx.atKeyword("stream") {
			obj = &Stream{Dict: dict, Raw: lx.readStreamData(dict)}
		}
		if lx.atKeyword("endobj") {
			lx.pos += len("endobj")
		}
		// Incremental updates append redefinitions, so the last object
		// with a given number wins.
		doc.objects[num] = obj
	}
	if len(doc.objects) == 0 {
		return nil, errors.New("no objects found in PDF body")
	}
	return doc, nil
}

// Resolve follows indirect references until a direct object is reached.
func (d *Document) Resolve(obj Object) (Object, error) {
	for i := 0; i < 32; i++ {
		ref, ok := obj.(Ref)
		if !ok {
			return obj, nil
		}
		next, ok := d.objects[ref.Num]
		if !ok {
			return nil, fmt.Errorf("unresolved reference to object %d", ref.Num)
		}
		obj = next
	}
	return nil, errors.New("reference chain too deep")
}

// DecodeStream applies the stream's Filter chain to its raw payload.
// DCTDecode and JPXDecode data is left in its compressed image format;
// image extraction hands it to the image decoder whole.
func (d *Document) DecodeStream(s *Stream) ([]byte, error) {
	filterObj, err := d.Resolve(s.Dict.Get("Filter"))
	if err != nil {
		return nil, err
	}
	if filterObj == nil {
		return s.Raw, nil
	}

	var chain Array
	switch v := filterObj.(type) {
	case Name:
		chain = Array{v}
	case Array:
		chain = v
	default:
		return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
	}

	data := s.Raw
	for i, f := range chain {
		name, ok := f.(Name)
		if !ok {
			return nil, fmt.Errorf("filter %d is not a name: %T", i, f)
		}
		switch string(name) {
		case "FlateDecode", "Fl":
			params, err := d.predictorParams(s.Dict.Get("DecodeParms"), i)
			if err != nil {
				return nil, err
			}
			data, err = filters.FlateDecode(data, params)
			if err != nil {
				return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
			}
		case "DCTDecode", "DCT", "JPXDecode":
		default:
			return nil, fmt.Errorf("unsupported filter: %s", name)
		}
	}
	return data, nil
}

// predictorParams reads the DecodeParms entry matching filter index i.
func (d *Document) predictorParams(obj Object, i int) (filters.PredictorParams, error) {
	resolved, err := d.Resolve(obj)
	if err != nil {
		return filters.PredictorParams{}, err
	}
	if arr, ok := resolved.(Array); ok {
		if i >= len(arr) {
			return filters.PredictorParams{}, nil
		}
		resolved, err = d.Resolve(arr[i])
		if err != nil {
			return filters.PredictorParams{}, err
		}
	}
	dict, ok := resolved.(Dict)
	if !ok {
		return filters.PredictorParams{}, nil
	}
	return filters.PredictorParams{
		Predictor:        d.intEntry(dict, "Predictor", 1),
		Colors:           d.intEntry(dict, "Colors", 1),
		BitsPerComponent: d.intEntry(dict, "BitsPerComponent", 8),
		Columns:          d.intEntry(dict, "Columns", 1),
	}, nil
}

// intEntry resolves a dictionary entry to an int, with a fallback for
// absent or malformed entries.
func (d *Document) intEntry(dict Dict, key string, fallback int) int {
	resolved, err := d.Resolve(dict.Get(key))
	if err != nil {
		return fallback
	}
	if n, ok := resolved.(Int); ok {
		return int(n)
	}
	return fallback
}

// lexer is a positioned cursor over the raw PDF bytes.
type lexer struct {
	data []byte
	pos  int
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

// skipWS skips whitespace and comments.
func (lx *lexer) skipWS() {
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if isWhitespace(c) {
			lx.pos++
			continue
		}
		if c == '%' {
			for lx.pos < len(lx.data) && lx.data[lx.pos] != '\n' && lx.data[lx.pos] != '\r' {
				lx.pos++
			}
			continue
		}
		return
	}
}

// nextObjectHeader scans forward for the next "N G obj" header and returns
// the object number. Anything else at the top level (cross-reference
// tables, trailers, damaged content) is skipped a token at a time.
func (lx *lexer) nextObjectHeader() (int, bool) {
	for {
		lx.skipWS()
		if lx.pos >= len(lx.data) {
			return 0, false
		}
		start := lx.pos
		num, ok := lx.readUint()
		if !ok {
			lx.pos = start
			lx.skipToken()
			continue
		}
		resume := lx.pos
		lx.skipWS()
		if _, ok := lx.readUint(); !ok {
			lx.pos = resume
			continue
		}
		lx.skipWS()
		if lx.atKeyword("obj") {
			lx.pos += len("obj")
			return num, true
		}
		lx.pos = resume
	}
}

func (lx *lexer) readUint() (int, bool) {
	start := lx.pos
	for lx.pos < len(lx.data) && lx.data[lx.pos] >= '0' && lx.data[lx.pos] <= '9' {
		lx.pos++
	}
	if lx.pos == start {
		return 0, false
	}
	// A trailing regular char means this is some other token, not a number.
	if lx.pos < len(lx.data) && isRegular(lx.data[lx.pos]) {
		return 0, false
	}
	n, err := strconv.Atoi(string(lx.data[start:lx.pos]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// skipToken advances past one token without interpreting it.
func (lx *lexer) skipToken() {
	if lx.pos >= len(lx.data) {
		return
	}
	if isDelimiter(lx.data[lx.pos]) {
		lx.pos++
		return
	}
	for lx.pos < len(lx.data) && isRegular(lx.data[lx.pos]) {
		lx.pos++
	}
}

// atKeyword reports whether the next token is exactly kw. It skips leading
// whitespace but does not consume the keyword.
func (lx *lexer) atKeyword(kw string) bool {
	lx.skipWS()
	if !bytes.HasPrefix(lx.data[lx.pos:], []byte(kw)) {
		return false
	}
	end := lx.pos + len(kw)
	return end >= len(lx.data) || !isRegular(lx.data[end])
}

func (lx *lexer) parseObject() (Object, error) {
	lx.skipWS()
	if lx.pos >= len(lx.data) {
		return nil, errors.New("unexpected end of input")
	}
	c := lx.data[lx.pos]
	switch {
	case c == '<' && lx.pos+1 < len(lx.data) && lx.data[lx.pos+1] == '<':
		return lx.parseDict()
	case c == '<':
		return lx.parseHexString()
	case c == '[':
		return lx.parseArray()
	case c == '/':
		name, err := lx.parseName()
		return name, err
	case c == '(':
		return lx.parseString()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return lx.parseNumberOrRef()
	default:
		return lx.parseKeyword()
	}
}

func (lx *lexer) parseKeyword() (Object, error) {
	start := lx.pos
	for lx.pos < len(lx.data) && isRegular(lx.data[lx.pos]) {
		lx.pos++
	}
	switch kw := string(lx.data[start:lx.pos]); kw {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected keyword %q", kw)
	}
}

func (lx *lexer) parseDict() (Object, error) {
	lx.pos += 2 // <<
	dict := make(Dict)
	for {
		lx.skipWS()
		if lx.pos >= len(lx.data) {
			return nil, errors.New("unterminated dictionary")
		}
		if bytes.HasPrefix(lx.data[lx.pos:], []byte(">>")) {
			lx.pos += 2
			return dict, nil
		}
		if lx.data[lx.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name, got %q", lx.data[lx.pos])
		}
		key, err := lx.parseName()
		if err != nil {
			return nil, err
		}
		val, err := lx.parseObject()
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
}

func (lx *lexer) parseArray() (Object, error) {
	lx.pos++ // [
	var arr Array
	for {
		lx.skipWS()
		if lx.pos >= len(lx.data) {
			return nil, errors.New("unterminated array")
		}
		if lx.data[lx.pos] == ']' {
			lx.pos++
			return arr, nil
		}
		obj, err := lx.parseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (lx *lexer) parseName() (Name, error) {
	lx.pos++ // /
	var out []byte
	for lx.pos < len(lx.data) && isRegular(lx.data[lx.pos]) {
		c := lx.data[lx.pos]
		if c == '#' && lx.pos+2 < len(lx.data) {
			hi, ok1 := hexVal(lx.data[lx.pos+1])
			lo, ok2 := hexVal(lx.data[lx.pos+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				lx.pos += 3
				continue
			}
		}
		out = append(out, c)
		lx.pos++
	}
	return Name(out), nil
}

func (lx *lexer) parseString() (Object, error) {
	lx.pos++ // (
	var out []byte
	depth := 1
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		switch c {
		case '\\':
			if lx.pos >= len(lx.data) {
				return nil, errors.New("unterminated string escape")
			}
			e := lx.data[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\n', '\r':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for n := 0; n < 2 && lx.pos < len(lx.data); n++ {
						d := lx.data[lx.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						lx.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return String(out), nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return nil, errors.New("unterminated string")
}

func (lx *lexer) parseHexString() (Object, error) {
	lx.pos++ // <
	var out []byte
	var hi byte
	have := false
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		lx.pos++
		if c == '>' {
			if have {
				out = append(out, hi<<4) // odd digit count: final digit pads with 0
			}
			return String(out), nil
		}
		if isWhitespace(c) {
			continue
		}
		v, ok := hexVal(c)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit %q", c)
		}
		if have {
			out = append(out, hi<<4|v)
			have = false
		} else {
			hi = v
			have = true
		}
	}
	return nil, errors.New("unterminated hex string")
}

func (lx *lexer) parseNumberOrRef() (Object, error) {
	start := lx.pos
	if c := lx.data[lx.pos]; c == '+' || c == '-' {
		lx.pos++
	}
	isReal := false
	for lx.pos < len(lx.data) {
		c := lx.data[lx.pos]
		if c == '.' {
			isReal = true
			lx.pos++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		lx.pos++
	}
	tok := string(lx.data[start:lx.pos])

	if isReal {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", tok)
		}
		return Real(f), nil
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", tok)
	}

	// "N G R" is an indirect reference.
	if n >= 0 {
		save := lx.pos
		lx.skipWS()
		if gen, ok := lx.readUint(); ok {
			lx.skipWS()
			if lx.atKeyword("R") {
				lx.pos++
				return Ref{Num: int(n), Gen: gen}, nil
			}
		}
		lx.pos = save
	}
	return Int(n), nil
}

// readStreamData consumes the payload between "stream" and "endstream".
// The Length entry is used when it is a direct integer that lines up with
// an endstream keyword; otherwise the payload end is found by searching.
func (lx *lexer) readStreamData(dict Dict) []byte {
	lx.pos += len("stream")
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.data) && lx.data[lx.pos] == '\n' {
		lx.pos++
	}
	start := lx.pos

	if n, ok := dict.Get("Length").(Int); ok {
		end := start + int(n)
		if end >= start && end <= len(lx.data) {
			off := end
			for off < len(lx.data) && isWhitespace(lx.data[off]) {
				off++
			}
			if bytes.HasPrefix(lx.data[off:], []byte("endstream")) {
				lx.pos = off + len("endstream")
				return lx.data[start:end]
			}
		}
	}

	idx := bytes.Index(lx.data[start:], []byte("endstream"))
	if idx < 0 {
		lx.pos = len(lx.data)
		return lx.data[start:]
	}
	end := start + idx
	lx.pos = end + len("endstream")
	// Trim the EOL separating the data from the keyword.
	if end > start && lx.data[end-1] == '\n' {
		end--
	}
	if end > start && lx.data[end-1] == '\r' {
		end--
	}
	return lx.data[start:end]
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
