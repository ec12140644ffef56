package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// PredictorParams carries the DecodeParms entries that shape Flate output.
// The zero value means no prediction.
type PredictorParams struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
}

// FlateDecode decompresses zlib/deflate data and undoes the PNG row
// predictors (10-15) that scanner software commonly applies to image
// streams. Predictor 1 (and 0) is identity.
func FlateDecode(data []byte, params PredictorParams) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating zlib reader: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	out := buf.Bytes()

	switch {
	case params.Predictor <= 1:
		return out, nil
	case params.Predictor >= 10 && params.Predictor <= 15:
		return undoPNGPredictor(out, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", params.Predictor)
	}
}

// undoPNGPredictor reverses the per-row PNG filters. Each row starts with a
// filter-type byte (0=None, 1=Sub, 2=Up, 3=Average, 4=Paeth) which is
// stripped from the output.
func undoPNGPredictor(data []byte, params PredictorParams) ([]byte, error) {
	colors := params.Colors
	if colors < 1 {
		colors = 1
	}
	columns := params.Columns
	if columns < 1 {
		columns = 1
	}
	if bpc := params.BitsPerComponent; bpc != 0 && bpc != 8 {
		return nil, fmt.Errorf("PNG predictor supports 8 bits per component, got %d", bpc)
	}

	rowLen := columns * colors
	stride := rowLen + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*rowLen)
	for row := 0; row < rows; row++ {
		ft := data[row*stride]
		src := data[row*stride+1 : (row+1)*stride]
		dst := out[row*rowLen : (row+1)*rowLen]
		var prev []byte
		if row > 0 {
			prev = out[(row-1)*rowLen : row*rowLen]
		}

		for i := range src {
			var left, up, upLeft byte
			if i >= colors {
				left = dst[i-colors]
			}
			if prev != nil {
				up = prev[i]
				if i >= colors {
					upLeft = prev[i-colors]
				}
			}

			var pred byte
			switch ft {
			case 0:
			case 1:
				pred = left
			case 2:
				pred = up
			case 3:
				pred = byte((int(left) + int(up)) / 2)
			case 4:
				pred = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown row filter %d in row %d", ft, row)
			}
			dst[i] = src[i] + pred
		}
	}
	return out, nil
}

// paeth picks the neighbor closest to the linear prediction, per the PNG
// specification.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
