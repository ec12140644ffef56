package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sort"
)

// PageImage is a scanned page image recovered from a PDF.
type PageImage struct {
	Page             int
	Name             string // XObject name, or one synthesized from the object number
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, ICCBased, ...
	BitsPerComponent int
	Filter           string // first entry of the Filter chain
	Data             []byte // decoded samples, or JPEG bytes for DCTDecode
}

// ExtractPageImages returns the image XObjects of every page, in page
// order. Images that cannot be decoded (unsupported filters, malformed
// entries) are skipped. When the page tree is absent or damaged the image
// streams are collected in object-number order, one page per image; scanned
// certificates carry exactly one full-page image per page, so that ordering
// matches the page order.
func (d *Document) ExtractPageImages() ([]PageImage, error) {
	var images []PageImage
	for i, page := range d.pageDicts() {
		images = append(images, d.pageImages(page, i)...)
	}
	if len(images) == 0 {
		images = d.imagesByObjectNumber()
	}
	return images, nil
}

// pageDicts walks Catalog -> Pages -> Kids and returns the page
// dictionaries in document order.
func (d *Document) pageDicts() []Dict {
	var catalog Dict
	for _, num := range d.sortedObjectNumbers() {
		if dict, ok := d.objects[num].(Dict); ok {
			if name, ok := dict.Get("Type").(Name); ok && name == "Catalog" {
				catalog = dict
				break
			}
		}
	}
	if catalog == nil {
		return nil
	}
	root, err := d.Resolve(catalog.Get("Pages"))
	if err != nil {
		return nil
	}

	var out []Dict
	d.walkPages(root, &out, 0)
	return out
}

func (d *Document) walkPages(node Object, out *[]Dict, depth int) {
	if depth > 32 {
		return
	}
	dict, ok := node.(Dict)
	if !ok {
		return
	}
	typeName, _ := dict.Get("Type").(Name)
	switch typeName {
	case "Pages":
		kids, err := d.Resolve(dict.Get("Kids"))
		if err != nil {
			return
		}
		arr, ok := kids.(Array)
		if !ok {
			return
		}
		for _, kid := range arr {
			resolved, err := d.Resolve(kid)
			if err != nil {
				continue
			}
			d.walkPages(resolved, out, depth+1)
		}
	case "Page":
		*out = append(*out, dict)
	}
}

func (d *Document) sortedObjectNumbers() []int {
	nums := make([]int, 0, len(d.objects))
	for num := range d.objects {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// pageImages extracts the image XObjects from one page's resources.
func (d *Document) pageImages(page Dict, pageIndex int) []PageImage {
	resources, err := d.Resolve(page.Get("Resources"))
	if err != nil {
		return nil
	}
	resDict, ok := resources.(Dict)
	if !ok {
		return nil
	}
	xobjects, err := d.Resolve(resDict.Get("XObject"))
	if err != nil {
		return nil
	}
	xdict, ok := xobjects.(Dict)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(xdict))
	for name := range xdict {
		names = append(names, string(name))
	}
	sort.Strings(names)

	var images []PageImage
	for _, name := range names {
		resolved, err := d.Resolve(xdict.Get(name))
		if err != nil {
			continue
		}
		stream, ok := resolved.(*Stream)
		if !ok {
			continue
		}
		if subtype, ok := stream.Dict.Get("Subtype").(Name); !ok || subtype != "Image" {
			continue
		}
		img, err := d.extractImage(name, stream, pageIndex)
		if err != nil {
			continue
		}
		images = append(images, *img)
	}
	return images
}

// imagesByObjectNumber is the fallback used when no page tree is reachable.
func (d *Document) imagesByObjectNumber() []PageImage {
	var images []PageImage
	for _, num := range d.sortedObjectNumbers() {
		stream, ok := d.objects[num].(*Stream)
		if !ok {
			continue
		}
		if subtype, ok := stream.Dict.Get("Subtype").(Name); !ok || subtype != "Image" {
			continue
		}
		img, err := d.extractImage(fmt.Sprintf("Obj%d", num), stream, len(images))
		if err != nil {
			continue
		}
		images = append(images, *img)
	}
	return images
}

func (d *Document) extractImage(name string, stream *Stream, pageIndex int) (*PageImage, error) {
	width := d.intEntry(stream.Dict, "Width", 0)
	height := d.intEntry(stream.Dict, "Height", 0)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %s has no usable dimensions", name)
	}

	data, err := d.DecodeStream(stream)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", name, err)
	}

	return &PageImage{
		Page:             pageIndex,
		Name:             name,
		Width:            width,
		Height:           height,
		ColorSpace:       d.colorSpaceName(stream.Dict.Get("ColorSpace"), 0),
		BitsPerComponent: d.intEntry(stream.Dict, "BitsPerComponent", 8),
		Filter:           d.firstFilterName(stream.Dict.Get("Filter")),
		Data:             data,
	}, nil
}

// colorSpaceName reduces a color space object to a device name.
// Indexed spaces report their base space.
func (d *Document) colorSpaceName(obj Object, depth int) string {
	if depth > 8 {
		return "DeviceGray"
	}
	resolved, err := d.Resolve(obj)
	if err != nil {
		return "DeviceGray"
	}
	switch v := resolved.(type) {
	case Name:
		return string(v)
	case Array:
		if len(v) == 0 {
			break
		}
		name, ok := v[0].(Name)
		if !ok {
			break
		}
		if name == "Indexed" && len(v) > 1 {
			return d.colorSpaceName(v[1], depth+1)
		}
		return string(name)
	}
	return "DeviceGray"
}

func (d *Document) firstFilterName(obj Object) string {
	resolved, err := d.Resolve(obj)
	if err != nil {
		return ""
	}
	switch v := resolved.(type) {
	case Name:
		return string(v)
	case Array:
		if len(v) > 0 {
			if name, ok := v[0].(Name); ok {
				return string(name)
			}
		}
	}
	return ""
}

// Encoded returns the image in a form an image decoder can read: JPEG data
// is passed through as stored, everything else is rendered to PNG.
func (img *PageImage) Encoded() ([]byte, error) {
	switch img.Filter {
	case "DCTDecode", "DCT":
		return img.Data, nil
	}
	return img.ToPNG()
}

// ToPNG renders the decoded samples as a PNG.
func (img *PageImage) ToPNG() ([]byte, error) {
	var goImg image.Image
	var err error
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = img.toRGBImage()
	default:
		// DeviceGray, CalGray and the spaces without a direct device
		// mapping (ICCBased) render as grayscale.
		goImg, err = img.toGrayImage()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (img *PageImage) toGrayImage() (*image.Gray, error) {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	switch img.BitsPerComponent {
	case 8:
		need := img.Width * img.Height
		if len(img.Data) < need {
			return nil, fmt.Errorf("insufficient data: got %d, need %d", len(img.Data), need)
		}
		copy(out.Pix, img.Data[:need])

	case 4:
		bytesPerRow := (img.Width + 1) / 2
		if len(img.Data) < bytesPerRow*img.Height {
			return nil, fmt.Errorf("insufficient data for 4-bit image: got %d, need %d",
				len(img.Data), bytesPerRow*img.Height)
		}
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				b := img.Data[y*bytesPerRow+x/2]
				nibble := b >> 4 // high nibble first
				if x%2 == 1 {
					nibble = b & 0x0F
				}
				out.Pix[y*img.Width+x] = nibble * 17 // scale 0-15 to 0-255
			}
		}

	case 1:
		bytesPerRow := (img.Width + 7) / 8
		if len(img.Data) < bytesPerRow*img.Height {
			return nil, fmt.Errorf("insufficient data for 1-bit image: got %d, need %d",
				len(img.Data), bytesPerRow*img.Height)
		}
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				bit := (img.Data[y*bytesPerRow+x/8] >> (7 - x%8)) & 1
				// 0 is black in PDF bi-level images.
				if bit == 0 {
					out.Pix[y*img.Width+x] = 0
				} else {
					out.Pix[y*img.Width+x] = 255
				}
			}
		}

	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", img.BitsPerComponent)
	}
	return out, nil
}

func (img *PageImage) toRGBImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}
	need := img.Width * img.Height * 3
	if len(img.Data) < need {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, need %d", len(img.Data), need)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		out.Pix[i*4+0] = img.Data[i*3+0]
		out.Pix[i*4+1] = img.Data[i*3+1]
		out.Pix[i*4+2] = img.Data[i*3+2]
		out.Pix[i*4+3] = 255
	}
	return out, nil
}
