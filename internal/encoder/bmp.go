package encoder

import (
	"encoding/binary"
	"image"
	"io"
)

// encodeBMP writes img as an uncompressed 32-bit BGRA BMP, bottom-up, for
// FFmpeg's bmp_pipe demuxer. golang.org/x/image/bmp only decodes; there is
// no encode-side BMP library in the dependency set, so this is the one
// piece of wire-format work done against the standard library directly.
func encodeBMP(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	rowSize := width * 4
	pixelDataSize := rowSize * height
	fileSize := 14 + 40 + pixelDataSize

	header := make([]byte, 14+40)
	// BITMAPFILEHEADER
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(header[10:], 14+40)
	// BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(header[14:], 40)
	binary.LittleEndian.PutUint32(header[18:], uint32(width))
	binary.LittleEndian.PutUint32(header[22:], uint32(height))
	binary.LittleEndian.PutUint16(header[26:], 1)  // planes
	binary.LittleEndian.PutUint16(header[28:], 32) // bits per pixel
	binary.LittleEndian.PutUint32(header[34:], uint32(pixelDataSize))

	if _, err := w.Write(header); err != nil {
		return err
	}

	row := make([]byte, rowSize)
	for y := height - 1; y >= 0; y-- {
		srcY := b.Min.Y + y
		for x := 0; x < width; x++ {
			c := img.RGBAAt(b.Min.X+x, srcY)
			row[x*4+0] = c.B
			row[x*4+1] = c.G
			row[x*4+2] = c.R
			row[x*4+3] = c.A
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
