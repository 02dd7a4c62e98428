package assets

import "bytes"

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
	webpMagic = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")
)

func fakeImage(magic []byte, size int) []byte {
	if size < len(magic) {
		size = len(magic)
	}
	return append(append([]byte{}, magic...), bytes.Repeat([]byte{0}, size-len(magic))...)
}
