package ai

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"

	"github.com/sudo-init-do/ecosync/internal/errs"
)

const (
	// MaxImageDimension bounds the width and height sent to the model.
	MaxImageDimension = 1024
	jpegQuality       = 85
)

// DecodeBase64Image accepts raw base64 or a data URL.
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Invalid("image is not valid base64")
	}
	return data, nil
}

// PrepareImage validates a JPEG or PNG, shrinks it to MaxImageDimension and re-encodes it as JPEG.
func PrepareImage(data []byte) (Image, error) {
	switch mime := http.DetectContentType(data); mime {
	case "image/jpeg", "image/png":
	default:
		return Image{}, errs.Invalid("unsupported image format %s", mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, errs.Invalid("cannot decode image")
	}
	img = downscale(img, MaxImageDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Image{MIME: "image/jpeg", Data: buf.Bytes()}, nil
}

func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	nw, nh := maxDim, maxDim
	if w > h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
