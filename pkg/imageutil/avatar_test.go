package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("生成测试图片失败: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestNormalizeAvatar_CropsAndResizes(t *testing.T) {
	out, err := NormalizeAvatar(pngDataURI(t, 300, 120), 64)
	if err != nil {
		t.Fatalf("NormalizeAvatar 失败: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出应为 JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("期望 64x64，实际 %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeAvatar_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"普通 URL", "https://example.com/a.png"},
		{"缺少 base64 标记", "data:image/png,abcd"},
		{"非法 base64", "data:image/png;base64,@@@"},
		{"不是图片", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hola"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeAvatar(tt.input, 64); !errors.Is(err, ErrInvalidDataURI) {
				t.Errorf("期望 ErrInvalidDataURI，实际: %v", err)
			}
		})
	}
}

func TestEncodeDataURI(t *testing.T) {
	uri := EncodeDataURI([]byte{0xff, 0xd8})
	if !IsDataURI(uri) {
		t.Errorf("期望 data URI，实际 %s", uri)
	}
}
