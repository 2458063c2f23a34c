// Package imageutil 处理头像 data URI：解码、居中裁剪为正方形并缩放。
package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

// ErrInvalidDataURI 不是合法的 base64 图片 data URI
var ErrInvalidDataURI = errors.New("头像格式无效")

// IsDataURI 判断字符串是否为内联图片
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// DecodeDataURI 解析 data:image/...;base64,xxx 并返回图片
func DecodeDataURI(s string) (image.Image, error) {
	if !IsDataURI(s) {
		return nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return img, nil
}

// NormalizeAvatar 将 data URI 头像转换为 size×size 的 JPEG
func NormalizeAvatar(dataURI string, size int) ([]byte, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 128
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropToSquare(img, size), &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("编码头像失败: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI 将 JPEG 字节重新编码为 data URI（未启用对象存储时使用）
func EncodeDataURI(jpegBytes []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}

func cropToSquare(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	crop := b
	switch {
	case w > h:
		off := (w - h) / 2
		crop = image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	case h > w:
		off := (h - w) / 2
		crop = image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}
