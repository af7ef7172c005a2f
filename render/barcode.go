package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"

	"github.com/lvillar/doclayout"
)

// renderBarcode encodes the content with the requested symbology, scales it
// to the declared size, and emits it as a PNG image instruction.
func renderBarcode(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	content := propString(props, "content", "")
	if content == "" {
		return fmt.Errorf("barcode requires a content property")
	}
	symbology := propString(props, "symbology", "code128")

	var (
		bc  barcode.Barcode
		err error
	)
	switch symbology {
	case "code128":
		bc, err = code128.Encode(content)
	case "code39":
		bc, err = code39.Encode(content, true, true)
	case "ean":
		bc, err = ean.Encode(content)
	case "pdf417":
		bc, err = pdf417.Encode(content, 2)
	default:
		return fmt.Errorf("unsupported barcode symbology %q", symbology)
	}
	if err != nil {
		return fmt.Errorf("encoding %s barcode: %w", symbology, err)
	}

	width := int(propNumber(props, "width", 200))
	height := int(propNumber(props, "height", 60))
	return emitScaled(sink, bc, width, height)
}

// renderQRCode encodes the content as a QR symbol with the requested error
// correction level.
func renderQRCode(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	content := propString(props, "content", "")
	if content == "" {
		return fmt.Errorf("qrCode requires a content property")
	}

	level := qr.M
	switch propString(props, "errorCorrection", "M") {
	case "L":
		level = qr.L
	case "Q":
		level = qr.Q
	case "H":
		level = qr.H
	}

	bc, err := qr.Encode(content, level, qr.Auto)
	if err != nil {
		return fmt.Errorf("encoding QR code: %w", err)
	}

	size := int(propNumber(props, "size", 128))
	return emitScaled(sink, bc, size, size)
}

func emitScaled(sink doclayout.Sink, bc barcode.Barcode, width, height int) error {
	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return fmt.Errorf("scaling barcode: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return fmt.Errorf("encoding barcode image: %w", err)
	}
	return sink.DrawImage(doclayout.ImageInstruction{
		Data:   buf.Bytes(),
		Format: "png",
		Width:  float64(width),
		Height: float64(height),
	})
}
