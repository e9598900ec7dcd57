package game

import (
	"errors"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	lineStartX protowire.Number = 1
	lineStartY protowire.Number = 2
	lineEndX   protowire.Number = 3
	lineEndY   protowire.Number = 4
	lineColor  protowire.Number = 5
)

var errCoordOutOfRange = errors.New("coordinate-out-of-range")

// EncodeLine writes a line in protobuf wire format so binary clients can
// stream strokes without JSON overhead.
func EncodeLine(l Line) []byte {
	b := make([]byte, 0, 16+len(l.Color))
	for _, f := range []struct {
		num protowire.Number
		val uint16
	}{
		{lineStartX, l.Start.X},
		{lineStartY, l.Start.Y},
		{lineEndX, l.End.X},
		{lineEndY, l.End.Y},
	} {
		b = protowire.AppendTag(b, f.num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.val))
	}
	if l.Color != "" {
		b = protowire.AppendTag(b, lineColor, protowire.BytesType)
		b = protowire.AppendString(b, l.Color)
	}
	return b
}

func DecodeLine(b []byte) (Line, error) {
	var l Line
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Line{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num >= lineStartX && num <= lineEndY && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Line{}, protowire.ParseError(n)
			}
			if v > math.MaxUint16 {
				return Line{}, errCoordOutOfRange
			}
			switch num {
			case lineStartX:
				l.Start.X = uint16(v)
			case lineStartY:
				l.Start.Y = uint16(v)
			case lineEndX:
				l.End.X = uint16(v)
			case lineEndY:
				l.End.Y = uint16(v)
			}
			b = b[n:]
		case num == lineColor && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return Line{}, protowire.ParseError(n)
			}
			l.Color = s
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Line{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return l, nil
}
