package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

func encodeLines(lines []Line) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, l := range lines {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(l.ProductID)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		e.FieldStart("color")
		e.Str(l.Color)
		e.FieldStart("selected")
		e.Bool(l.Selected)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeLines(data []byte) ([]Line, error) {
	d := jx.DecodeBytes(data)
	var lines []Line
	err := d.Arr(func(d *jx.Decoder) error {
		var l Line
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "productId":
				l.ProductID, err = d.Str()
			case "quantity":
				l.Quantity, err = d.Int()
			case "color":
				l.Color, err = d.Str()
			case "selected":
				l.Selected, err = d.Bool()
			default:
				err = d.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		lines = append(lines, l)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart lines")
	}
	return lines, nil
}
