package product

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encode writes p as a JSON object.
func (p Product) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("rating")
	e.ObjStart()
	e.FieldStart("rate")
	e.Float64(p.Rating.Rate)
	e.FieldStart("count")
	e.Int(p.Rating.Count)
	e.ObjEnd()
	e.ObjEnd()
}

// Decode reads p from a JSON object. Unknown fields are skipped and null
// values leave the zero value in place.
func (p *Product) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() == jx.Null {
			return d.Null()
		}
		var err error
		switch string(key) {
		case "id":
			p.ID, err = d.Int()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "rating":
			err = p.Rating.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

// Decode reads r from a JSON object.
func (r *Rating) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "rate":
			r.Rate, err = d.Float64()
		case "count":
			r.Count, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
}

// EncodeList serializes products as a JSON array.
func EncodeList(products []Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		p.Encode(&e)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeList parses a JSON array of products.
func DecodeList(d *jx.Decoder) ([]Product, error) {
	var products []Product
	if err := d.Arr(func(d *jx.Decoder) error {
		var p Product
		if err := p.Decode(d); err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}
