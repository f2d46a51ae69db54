package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Persisted shape: decimals as strings to keep exact values, timestamps as
// RFC 3339 with nanoseconds, deliveryDate null until set.

func encodeOrders(orders []*Order) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, o := range orders {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(o.ID)
		e.FieldStart("userId")
		e.Str(o.UserID)
		e.FieldStart("username")
		e.Str(o.Username)
		e.FieldStart("items")
		e.ArrStart()
		for _, it := range o.Items {
			e.ObjStart()
			e.FieldStart("productId")
			e.Str(it.ProductID)
			e.FieldStart("name")
			e.Str(it.Name)
			e.FieldStart("price")
			e.Str(it.Price.String())
			e.FieldStart("quantity")
			e.Int(it.Quantity)
			e.FieldStart("color")
			e.Str(it.Color)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("shippingAddress")
		e.ObjStart()
		e.FieldStart("doorNumber")
		e.Str(o.ShippingAddress.DoorNumber)
		e.FieldStart("street")
		e.Str(o.ShippingAddress.Street)
		e.FieldStart("city")
		e.Str(o.ShippingAddress.City)
		e.FieldStart("state")
		e.Str(o.ShippingAddress.State)
		e.FieldStart("pincode")
		e.Str(o.ShippingAddress.Pincode)
		e.ObjEnd()
		e.FieldStart("paymentMethod")
		e.Str(string(o.PaymentMethod))
		e.FieldStart("status")
		e.Str(string(o.Status))
		e.FieldStart("total")
		e.Str(o.Total.String())
		e.FieldStart("orderDate")
		e.Str(o.OrderDate.Format(time.RFC3339Nano))
		e.FieldStart("deliveryDate")
		if o.DeliveryDate != nil {
			e.Str(o.DeliveryDate.Format(time.RFC3339Nano))
		} else {
			e.Null()
		}
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeOrders(data []byte) ([]*Order, error) {
	d := jx.DecodeBytes(data)
	var orders []*Order
	err := d.Arr(func(d *jx.Decoder) error {
		o, err := readOrder(d)
		if err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func readOrder(d *jx.Decoder) (*Order, error) {
	o := &Order{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Str()
		case "userId":
			o.UserID, err = d.Str()
		case "username":
			o.Username, err = d.Str()
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				it, err := readItem(d)
				if err != nil {
					return err
				}
				o.Items = append(o.Items, it)
				return nil
			})
		case "shippingAddress":
			o.ShippingAddress, err = readAddress(d)
		case "paymentMethod":
			var s string
			if s, err = d.Str(); err == nil {
				o.PaymentMethod, err = ParsePaymentMethod(s)
			}
		case "status":
			var s string
			if s, err = d.Str(); err == nil {
				o.Status, err = ParseStatus(s)
			}
		case "total":
			o.Total, err = readDecimal(d)
		case "orderDate":
			o.OrderDate, err = readTime(d)
		case "deliveryDate":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var t time.Time
			if t, err = readTime(d); err == nil {
				o.DeliveryDate = &t
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func readItem(d *jx.Decoder) (Item, error) {
	var it Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			it.ProductID, err = d.Str()
		case "name":
			it.Name, err = d.Str()
		case "price":
			it.Price, err = readDecimal(d)
		case "quantity":
			it.Quantity, err = d.Int()
		case "color":
			it.Color, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}

func readAddress(d *jx.Decoder) (Address, error) {
	var a Address
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "doorNumber":
			a.DoorNumber, err = d.Str()
		case "street":
			a.Street, err = d.Str()
		case "city":
			a.City, err = d.Str()
		case "state":
			a.State, err = d.Str()
		case "pincode":
			a.Pincode, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return a, err
}

func readDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	s, err := d.Str()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}

func readTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}
