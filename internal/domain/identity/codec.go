package identity

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

func encodeIdentity(id Identity) []byte {
	var e jx.Encoder
	writeIdentity(&e, id)
	return e.Bytes()
}

func writeIdentity(e *jx.Encoder, id Identity) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(id.ID)
	e.FieldStart("username")
	e.Str(id.Username)
	e.FieldStart("email")
	e.Str(id.Email)
	e.FieldStart("address")
	e.Str(id.Address)
	e.FieldStart("phoneNumber")
	e.Str(id.PhoneNumber)
	e.FieldStart("admin")
	e.Bool(id.Admin)
	e.ObjEnd()
}

func decodeIdentity(data []byte) (Identity, error) {
	d := jx.DecodeBytes(data)
	id, err := readIdentity(d)
	if err != nil {
		return Identity{}, errors.Wrap(err, "decode identity")
	}
	return id, nil
}

func readIdentity(d *jx.Decoder) (Identity, error) {
	var id Identity
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			id.ID, err = d.Str()
		case "username":
			id.Username, err = d.Str()
		case "email":
			id.Email, err = d.Str()
		case "address":
			id.Address, err = d.Str()
		case "phoneNumber":
			id.PhoneNumber, err = d.Str()
		case "admin":
			id.Admin, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return id, err
}

func encodeAccounts(accounts []account) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, a := range accounts {
		e.ObjStart()
		e.FieldStart("identity")
		writeIdentity(&e, a.Identity)
		e.FieldStart("passwordHash")
		e.Str(a.PasswordHash)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeAccounts(data []byte) ([]account, error) {
	d := jx.DecodeBytes(data)
	var accounts []account
	err := d.Arr(func(d *jx.Decoder) error {
		var a account
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "identity":
				a.Identity, err = readIdentity(d)
			case "passwordHash":
				a.PasswordHash, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		accounts = append(accounts, a)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode accounts")
	}
	return accounts, nil
}
