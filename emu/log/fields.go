package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeHex32
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeDuration
	FieldTypeStringer
	FieldTypeBlob
)

type ZField struct {
	Type FieldType
	Key  string

	// Possible values. Only one of these is populated, depending on Type
	String    string
	Integer   uint64
	Duration  time.Duration
	Error     error
	Interface any
	Boolean   bool
	Blob      []byte
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex8:
		return fmt.Sprintf("%02x", uint8(f.Integer))
	case FieldTypeHex16:
		return fmt.Sprintf("%04x", uint16(f.Integer))
	case FieldTypeHex32:
		return fmt.Sprintf("%08x", uint32(f.Integer))
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeDuration:
		return f.Duration.String()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.(fmt.Stringer).String()
	case FieldTypeBlob:
		return hex.Dump(f.Blob)
	}
	return ""
}
